package application

import (
	"context"

	"shopit/internal/account/domain"
)

type UserRepository interface {
	// Create fails with ErrUsernameTaken when the username exists.
	Create(ctx context.Context, username, email, passwordHash string) (domain.User, error)
	ByUsername(ctx context.Context, username string) (domain.User, error)
	ByID(ctx context.Context, id int64) (domain.User, error)
}

type SessionStore interface {
	Get(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context, id string) error
}

// CartClearer lets logout drop the session's cart without importing the
// cart context.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}
