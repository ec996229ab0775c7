package application

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"shopit/internal/account/domain"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
)

type Service struct {
	users    UserRepository
	sessions SessionStore
	carts    CartClearer
}

func NewService(users UserRepository, sessions SessionStore, carts CartClearer) *Service {
	return &Service{users: users, sessions: sessions, carts: carts}
}

// Register creates the user and logs the new user into the session.
func (s *Service) Register(ctx context.Context, sessionID, username, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		return domain.User{}, err
	}

	if err := s.attach(ctx, sessionID, user.ID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, sessionID, username, password string) (domain.User, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if err := s.attach(ctx, sessionID, user.ID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Logout deletes the session and its cart.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) Profile(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) attach(ctx context.Context, sessionID string, userID int64) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.UserID = userID
	return s.sessions.Save(ctx, sess)
}
