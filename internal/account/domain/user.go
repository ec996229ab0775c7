package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the per-visitor server-side session. UserID is zero until
// the visitor logs in.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Flash     *Flash    `json:"flash,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.UserID != 0
}

// Flash is a one-shot message surfaced on the next cart view, e.g. the
// payment-success banner after a checkout redirect.
type Flash struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
