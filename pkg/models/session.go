package models

import "time"

// User is the identity descriptor carried inside a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the authenticated viewer state handed out by the auth provider.
// The token is opaque; nothing in this module inspects it. A session value is
// replaced wholesale on every auth-state change and is absent (nil) when the
// viewer is signed out.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
