// Package auth defines the session collaborator contract the dashboard core
// depends on, plus an in-memory provider used for wiring and tests.
package auth

import (
	"context"

	"truckboard/pkg/models"
)

// Handler receives the new session value on every auth-state change. A nil
// session means the viewer signed out or the session expired.
type Handler func(session *models.Session)

// Subscription is a live registration for session-change events.
type Subscription interface {
	// Unsubscribe releases the registration. Safe to call more than once.
	Unsubscribe()
}

// IProvider is the narrow surface the dashboard sees of the auth system.
type IProvider interface {
	// GetCurrentSession resolves the active session, or nil when signed out.
	GetCurrentSession(ctx context.Context) (*models.Session, error)

	// OnSessionChange registers handler for every login, logout, and refresh
	// until the returned subscription is released.
	OnSessionChange(handler Handler) Subscription

	// SignOut clears the active session and notifies subscribers.
	SignOut(ctx context.Context) error
}
