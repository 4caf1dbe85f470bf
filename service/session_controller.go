package service

import (
	"context"
	"sync"

	"truckboard/auth"
	"truckboard/pkg/logger"
	"truckboard/pkg/models"
)

type SessionState int

const (
	// StatePending covers the window before the initial session resolution
	// lands. No re-authentication signal may fire while pending.
	StatePending SessionState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionController owns the viewer's authentication state. It resolves the
// current session once on Start, then tracks every session-change event until
// Stop releases the subscription. All transitions are applied atomically
// under one lock, and callbacks run outside it.
type SessionController struct {
	provider auth.IProvider
	log      logger.ILogger

	mu       sync.Mutex
	session  *models.Session
	resolved bool
	sub      auth.Subscription

	onChange func(session *models.Session)
	onReauth func()
}

func NewSessionController(provider auth.IProvider, log logger.ILogger) *SessionController {
	return &SessionController{
		provider: provider,
		log:      log,
	}
}

// OnChange registers the handler invoked after every applied session value,
// the initial resolution included. Must be set before Start.
func (c *SessionController) OnChange(fn func(session *models.Session)) {
	c.onChange = fn
}

// OnReauthRequired registers the handler invoked whenever the session is
// absent after the initial resolution has completed. Must be set before
// Start.
func (c *SessionController) OnReauthRequired(fn func()) {
	c.onReauth = fn
}

// Start registers the change subscription and kicks off the asynchronous
// initial resolution. The subscription is registered first so no event
// delivered during resolution is lost.
func (c *SessionController) Start(ctx context.Context) {
	c.mu.Lock()
	c.sub = c.provider.OnSessionChange(func(session *models.Session) {
		c.apply(session, false)
	})
	c.mu.Unlock()

	go func() {
		session, err := c.provider.GetCurrentSession(ctx)
		if err != nil {
			c.log.Warning("initial session resolution failed", logger.Error(err))
			session = nil
		}
		c.apply(session, true)
	}()
}

// Stop releases the change subscription. Idempotent.
func (c *SessionController) Stop() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// apply replaces the stored session. A change event always wins; the initial
// resolution is dropped when an event already resolved the state, so a slow
// lookup cannot clobber a fresher login or logout.
func (c *SessionController) apply(session *models.Session, initial bool) {
	c.mu.Lock()
	if initial && c.resolved {
		c.mu.Unlock()
		return
	}
	c.resolved = true
	c.session = session
	reauth := session == nil
	c.mu.Unlock()

	c.log.Debug("session applied",
		logger.Bool("initial", initial),
		logger.Bool("authenticated", session != nil))

	if c.onChange != nil {
		c.onChange(session)
	}
	if reauth && c.onReauth != nil {
		c.onReauth()
	}
}

// State reports the current position in the Pending -> {Authenticated,
// Unauthenticated} machine.
func (c *SessionController) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.resolved:
		return StatePending
	case c.session != nil:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Session returns the current session, nil when absent or still pending.
func (c *SessionController) Session() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Loading reports whether the initial resolution is still outstanding.
func (c *SessionController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.resolved
}
