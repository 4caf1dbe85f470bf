package service

import (
	"context"
	"sync"

	"truckboard/auth"
	"truckboard/pkg/filter"
	"truckboard/pkg/logger"
	"truckboard/pkg/models"
	"truckboard/storage"
)

// Navigation targets handed to the redirect hook.
const (
	RouteLanding = "/"
	RouteLogin   = "/login"
)

// ViewModel is the single derived surface the presentation layer renders.
// It is recomputed on every View call, never cached; the order sets in play
// are small enough that a full filter pass per keystroke is fine.
type ViewModel struct {
	IsLoading        bool
	IsAuthenticated  bool
	UserLabel        string
	IsFetchingOrders bool
	FetchError       string
	VisibleOrders    []models.Order
	Query            string
}

// Dashboard is the composition root: session controller gates the order
// loader, the filter narrows the loaded set by the live query, and View
// exposes the result. One Dashboard per viewer; Stop releases the session
// subscription so instances do not leak listeners.
type Dashboard struct {
	provider auth.IProvider
	sessions *SessionController
	loader   *OrderLoader
	log      logger.ILogger

	mu     sync.Mutex
	ctx    context.Context
	query  string
	authed bool

	onRedirect func(target string)
	onUpdate   func()
}

func NewDashboard(provider auth.IProvider, stg storage.IOrderStorage, log logger.ILogger) *Dashboard {
	d := &Dashboard{
		provider: provider,
		sessions: NewSessionController(provider, log),
		loader:   NewOrderLoader(stg, log),
		log:      log,
	}

	d.sessions.OnChange(d.handleSessionChange)
	d.sessions.OnReauthRequired(func() {
		d.redirect(RouteLogin)
	})
	d.loader.OnUpdate(func() {
		d.notify()
	})

	return d
}

// OnRedirect registers the navigation hook the presentation layer must
// honor. Must be set before Start.
func (d *Dashboard) OnRedirect(fn func(target string)) {
	d.onRedirect = fn
}

// OnUpdate registers the re-render hook, invoked after every state
// transition that can change the view model. Must be set before Start.
func (d *Dashboard) OnUpdate(fn func()) {
	d.onUpdate = fn
}

// Start begins session resolution. ctx bounds every fetch issued on behalf
// of this dashboard instance.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()

	d.sessions.Start(ctx)
}

// Stop releases the session subscription and supersedes any in-flight fetch.
func (d *Dashboard) Stop() {
	d.sessions.Stop()
	d.loader.Deactivate()
}

// handleSessionChange drives the loader off the session state machine: every
// transition into authenticated starts a fresh order epoch, every transition
// out supersedes it.
func (d *Dashboard) handleSessionChange(session *models.Session) {
	d.mu.Lock()
	wasAuthed := d.authed
	d.authed = session != nil
	ctx := d.ctx
	d.mu.Unlock()

	switch {
	case session != nil && !wasAuthed:
		d.log.Info("session authenticated, loading orders",
			logger.String("user", session.User.Email))
		d.loader.Activate(ctx)
	case session == nil && wasAuthed:
		d.log.Info("session gone, clearing orders")
		d.loader.Deactivate()
	}

	d.notify()
}

// SetQuery replaces the live search query. Filtering is synchronous and
// never blocks.
func (d *Dashboard) SetQuery(query string) {
	d.mu.Lock()
	d.query = query
	d.mu.Unlock()

	d.notify()
}

// Refresh re-issues the order query for the current epoch. No automatic
// retry exists; this is the user-triggered path after a failure.
func (d *Dashboard) Refresh() {
	if d.sessions.State() != StateAuthenticated {
		return
	}

	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()

	d.loader.Refresh(ctx)
	d.notify()
}

// Logout signs out through the auth provider and navigates to the public
// landing surface.
func (d *Dashboard) Logout(ctx context.Context) error {
	if err := d.provider.SignOut(ctx); err != nil {
		d.log.Error("sign out failed", logger.Error(err))
		return err
	}
	d.redirect(RouteLanding)
	return nil
}

// View derives the current view model from session, loader, and query state.
func (d *Dashboard) View() ViewModel {
	d.mu.Lock()
	query := d.query
	d.mu.Unlock()

	session := d.sessions.Session()
	userLabel := ""
	if session != nil {
		userLabel = session.User.Email
	}

	return ViewModel{
		IsLoading:        d.sessions.Loading(),
		IsAuthenticated:  session != nil,
		UserLabel:        userLabel,
		IsFetchingOrders: d.loader.Fetching(),
		FetchError:       d.loader.Err(),
		VisibleOrders:    filter.Orders(d.loader.Orders(), query),
		Query:            query,
	}
}

func (d *Dashboard) redirect(target string) {
	if d.onRedirect != nil {
		d.onRedirect(target)
	}
}

func (d *Dashboard) notify() {
	if d.onUpdate != nil {
		d.onUpdate()
	}
}
