package service

import (
	"context"
	"sync"

	"truckboard/pkg/logger"
	"truckboard/pkg/models"
	"truckboard/storage"
)

// OrderLoader issues the order query once per authentication epoch and keeps
// the loaded set plus its fetch flags. Every Activate and Deactivate bumps
// the generation; a fetch result carrying a stale generation is dropped on
// arrival, so a pending query from a previous epoch can never surface.
type OrderLoader struct {
	stg storage.IOrderStorage
	log logger.ILogger

	mu         sync.Mutex
	orders     []models.Order
	fetching   bool
	fetchErr   string
	generation uint64

	onUpdate func()
}

func NewOrderLoader(stg storage.IOrderStorage, log logger.ILogger) *OrderLoader {
	return &OrderLoader{
		stg: stg,
		log: log,
	}
}

// OnUpdate registers the handler invoked after every settled fetch. Must be
// set before the loader is activated.
func (l *OrderLoader) OnUpdate(fn func()) {
	l.onUpdate = fn
}

// Activate starts a new authentication epoch: the displayed set is cleared
// and exactly one fresh query is issued. Stale data never carries across
// re-authentication.
func (l *OrderLoader) Activate(ctx context.Context) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.orders = nil
	l.fetchErr = ""
	l.fetching = true
	l.mu.Unlock()

	l.fetch(ctx, gen)
}

// Deactivate ends the current epoch. Any in-flight query is superseded and
// its late result will be dropped. No query runs while unauthenticated.
func (l *OrderLoader) Deactivate() {
	l.mu.Lock()
	l.generation++
	l.orders = nil
	l.fetchErr = ""
	l.fetching = false
	l.mu.Unlock()
}

// Refresh re-issues the query within the current epoch without clearing the
// loaded set, so a failure leaves the previous data visible beside the error.
func (l *OrderLoader) Refresh(ctx context.Context) {
	l.mu.Lock()
	gen := l.generation
	l.fetchErr = ""
	l.fetching = true
	l.mu.Unlock()

	l.fetch(ctx, gen)
}

func (l *OrderLoader) fetch(ctx context.Context, gen uint64) {
	go func() {
		orders, err := l.stg.QueryOrders(ctx)

		l.mu.Lock()
		if gen != l.generation {
			l.mu.Unlock()
			l.log.Debug("dropping stale order fetch result", logger.Uint64("generation", gen))
			return
		}
		if err != nil {
			l.fetchErr = err.Error()
			l.log.Error("order fetch failed", logger.Error(err))
		} else {
			l.orders = orders
			l.fetchErr = ""
		}
		l.fetching = false
		l.mu.Unlock()

		if l.onUpdate != nil {
			l.onUpdate()
		}
	}()
}

// Orders returns the currently loaded set. The slice is replaced wholesale on
// every successful fetch and must not be mutated by callers.
func (l *OrderLoader) Orders() []models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orders
}

// Fetching reports whether a query is outstanding.
func (l *OrderLoader) Fetching() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetching
}

// Err returns the human-readable message of the last failed fetch, empty
// after a success or a fresh epoch.
func (l *OrderLoader) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetchErr
}
