package service_test

import (
	"context"
	"sync"

	"truckboard/auth"
	"truckboard/pkg/models"
)

// gatedAuth wraps a provider and blocks GetCurrentSession until the gate is
// released, standing in for a slow session lookup.
type gatedAuth struct {
	auth.IProvider
	gate chan struct{}
}

func newGatedAuth(inner auth.IProvider) *gatedAuth {
	return &gatedAuth{IProvider: inner, gate: make(chan struct{})}
}

func (g *gatedAuth) GetCurrentSession(ctx context.Context) (*models.Session, error) {
	<-g.gate
	return g.IProvider.GetCurrentSession(ctx)
}

func (g *gatedAuth) release() { close(g.gate) }

// fakeOrderStore is a controllable data provider. When gated, QueryOrders
// blocks until the current gate is released; results and errors are swapped
// per test step.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
	gate   chan struct{}
	calls  int
}

func (f *fakeOrderStore) QueryOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	orders, err := f.orders, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
		// state may have changed while blocked
		f.mu.Lock()
		orders, err = f.orders, f.err
		f.mu.Unlock()
	}
	return orders, err
}

func (f *fakeOrderStore) set(orders []models.Order, err error) {
	f.mu.Lock()
	f.orders, f.err = orders, err
	f.mu.Unlock()
}

func (f *fakeOrderStore) openGate() chan struct{} {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
	return gate
}

func (f *fakeOrderStore) closeGate(gate chan struct{}) {
	f.mu.Lock()
	f.gate = nil
	f.mu.Unlock()
	close(gate)
}

func (f *fakeOrderStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:          10,
			FirstName:   strPtr("Ada"),
			LastName:    strPtr("Byron"),
			PhoneNumber: strPtr("5551234567"),
			Tonnage:     f64Ptr(12),
			PickupCity:  strPtr("Denver"),
			DropoffCity: strPtr("Boise"),
		},
		{
			ID:          11,
			FirstName:   strPtr("Grace"),
			LastName:    strPtr("Hopper"),
			Tonnage:     f64Ptr(7.5),
			PickupCity:  strPtr("Laredo"),
			DropoffCity: strPtr("Omaha"),
		},
	}
}
