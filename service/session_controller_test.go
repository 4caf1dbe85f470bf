package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"truckboard/auth"
	"truckboard/pkg/logger"
	"truckboard/pkg/models"
	"truckboard/service"
)

const (
	testEmail    = "dispatch@example.com"
	testPassword = "correct-horse-battery"
)

var testLog = logger.New("service-test", "error")

func newMemoryAuth(t *testing.T) *auth.Memory {
	t.Helper()
	m := auth.NewMemory(testLog)
	require.NoError(t, m.AddUser(testEmail, testPassword))
	return m
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 2*time.Millisecond, msg)
}

func TestSessionControllerResolvesUnauthenticated(t *testing.T) {
	provider := newMemoryAuth(t)

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.Start(context.Background())
	defer ctrl.Stop()

	eventually(t, func() bool { return !ctrl.Loading() }, "initial resolution should complete")
	require.Equal(t, service.StateUnauthenticated, ctrl.State())
	require.Nil(t, ctrl.Session())
}

func TestSessionControllerResolvesExistingSession(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryAuth(t)
	session, err := provider.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.Start(ctx)
	defer ctrl.Stop()

	eventually(t, func() bool { return ctrl.State() == service.StateAuthenticated }, "stored session should authenticate")
	require.Equal(t, session, ctrl.Session())
}

func TestSessionControllerNoReauthSignalWhilePending(t *testing.T) {
	provider := newGatedAuth(newMemoryAuth(t))

	var mu sync.Mutex
	signals := 0

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.OnReauthRequired(func() {
		mu.Lock()
		signals++
		mu.Unlock()
	})
	ctrl.Start(context.Background())
	defer ctrl.Stop()

	require.Equal(t, service.StatePending, ctrl.State())
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Zero(t, signals, "no redirect may fire before the initial resolution lands")
	mu.Unlock()

	provider.release()
	eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return signals == 1
	}, "absent session after resolution must signal exactly once")
	require.Equal(t, service.StateUnauthenticated, ctrl.State())
}

func TestSessionControllerTracksChangeEvents(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryAuth(t)

	var mu sync.Mutex
	var changes []*models.Session

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.OnChange(func(s *models.Session) {
		mu.Lock()
		changes = append(changes, s)
		mu.Unlock()
	})
	ctrl.Start(ctx)
	defer ctrl.Stop()

	eventually(t, func() bool { return !ctrl.Loading() }, "initial resolution should complete")

	session, err := provider.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, service.StateAuthenticated, ctrl.State())
	require.Equal(t, session, ctrl.Session())

	require.NoError(t, provider.SignOut(ctx))
	require.Equal(t, service.StateUnauthenticated, ctrl.State())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []*models.Session{nil, session, nil}, changes)
}

func TestSessionControllerEventBeatsSlowResolution(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryAuth(t)
	provider := newGatedAuth(inner)

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.Start(ctx)
	defer ctrl.Stop()

	// a login lands while the initial lookup is still blocked
	session, err := inner.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, service.StateAuthenticated, ctrl.State())

	provider.release()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, session, ctrl.Session(), "late initial result must not clobber the event")
}

func TestSessionControllerStopReleasesSubscription(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryAuth(t)

	ctrl := service.NewSessionController(provider, testLog)
	ctrl.Start(ctx)
	eventually(t, func() bool { return !ctrl.Loading() }, "initial resolution should complete")

	ctrl.Stop()
	ctrl.Stop() // idempotent

	_, err := provider.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, service.StateUnauthenticated, ctrl.State(), "events after Stop must not apply")
}
