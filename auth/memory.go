package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"truckboard/pkg/logger"
	"truckboard/pkg/models"
)

// Memory is an in-memory auth provider: bcrypt-hashed credentials, opaque
// uuid session tokens, and a listener registry for session-change events.
// One active session at a time; signing in replaces it wholesale.
type Memory struct {
	log logger.ILogger

	mu        sync.Mutex
	users     map[string]credential // email -> credential
	session   *models.Session
	listeners map[int64]Handler
	nextID    int64
}

type credential struct {
	userID       string
	passwordHash []byte
}

func NewMemory(log logger.ILogger) *Memory {
	return &Memory{
		log:       log,
		users:     make(map[string]credential),
		listeners: make(map[int64]Handler),
	}
}

// AddUser registers an email/password pair. The password is stored only as a
// bcrypt hash.
func (m *Memory) AddUser(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = credential{
		userID:       uuid.NewString(),
		passwordHash: hash,
	}
	return nil
}

// SignIn validates the credentials, replaces the active session, and notifies
// subscribers with the new session.
func (m *Memory) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	m.mu.Lock()
	cred, ok := m.users[email]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown user %q", email)
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials for %q", email)
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		User:      models.User{ID: cred.userID, Email: email},
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.session = session
	handlers := m.snapshotListeners()
	m.mu.Unlock()

	m.log.Info("user signed in", logger.String("email", email))
	for _, h := range handlers {
		h(session)
	}
	return session, nil
}

func (m *Memory) GetCurrentSession(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Memory) OnSessionChange(handler Handler) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = handler
	return &memorySubscription{provider: m, id: id}
}

func (m *Memory) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.session = nil
	handlers := m.snapshotListeners()
	m.mu.Unlock()

	m.log.Info("user signed out")
	for _, h := range handlers {
		h(nil)
	}
	return nil
}

// snapshotListeners must be called with the lock held; handlers run outside
// the lock so a handler may unsubscribe itself without deadlocking.
func (m *Memory) snapshotListeners() []Handler {
	handlers := make([]Handler, 0, len(m.listeners))
	for _, h := range m.listeners {
		handlers = append(handlers, h)
	}
	return handlers
}

type memorySubscription struct {
	provider *Memory
	id       int64
	once     sync.Once
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.provider.mu.Lock()
		delete(s.provider.listeners, s.id)
		s.provider.mu.Unlock()
	})
}
