package session

import (
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	lockStripes    = 64
	fingerprintLen = 12
)

// Manager is the typed read/write contract over a session store. Session ids
// are never stored: the storage key is a keyed blake2b hash of the id.
type Manager struct {
	repo   repository.SessionRepository
	ttl    time.Duration
	key    []byte
	locks  [lockStripes]sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a session manager
func NewManager(repo repository.SessionRepository, ttl time.Duration, salt string, logger *zap.Logger) *Manager {
	key := blake2b.Sum256([]byte(salt))
	return &Manager{
		repo:   repo,
		ttl:    ttl,
		key:    key[:],
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) storageKey(id string) string {
	h, _ := blake2b.New256(m.key)
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a session in logs without revealing its id
func (m *Manager) Fingerprint(id string) string {
	return m.storageKey(id)[:fingerprintLen]
}

func (m *Manager) lock(key string) *sync.Mutex {
	b, _ := hex.DecodeString(key[:2])
	return &m.locks[int(b[0])%lockStripes]
}

// Create starts an empty session and returns its id
func (m *Manager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := m.now()
	s := &domain.Session{CreatedAt: now, UpdatedAt: now}

	if err := m.repo.Save(ctx, m.storageKey(id), s, m.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Get loads a session
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &errors.ErrNotFound{Resource: "session", ID: id}
	}
	return m.repo.Get(ctx, m.storageKey(id))
}

// Update applies fn to the session under a lock and saves it. Nothing is
// saved when fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(*domain.Session) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return &errors.ErrNotFound{Resource: "session", ID: id}
	}
	key := m.storageKey(id)

	mu := m.lock(key)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	s.UpdatedAt = m.now()
	return m.repo.Save(ctx, key, s, m.ttl)
}

// Destroy removes a session
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.repo.Delete(ctx, m.storageKey(id))
}

// Token returns the stored bearer token or ErrUnauthorized
func (m *Manager) Token(ctx context.Context, id string) (string, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.Token == "" {
		return "", &errors.ErrUnauthorized{Message: "not signed in"}
	}
	return s.Token, nil
}

// SetToken stores the bearer token
func (m *Manager) SetToken(ctx context.Context, id, token string) error {
	return m.Update(ctx, id, func(s *domain.Session) error {
		s.Token = token
		return nil
	})
}

// ClearToken forgets the bearer token
func (m *Manager) ClearToken(ctx context.Context, id string) error {
	return m.SetToken(ctx, id, "")
}

// AddressID returns the cached address id, 0 when none
func (m *Manager) AddressID(ctx context.Context, id string) (int64, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.AddressID, nil
}

// SetAddressID caches the address id for later checkouts
func (m *Manager) SetAddressID(ctx context.Context, id string, addressID int64) error {
	return m.Update(ctx, id, func(s *domain.Session) error {
		s.AddressID = addressID
		return nil
	})
}

// ClearAddressID forgets the cached address id
func (m *Manager) ClearAddressID(ctx context.Context, id string) error {
	return m.SetAddressID(ctx, id, 0)
}

// SetOrder records the order being paid and how
func (m *Manager) SetOrder(ctx context.Context, id string, orderID int64, paymentType domain.PaymentType) error {
	return m.Update(ctx, id, func(s *domain.Session) error {
		s.CurrentOrderID = orderID
		s.PaymentType = paymentType
		return nil
	})
}

// ClearTokenOnUnauthorized drops the token when err says the backend
// rejected it, and returns err unchanged.
func (m *Manager) ClearTokenOnUnauthorized(ctx context.Context, id string, err error) error {
	if err == nil || !stderrors.Is(err, errors.ErrReauthenticate) {
		return err
	}
	if clearErr := m.ClearToken(ctx, id); clearErr != nil {
		m.logger.Warn("Failed to clear rejected token", zap.Error(clearErr))
	}
	return err
}
