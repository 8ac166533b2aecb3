package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"sync"
	"time"
)

// SessionRepository keeps at most one checkout session per user. Save
// creates or overwrites, and every Save restarts the idle TTL.
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*model.CheckoutSession, error)
	Save(ctx context.Context, sess *model.CheckoutSession) error
	Delete(ctx context.Context, userID int64) error
}

type memorySession struct {
	sess      model.CheckoutSession
	expiresAt time.Time // zero: never
}

type memorySessionRepoImpl struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]memorySession
}

// NewMemorySessionRepository keeps sessions in process memory. A ttl of 0
// disables expiry; expired sessions are dropped lazily on read.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepoImpl{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]memorySession),
	}
}

func (r *memorySessionRepoImpl) Get(ctx context.Context, userID int64) (*model.CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !stored.expiresAt.IsZero() && !r.now().Before(stored.expiresAt) {
		delete(r.sessions, userID)
		return nil, ErrSessionNotFound
	}

	sess := stored.sess
	return &sess, nil
}

func (r *memorySessionRepoImpl) Save(ctx context.Context, sess *model.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := memorySession{sess: *sess}
	if r.ttl > 0 {
		stored.expiresAt = r.now().Add(r.ttl)
	}
	r.sessions[sess.UserID] = stored

	return nil
}

func (r *memorySessionRepoImpl) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}
