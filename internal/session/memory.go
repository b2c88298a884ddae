package session

import (
	"context"
	"sync"
	"time"

	"galli2globe/internal/models"
)

type MemoryRepository struct {
	sessions sync.Map
	ttl      time.Duration
}

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{ttl: ttl}
}

func (r *MemoryRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemoryRepository) Set(ctx context.Context, sess *models.Session) error {
	r.sessions.Store(sess.Token, &memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}
