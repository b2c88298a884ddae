package session

import (
	"context"
	"sync/atomic"
	"time"

	"galli2globe/internal/domain"
	"galli2globe/internal/models"

	"github.com/rs/zerolog"
)

// FailoverRepository serves sessions from the primary backend and falls back
// to the in-memory one when the primary is down, probing for recovery once a
// minute.
type FailoverRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverRepository {
	return &FailoverRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	if !r.isDown.Load() {
		sess, err := r.primary.Get(ctx, token)
		if err == nil {
			return sess, nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		sess, err := r.primary.Get(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return sess, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Get(ctx, token)
}

func (r *FailoverRepository) Set(ctx context.Context, sess *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, sess)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Set(ctx, sess)
}

func (r *FailoverRepository) Delete(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, token)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.Delete(ctx, token)
}
