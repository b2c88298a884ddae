package session

import (
	"context"
	"errors"
	"time"

	"galli2globe/internal/domain"
	"galli2globe/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Manager owns the session lifecycle: issuing tokens on signup/login,
// resolving them on authenticated requests, revoking them on logout.
type Manager struct {
	repo   domain.SessionRepository
	logger *zerolog.Logger
}

func NewManager(repo domain.SessionRepository, logger *zerolog.Logger) *Manager {
	return &Manager{repo: repo, logger: logger}
}

// Issue creates and persists a session for the given account email.
func (m *Manager) Issue(ctx context.Context, email string) (*models.Session, error) {
	sess := &models.Session{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := m.repo.Set(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve maps a token back to its session, or ErrInvalidSession.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	sess, err := m.repo.Get(ctx, token)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to resolve session")
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidSession
	}
	return sess, nil
}

// Refresh re-persists a session, e.g. after its account email changed.
func (m *Manager) Refresh(ctx context.Context, sess *models.Session) error {
	return m.repo.Set(ctx, sess)
}

// Revoke drops the session. Revoking an unknown token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}
