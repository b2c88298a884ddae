package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"galli2globe/internal/domain"
	"galli2globe/internal/events"
	"galli2globe/internal/metrics"
	"galli2globe/internal/models"
	"galli2globe/internal/session"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AccountService owns the single traveler account record. Every operation
// that acts on behalf of a signed-in user takes an explicit session.
type AccountService struct {
	store    domain.RecordStore
	sessions *session.Manager
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAccountService(store domain.RecordStore, sessions *session.Manager, eventBus domain.EventPublisher, logger *zerolog.Logger) *AccountService {
	return &AccountService{
		store:    store,
		sessions: sessions,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SignUp creates a fresh account record, replacing any prior one outright,
// and opens a session for it.
func (s *AccountService) SignUp(ctx context.Context, input models.SignUpInput) (*models.User, *models.Session, error) {
	if !input.AcceptedTerms {
		return nil, nil, ErrTermsNotAccepted
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return nil, nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	user := &models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		TravelStyle: input.TravelStyle,
		JoinedDate:  time.Now(),
		Wishlist:    []string{},
	}
	if user.TravelStyle != "" && !user.HasTravelStyle() {
		return nil, nil, fmt.Errorf("%w: unknown travel style %q", ErrValidation, input.TravelStyle)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Issue(ctx, user.Email)
	if err != nil {
		return nil, nil, err
	}

	metrics.IncSignup()
	s.publishAccountEvent(events.EventAccountCreated, user)
	s.logger.Info().Str("email", user.Email).Msg("account created")

	return user, sess, nil
}

// LogIn verifies the stored account. An unknown email fails; it does not
// silently create an account the way the site's stub auth did.
func (s *AccountService) LogIn(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return nil, nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	storedEmail, err := s.store.UserEmail(ctx)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || storedEmail != email {
		return nil, nil, ErrUnknownEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(ctx, user.Email)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("signed in")
	return user, sess, nil
}

// LogOut removes the account record and revokes the session. The global
// booking list is a separate collection and is left untouched.
func (s *AccountService) LogOut(ctx context.Context, sess *models.Session) error {
	user, err := s.store.User(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx); err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, sess.Token); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session on logout")
	}

	if user != nil {
		s.publishAccountEvent(events.EventAccountDeleted, user)
	}
	return nil
}

// UpdateProfile merges the non-empty fields into the account record and
// stamps UpdatedAt.
func (s *AccountService) UpdateProfile(ctx context.Context, sess *models.Session, update models.ProfileUpdate) (*models.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoAccount
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(update.Email); email != "" {
		user.Email = email
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.Country != "" {
		user.Country = update.Country
	}
	if update.TravelStyle != "" {
		user.TravelStyle = update.TravelStyle
		if !user.HasTravelStyle() {
			return nil, fmt.Errorf("%w: unknown travel style %q", ErrValidation, update.TravelStyle)
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if sess.Email != user.Email {
		sess.Email = user.Email
		if err := s.sessions.Refresh(ctx, sess); err != nil {
			s.logger.Warn().Err(err).Msg("failed to refresh session after email change")
		}
	}

	return user, nil
}

// CurrentUser returns the account record behind the session.
func (s *AccountService) CurrentUser(ctx context.Context, sess *models.Session) (*models.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoAccount
	}
	return user, nil
}

func (s *AccountService) publishAccountEvent(eventType string, user *models.User) {
	if s.eventBus == nil {
		return
	}

	payload := events.AccountEventPayload{
		Email:       user.Email,
		Name:        user.Name,
		TravelStyle: user.TravelStyle,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
