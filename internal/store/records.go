package store

import (
	"context"
	"encoding/json"
	"fmt"

	"galli2globe/internal/models"

	"github.com/rs/zerolog"
)

// Records wraps a KV backend with the typed record layout. Reads never fail
// on missing or malformed values: they decode to safe defaults so callers can
// always render something. Write errors are still reported.
type Records struct {
	kv     KV
	logger *zerolog.Logger
}

func NewRecords(kv KV, logger *zerolog.Logger) *Records {
	return &Records{kv: kv, logger: logger}
}

// User returns the current account record, or nil when absent or unreadable.
func (r *Records) User(ctx context.Context) (*models.User, error) {
	raw, found, err := r.kv.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		r.logger.Warn().Err(err).Str("key", KeyUser).Msg("corrupt user record, treating as absent")
		return nil, nil
	}
	return &user, nil
}

// SaveUser persists the record and the denormalized email used for login
// matching. Any prior record is replaced outright.
func (r *Records) SaveUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.kv.Set(ctx, KeyUser, string(data)); err != nil {
		return err
	}
	return r.kv.Set(ctx, KeyEmail, user.Email)
}

// DeleteUser removes the account record and its email key. Bookings are a
// separate collection and survive logout.
func (r *Records) DeleteUser(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyUser); err != nil {
		return err
	}
	return r.kv.Delete(ctx, KeyEmail)
}

// UserEmail returns the stored login email, empty when absent.
func (r *Records) UserEmail(ctx context.Context) (string, error) {
	email, _, err := r.kv.Get(ctx, KeyEmail)
	return email, err
}

// Bookings returns the global booking list in insertion order. Missing or
// corrupt data yields an empty list.
func (r *Records) Bookings(ctx context.Context) ([]models.Booking, error) {
	raw, found, err := r.kv.Get(ctx, KeyBookings)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Booking{}, nil
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(raw), &bookings); err != nil {
		r.logger.Warn().Err(err).Str("key", KeyBookings).Msg("corrupt booking list, treating as empty")
		return []models.Booking{}, nil
	}
	return bookings, nil
}

func (r *Records) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	if bookings == nil {
		bookings = []models.Booking{}
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("marshal bookings: %w", err)
	}
	return r.kv.Set(ctx, KeyBookings, string(data))
}

// Currency returns the persisted currency code, empty when none was chosen.
func (r *Records) Currency(ctx context.Context) (string, error) {
	code, _, err := r.kv.Get(ctx, KeyCurrency)
	return code, err
}

func (r *Records) SetCurrency(ctx context.Context, code string) error {
	return r.kv.Set(ctx, KeyCurrency, code)
}

func (r *Records) Close() error { return r.kv.Close() }
