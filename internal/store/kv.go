package store

import "context"

// Store keys, matching the site's persisted state layout.
const (
	KeyUser     = "user"
	KeyEmail    = "userEmail"
	KeyBookings = "bookings"
	KeyCurrency = "selectedCurrency"
)

// KV is a flat string-keyed value store. Implementations must report a
// missing key as found=false with a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
