package domain

import (
	"context"

	"galli2globe/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RecordStore is the typed view over the site's persisted key/value layout
// (user, userEmail, bookings, selectedCurrency).
type RecordStore interface {
	User(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context) error
	UserEmail(ctx context.Context) (string, error)
	Bookings(ctx context.Context) ([]models.Booking, error)
	SaveBookings(ctx context.Context, bookings []models.Booking) error
	Currency(ctx context.Context) (string, error)
	SetCurrency(ctx context.Context, code string) error
}

type SessionRepository interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Set(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, token string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SyncWorker interface {
	EnqueueSync(ctx context.Context) error
}

type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type AccountService interface {
	SignUp(ctx context.Context, input models.SignUpInput) (*models.User, *models.Session, error)
	LogIn(ctx context.Context, email, password string) (*models.User, *models.Session, error)
	LogOut(ctx context.Context, sess *models.Session) error
	UpdateProfile(ctx context.Context, sess *models.Session, update models.ProfileUpdate) (*models.User, error)
	CurrentUser(ctx context.Context, sess *models.Session) (*models.User, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, sess *models.Session, input models.BookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, sess *models.Session, id string) error
	DeleteBooking(ctx context.Context, sess *models.Session, id string) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UserBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error)
}

type CurrencyService interface {
	Current(ctx context.Context) string
	Set(ctx context.Context, code string) error
	FormatPrice(ctx context.Context, amount int64, showDecimals bool) string
	Codes() []string
}
