package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"galli2globe/internal/catalog"
	"galli2globe/internal/domain"
	"galli2globe/internal/events"
	"galli2globe/internal/metrics"
	"galli2globe/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the normalized booking collection. Destination details
// are snapshotted from the catalog at creation time; the user's view is
// derived by owner, never stored twice.
type BookingService struct {
	store      domain.RecordStore
	catalog    *catalog.Catalog
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	logger     *zerolog.Logger

	mu     sync.Mutex
	lastID int64
}

func NewBookingService(store domain.RecordStore, cat *catalog.Catalog, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:      store,
		catalog:    cat,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		logger:     logger,
	}
}

// ValidateBookingInput checks the form fields. A destination missing from
// the catalog is NOT an error: the booking degrades to an "Unknown" snapshot
// so submission always succeeds.
func (s *BookingService) ValidateBookingInput(input models.BookingInput) error {
	if strings.TrimSpace(input.DestinationID) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if input.TravelMonth == "" {
		return fmt.Errorf("%w: travel month is required", ErrValidation)
	}
	month, err := time.Parse(models.TravelMonthLayout, input.TravelMonth)
	if err != nil {
		return fmt.Errorf("%w: invalid travel month %q", ErrValidation, input.TravelMonth)
	}
	thisMonth := time.Now().Format(models.TravelMonthLayout)
	if input.TravelMonth < thisMonth {
		return fmt.Errorf("%w: travel month %s is in the past", ErrValidation, month.Format(models.TravelMonthLayout))
	}
	for field, value := range map[string]string{
		"first name": input.FirstName,
		"last name":  input.LastName,
		"email":      input.Email,
		"phone":      input.Phone,
		"country":    input.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	if !models.ValidGroupSize(input.GroupSize) {
		return fmt.Errorf("%w: invalid group size %q", ErrValidation, input.GroupSize)
	}
	return nil
}

// CreateBooking appends a confirmed booking to the collection.
func (s *BookingService) CreateBooking(ctx context.Context, sess *models.Session, input models.BookingInput) (*models.Booking, error) {
	if err := s.ValidateBookingInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	booking := models.Booking{
		ID:            s.nextBookingID(now),
		OwnerEmail:    sess.Email,
		DestinationID: input.DestinationID,
		TravelMonth:   input.TravelMonth,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		FullName:      input.FirstName + " " + input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		Country:       input.Country,
		GroupSize:     input.GroupSize,
		Notes:         input.Notes,
		Status:        models.StatusConfirmed,
		BookedAt:      now,
		BookedDate:    now.Format(models.BookedDateLayout),
	}

	// Snapshot the destination; it is never refreshed even if the catalog
	// changes later.
	if dest, ok := s.catalog.Get(input.DestinationID); ok {
		booking.DestinationName = dest.Name
		booking.DestinationImage = dest.Image
		booking.DestinationLocation = dest.Location
		booking.Price = dest.Price
	} else {
		booking.DestinationName = "Unknown"
		booking.Price = 0
	}

	bookings, err := s.store.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	bookings = append(bookings, booking)
	if err := s.store.SaveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishBookingEvent(events.EventBookingCreated, booking)
	s.enqueueSync(ctx)

	return &booking, nil
}

// CancelBooking soft-deletes: confirmed turns cancelled, and cancelling an
// already-cancelled booking is a no-op success.
func (s *BookingService) CancelBooking(ctx context.Context, sess *models.Session, id string) error {
	bookings, err := s.store.Bookings(ctx)
	if err != nil {
		return err
	}

	idx := findBooking(bookings, id)
	if idx < 0 {
		return ErrBookingNotFound
	}
	if bookings[idx].IsCancelled() {
		return nil
	}

	bookings[idx].Status = models.StatusCancelled
	if err := s.store.SaveBookings(ctx, bookings); err != nil {
		return err
	}

	metrics.IncBookingCancelled()
	s.publishBookingEvent(events.EventBookingCanceled, bookings[idx])
	s.enqueueSync(ctx)
	return nil
}

// DeleteBooking hard-deletes. Only cancelled bookings can be removed; a
// confirmed booking must be cancelled first.
func (s *BookingService) DeleteBooking(ctx context.Context, sess *models.Session, id string) error {
	bookings, err := s.store.Bookings(ctx)
	if err != nil {
		return err
	}

	idx := findBooking(bookings, id)
	if idx < 0 {
		return ErrBookingNotFound
	}
	if !bookings[idx].IsCancelled() {
		return ErrBookingNotCancelled
	}

	removed := bookings[idx]
	bookings = append(bookings[:idx], bookings[idx+1:]...)
	if err := s.store.SaveBookings(ctx, bookings); err != nil {
		return err
	}

	metrics.IncBookingDeleted()
	s.publishBookingEvent(events.EventBookingDeleted, removed)
	s.enqueueSync(ctx)
	return nil
}

// ListBookings returns the whole collection in insertion order.
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.Bookings(ctx)
}

// UserBookings derives the signed-in traveler's view by owner filter.
func (s *BookingService) UserBookings(ctx context.Context, sess *models.Session) ([]models.Booking, error) {
	bookings, err := s.store.Bookings(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.OwnerEmail == sess.Email {
			mine = append(mine, b)
		}
	}
	return mine, nil
}

// nextBookingID issues "BK<unix-millis>" tokens, bumping by a millisecond on
// collision so ids stay unique within the process.
func (s *BookingService) nextBookingID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return fmt.Sprintf("BK%d", ms)
}

func findBooking(bookings []models.Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *BookingService) publishBookingEvent(eventType string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:       booking.ID,
		OwnerEmail:      booking.OwnerEmail,
		DestinationID:   booking.DestinationID,
		DestinationName: booking.DestinationName,
		Price:           booking.Price,
		TravelMonth:     booking.TravelMonth,
		GroupSize:       booking.GroupSize,
		Status:          booking.Status,
		BookedAt:        booking.BookedAt,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueSync(ctx); err != nil {
		s.logger.Error().Err(err).Msg("sheets enqueue error")
	}
}
