package models

import "time"

// Booking is a normalized trip booking. The owner's bookings view is derived
// by filtering on OwnerEmail; there is no second embedded copy to keep in
// sync. Destination fields are snapshotted at booking time and never
// refreshed, even if the catalog entry changes later.
type Booking struct {
	ID                  string    `json:"id"`
	OwnerEmail          string    `json:"ownerEmail,omitempty"`
	DestinationID       string    `json:"destinationId"`
	DestinationName     string    `json:"destinationName"`
	DestinationImage    string    `json:"destinationImage"`
	DestinationLocation string    `json:"destinationLocation"`
	Price               int64     `json:"price"`
	TravelMonth         string    `json:"travelMonth"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	FullName            string    `json:"fullName"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Country             string    `json:"country"`
	GroupSize           string    `json:"groupSize"`
	Notes               string    `json:"notes,omitempty"`
	Status              string    `json:"status"`
	BookedAt            time.Time `json:"bookedAt"`
	BookedDate          string    `json:"bookedDate"`
}

// IsCancelled reports whether the booking has been soft-deleted.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}
