package models

import "time"

// User is the single traveler account record. The store keeps at most one
// User at a time (local single-session model inherited from the site).
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	TravelStyle  string    `json:"travelStyle,omitempty"`
	Country      string    `json:"country,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	JoinedDate   time.Time `json:"joinedDate"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
	Wishlist     []string  `json:"wishlist"`
}

// HasTravelStyle reports whether the style is one of the known values.
func (u *User) HasTravelStyle() bool {
	switch u.TravelStyle {
	case TravelStyleLuxury, TravelStyleAdventure, TravelStyleCulture, TravelStyleWellness:
		return true
	}
	return false
}
