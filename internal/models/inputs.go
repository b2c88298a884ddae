package models

// SignUpInput carries the signup form fields.
type SignUpInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	TravelStyle   string `json:"travelStyle"`
	AcceptedTerms bool   `json:"acceptedTerms"`
}

// ProfileUpdate carries profile edits. Empty fields are left untouched.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Country     string `json:"country,omitempty"`
	TravelStyle string `json:"travelStyle,omitempty"`
}

// BookingInput carries the booking form fields. DestinationID is resolved
// against the catalog at submission time.
type BookingInput struct {
	DestinationID string `json:"destinationId"`
	TravelMonth   string `json:"travelMonth"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Country       string `json:"country"`
	GroupSize     string `json:"groupSize"`
	Notes         string `json:"notes,omitempty"`
}
