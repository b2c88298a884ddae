package models

import "time"

// Session ties an issued token to the account it authenticates. Store
// operations take an explicit session instead of relying on ambient
// current-user state.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
