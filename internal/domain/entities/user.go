package entities

import "time"

// User is a local mirror of an identity issued by the external auth service
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the caller resolved from a bearer token
type Identity struct {
	UserID string
	Email  string
}
