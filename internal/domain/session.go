package domain

import "time"

// User is the signed-in identity of a mock session.
type User struct {
	Email string `json:"email"`
}

type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
