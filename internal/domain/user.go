package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator allowed to sign in and register travelers.
// PasswordHash is a bcrypt hash and is never serialised.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
