package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
