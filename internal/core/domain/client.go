package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is the identity record a wallet hangs off. Document and email are
// unique across the system; the database constraints are the authoritative
// guard against duplicate registration.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Document  string    `json:"document"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
