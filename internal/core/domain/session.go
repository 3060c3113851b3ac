package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a payment session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusConfirmed SessionStatus = "CONFIRMED"
	SessionStatusExpired   SessionStatus = "EXPIRED"
)

// PaymentSession is a pending, token-gated spend awaiting confirmation
// within a TTL. Once CONFIRMED or EXPIRED it never transitions again; rows
// are retained for audit.
type PaymentSession struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"client_id"`
	Token       string        `json:"-"` // fixed-width numeric code, never serialized with the session
	Amount      int64         `json:"amount"`
	Description *string       `json:"description,omitempty"`
	Status      SessionStatus `json:"status"`
	ExpiresAt   time.Time     `json:"expires_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// IsPending reports whether the session can still transition.
func (s *PaymentSession) IsPending() bool {
	return s.Status == SessionStatusPending
}

// IsExpiredAt reports whether the session's TTL has elapsed at the given
// instant. Expiry is detected lazily on confirmation, not by a sweeper.
func (s *PaymentSession) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
