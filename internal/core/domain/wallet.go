package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a client's monetary balance, the mutable projection of its
// ledger. Exactly one wallet exists per client, created atomically with it.
// Balance is held in minor units (cents) and only mutated inside a store
// transaction together with its matching ledger entry.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanDebit reports whether the wallet covers the given amount.
func (w *Wallet) CanDebit(amount int64) bool {
	return w.Balance >= amount
}
