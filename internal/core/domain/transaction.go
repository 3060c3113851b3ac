package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// Transaction is an immutable, append-only ledger entry. Rows are never
// updated or deleted; the wallet balance must equal the sum of credits minus
// debits over the client's transactions at every quiescent point.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"client_id"`
	SessionID   *uuid.UUID      `json:"session_id,omitempty"` // set for session-settling debits
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"` // minor units, always positive
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
