package ports

import (
	"context"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	// Create inserts a client inside the given transaction so the wallet
	// insert can share its atomic scope.
	Create(ctx context.Context, tx pgx.Tx, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	// GetByDocumentOrEmail returns any client sharing either identifier,
	// used for the pre-insert duplicate check.
	GetByDocumentOrEmail(ctx context.Context, document, email string) (*domain.Client, error)
	// GetByIdentity resolves a client by document + phone, the lookup pair
	// every wallet operation starts from.
	GetByIdentity(ctx context.Context, document, phone string) (*domain.Client, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Wallet, error)
	// GetByClientIDForUpdate locks the wallet row (SELECT ... FOR UPDATE),
	// serializing every balance mutation for that client.
	GetByClientIDForUpdate(ctx context.Context, tx pgx.Tx, clientID uuid.UUID) (*domain.Wallet, error)
	// UpdateBalance sets the wallet balance within a transaction. The caller
	// must have checked sufficiency under the same lock for debits.
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
}

// TransactionRepository appends immutable ledger entries. There is no update
// or delete: the transaction table is the audit trail.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	ListByClientID(ctx context.Context, clientID uuid.UUID) ([]domain.Transaction, error)
}

// PaymentSessionRepository defines persistence operations for payment sessions.
type PaymentSessionRepository interface {
	Create(ctx context.Context, session *domain.PaymentSession) error
	// GetLatestByToken returns the newest session carrying the token, or nil.
	// Tokens are not globally unique; newest-first is the lookup tie-break.
	GetLatestByToken(ctx context.Context, token string) (*domain.PaymentSession, error)
	// GetLatestByTokenForUpdate is the locking variant used during
	// settlement so status re-checks and the transition share one scope.
	GetLatestByTokenForUpdate(ctx context.Context, tx pgx.Tx, token string) (*domain.PaymentSession, error)
	// HasLiveToken reports whether an unexpired PENDING session already
	// holds the token. Used to retry generation on collision.
	HasLiveToken(ctx context.Context, token string, now time.Time) (bool, error)
	// MarkExpired persists the lazy PENDING -> EXPIRED transition.
	MarkExpired(ctx context.Context, id uuid.UUID) error
	// Confirm sets CONFIRMED and the settlement time within a transaction.
	Confirm(ctx context.Context, tx pgx.Tx, id uuid.UUID, confirmedAt time.Time) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
