package ports

import (
	"context"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"

	"github.com/google/uuid"
)

// TokenGenerator produces confirmation codes that gate settlement.
type TokenGenerator interface {
	// Generate returns a numeric string of exactly length digits, drawn
	// uniformly from [0, 10^length) and left-zero-padded. The generator
	// does not guarantee uniqueness across live sessions.
	Generate(length int) (string, error)
}

// PaymentTokenNotification is what the core hands to the delivery
// collaborator after initiating a payment.
type PaymentTokenNotification struct {
	Recipient string    // client email
	Name      string    // client full name
	Token     string
	Amount    int64
	ExpiresAt time.Time
}

// DeliveryResult reports a notification outcome. It never affects core state.
type DeliveryResult struct {
	Delivered bool
	Reason    string // populated when not delivered
}

// Notifier delivers payment token notifications, best-effort.
type Notifier interface {
	Send(ctx context.Context, n PaymentTokenNotification) DeliveryResult
}

// --- Service Ports (Business Logic) ---

// WalletService covers registration and direct ledger operations.
type WalletService interface {
	RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResult, error)
	RechargeWallet(ctx context.Context, req RechargeRequest) (*RechargeResult, error)
	GetWalletBalance(ctx context.Context, document, phone string) (*BalanceResult, error)
}

// PaymentService creates, validates, expires, and settles payment sessions.
type PaymentService interface {
	InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResult, error)
	ConfirmPayment(ctx context.Context, token string) (*ConfirmPaymentResult, error)
}

// RegisterClientRequest holds validated input for client registration.
type RegisterClientRequest struct {
	Document string
	FullName string
	Email    string
	Phone    string
}

// RegisterClientResult is the registration success payload.
type RegisterClientResult struct {
	ClientID uuid.UUID
	Document string
	FullName string
	Email    string
	Phone    string
	WalletID uuid.UUID
}

// RechargeMetadata is optional free-form context folded into the CREDIT
// transaction description.
type RechargeMetadata struct {
	Reference string
	Notes     string
}

// RechargeRequest holds validated input for a wallet recharge.
type RechargeRequest struct {
	Document string
	Phone    string
	Amount   int64
	Metadata *RechargeMetadata
}

// RechargeResult is the recharge success payload.
type RechargeResult struct {
	ClientID   uuid.UUID
	ClientName string
	Balance    int64
}

// BalanceResult is the balance query payload.
type BalanceResult struct {
	ClientID  uuid.UUID
	FullName  string
	Balance   int64
	UpdatedAt time.Time
}

// InitiatePaymentRequest holds validated input for starting a spend.
type InitiatePaymentRequest struct {
	Document    string
	Phone       string
	Amount      int64
	Description *string
}

// InitiatePaymentResult is the initiation payload. Token is returned so the
// caller can hand it to the notification collaborator.
type InitiatePaymentResult struct {
	SessionID uuid.UUID
	Token     string
	ExpiresAt time.Time
	Amount    int64
	Client    *domain.Client
}

// ConfirmPaymentResult is the settlement payload.
type ConfirmPaymentResult struct {
	SessionID   uuid.UUID
	ClientID    uuid.UUID
	Balance     int64 // wallet balance after the debit
	ConfirmedAt time.Time
}
