package dto

// RegisterClientRequest is the request body for client registration.
type RegisterClientRequest struct {
	Document string `json:"document" binding:"required,digits,min=5,max=20"`
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Phone    string `json:"phone" binding:"required,digits,min=7,max=15"`
}

// RechargeMetadataRequest carries optional free-form context for a recharge.
type RechargeMetadataRequest struct {
	Reference string `json:"reference" binding:"omitempty,max=100"`
	Notes     string `json:"notes" binding:"omitempty,max=255"`
}

// RechargeRequest is the request body for a wallet recharge.
type RechargeRequest struct {
	Document string                   `json:"document" binding:"required,digits,min=5,max=20"`
	Phone    string                   `json:"phone" binding:"required,digits,min=7,max=15"`
	Amount   int64                    `json:"amount" binding:"required,gt=0"`
	Metadata *RechargeMetadataRequest `json:"metadata,omitempty"`
}

// BalanceQuery is the query string for the balance endpoint.
type BalanceQuery struct {
	Document string `form:"document" binding:"required,digits,min=5,max=20"`
	Phone    string `form:"phone" binding:"required,digits,min=7,max=15"`
}

// InitiatePaymentRequest is the request body for starting a payment session.
type InitiatePaymentRequest struct {
	Document    string  `json:"document" binding:"required,digits,min=5,max=20"`
	Phone       string  `json:"phone" binding:"required,digits,min=7,max=15"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
}

// ConfirmPaymentRequest is the request body for settling a payment session.
type ConfirmPaymentRequest struct {
	Token string `json:"token" binding:"required,len=6,digits"`
}

// ClientResponse is the public projection of a client.
type ClientResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// RegisterClientResponse is the response body for successful registration.
type RegisterClientResponse struct {
	ClientID string `json:"client_id"`
	Document string `json:"document"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WalletID string `json:"wallet_id"`
}

// RechargeResponse is the response body for a successful recharge.
type RechargeResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Balance    int64  `json:"balance"`
}

// BalanceResponse is the response body for the balance query.
type BalanceResponse struct {
	ClientID  string `json:"client_id"`
	FullName  string `json:"full_name"`
	Balance   int64  `json:"balance"`
	UpdatedAt string `json:"updated_at"`
}

// DeliveryResponse reports the token notification outcome. The token itself
// travels only through the notification channel, never in this response.
type DeliveryResponse struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// InitiatePaymentResponse is the response body for a created payment session.
type InitiatePaymentResponse struct {
	SessionID string           `json:"session_id"`
	ExpiresAt string           `json:"expires_at"`
	Amount    int64            `json:"amount"`
	Client    ClientResponse   `json:"client"`
	Delivery  DeliveryResponse `json:"delivery"`
}

// ConfirmPaymentResponse is the response body for a settled payment session.
type ConfirmPaymentResponse struct {
	SessionID   string `json:"session_id"`
	ClientID    string `json:"client_id"`
	Balance     int64  `json:"balance"`
	ConfirmedAt string `json:"confirmed_at"`
}
