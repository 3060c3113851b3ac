package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Client & Wallet ----

// ErrClientExists reports a duplicate registration. field names the
// conflicting attribute (document or email).
func ErrClientExists(field string) *AppError {
	return New("CLIENT_EXISTS", fmt.Sprintf("A client with that %s already exists", field), http.StatusConflict)
}

func ErrClientNotFound() *AppError {
	return New("CLIENT_NOT_FOUND", "No client matches the provided document and phone", http.StatusNotFound)
}

// ErrWalletNotFound signals a client row without its wallet. Registration
// creates both atomically, so this is an internal consistency failure.
func ErrWalletNotFound() *AppError {
	return New("WALLET_NOT_FOUND", "No wallet is associated with this client", http.StatusInternalServerError)
}

func ErrInsufficientFunds() *AppError {
	return New("INSUFFICIENT_FUNDS", "Wallet does not have enough balance", http.StatusPaymentRequired)
}

// ---- Payment sessions ----

func ErrSessionNotFound() *AppError {
	return New("SESSION_NOT_FOUND", "No payment session matches that token", http.StatusNotFound)
}

func ErrSessionNotPending() *AppError {
	return New("SESSION_NOT_PENDING", "Payment session is not pending", http.StatusConflict)
}

func ErrTokenExpired() *AppError {
	return New("TOKEN_EXPIRED", "The confirmation token has expired", http.StatusGone)
}

// ---- Validation & rate limiting ----

// Validation returns a request-shape error raised at the transport boundary.
func Validation(message string) *AppError {
	return New("INVALID_PAYLOAD", message, http.StatusBadRequest)
}

// ErrPayloadTooLarge reports a request body over the transport limit.
func ErrPayloadTooLarge() *AppError {
	return New("PAYLOAD_TOO_LARGE", "Request body exceeds the allowed size", http.StatusRequestEntityTooLarge)
}

func ErrRateLimitExceeded() *AppError {
	return New("RATE_LIMITED", "Too many attempts, slow down", http.StatusTooManyRequests)
}

// ---- System & Infrastructure ----

// InternalError wraps an unclassified internal failure. The wrapped error is
// logged server-side and never serialized to the caller.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
