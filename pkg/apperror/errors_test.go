package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	e := New("TOKEN_EXPIRED", "The confirmation token has expired", http.StatusGone)
	assert.Equal(t, "[TOKEN_EXPIRED] The confirmation token has expired", e.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, errors.New("pool closed"))
	assert.Contains(t, wrapped.Error(), "pool closed")
	assert.Contains(t, wrapped.Error(), "SYS_001")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	e := InternalError(fmt.Errorf("begin tx: %w", inner))

	assert.True(t, errors.Is(e, inner))

	var appErr *AppError
	require.True(t, errors.As(error(e), &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestDomainErrorCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrClientExists("document"), "CLIENT_EXISTS", http.StatusConflict},
		{ErrClientNotFound(), "CLIENT_NOT_FOUND", http.StatusNotFound},
		{ErrWalletNotFound(), "WALLET_NOT_FOUND", http.StatusInternalServerError},
		{ErrInsufficientFunds(), "INSUFFICIENT_FUNDS", http.StatusPaymentRequired},
		{ErrSessionNotFound(), "SESSION_NOT_FOUND", http.StatusNotFound},
		{ErrSessionNotPending(), "SESSION_NOT_PENDING", http.StatusConflict},
		{ErrTokenExpired(), "TOKEN_EXPIRED", http.StatusGone},
		{ErrPayloadTooLarge(), "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{ErrRateLimitExceeded(), "RATE_LIMITED", http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
	}
}

func TestErrClientExists_ReportsConflictingField(t *testing.T) {
	assert.Contains(t, ErrClientExists("email").Message, "email")
	assert.Contains(t, ErrClientExists("document").Message, "document")
}
