package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHTTPClient struct {
	fn func(req *http.Request) (*http.Response, error)
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.fn(req)
}

func httpResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func testNotification() ports.PaymentTokenNotification {
	return ports.PaymentTokenNotification{
		Recipient: "maria@example.com",
		Name:      "Maria Lopez",
		Token:     "042137",
		Amount:    4000,
		ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Send_Delivered(t *testing.T) {
	var captured *http.Request
	var body []byte
	client := &stubHTTPClient{fn: func(req *http.Request) (*http.Response, error) {
		captured = req
		body, _ = io.ReadAll(req.Body)
		return httpResponse(http.StatusOK), nil
	}}

	n := NewNotifier("https://notify.example.com/tokens", client, zerolog.Nop())
	result := n.Send(context.Background(), testNotification())

	assert.True(t, result.Delivered)
	assert.Empty(t, result.Reason)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "maria@example.com", payload["recipient"])
	assert.Equal(t, "042137", payload["token"])
	assert.Equal(t, float64(4000), payload["amount"])
	assert.Equal(t, "2026-03-01T12:00:00Z", payload["expires_at"])
}

func TestWebhookNotifier_Send_Non2xx(t *testing.T) {
	client := &stubHTTPClient{fn: func(_ *http.Request) (*http.Response, error) {
		return httpResponse(http.StatusBadGateway), nil
	}}

	n := NewNotifier("https://notify.example.com/tokens", client, zerolog.Nop())
	result := n.Send(context.Background(), testNotification())

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Reason, "502")
}

func TestWebhookNotifier_Send_TransportError(t *testing.T) {
	client := &stubHTTPClient{fn: func(_ *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}

	n := NewNotifier("https://notify.example.com/tokens", client, zerolog.Nop())
	result := n.Send(context.Background(), testNotification())

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Reason, "connection refused")
}

func TestNewNotifier_NoURLSkips(t *testing.T) {
	n := NewNotifier("", nil, zerolog.Nop())
	result := n.Send(context.Background(), testNotification())

	assert.False(t, result.Delivered)
	assert.Equal(t, "notifications disabled", result.Reason)
}
