package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/metrics"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// tokenNotificationBody is the JSON structure posted to the notification webhook.
type tokenNotificationBody struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	Amount    int64  `json:"amount"`
	ExpiresAt string `json:"expires_at"`
}

// webhookNotifier delivers payment tokens to an external webhook. Delivery is
// best-effort: a failed or refused delivery is reported to the caller and
// counted, but never fails the payment initiation that triggered it.
type webhookNotifier struct {
	url        string
	httpClient HTTPClient
	log        zerolog.Logger
}

// noopNotifier is used when no notification URL is configured.
type noopNotifier struct {
	log zerolog.Logger
}

// NewNotifier creates a webhook-backed Notifier, or a skipping one when url
// is empty.
func NewNotifier(url string, httpClient HTTPClient, log zerolog.Logger) ports.Notifier {
	if url == "" {
		return &noopNotifier{log: log}
	}
	return &webhookNotifier{url: url, httpClient: httpClient, log: log}
}

func (n *webhookNotifier) Send(ctx context.Context, msg ports.PaymentTokenNotification) ports.DeliveryResult {
	body, err := json.Marshal(tokenNotificationBody{
		Recipient: msg.Recipient,
		Name:      msg.Name,
		Token:     msg.Token,
		Amount:    msg.Amount,
		ExpiresAt: msg.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return n.failed(msg.Recipient, fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return n.failed(msg.Recipient, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return n.failed(msg.Recipient, fmt.Sprintf("deliver: %v", err))
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return n.failed(msg.Recipient, fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	metrics.NotificationDeliveries.WithLabelValues("delivered").Inc()
	n.log.Info().Str("recipient", msg.Recipient).Msg("token notification delivered")
	return ports.DeliveryResult{Delivered: true}
}

func (n *webhookNotifier) failed(recipient, reason string) ports.DeliveryResult {
	metrics.NotificationDeliveries.WithLabelValues("failed").Inc()
	n.log.Warn().Str("recipient", recipient).Str("reason", reason).Msg("token notification failed")
	return ports.DeliveryResult{Delivered: false, Reason: reason}
}

func (n *noopNotifier) Send(_ context.Context, msg ports.PaymentTokenNotification) ports.DeliveryResult {
	metrics.NotificationDeliveries.WithLabelValues("skipped").Inc()
	n.log.Debug().Str("recipient", msg.Recipient).Msg("no notification URL configured, skipping")
	return ports.DeliveryResult{Delivered: false, Reason: "notifications disabled"}
}
