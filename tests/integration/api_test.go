package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpHandler "github.com/raechelCardenas/billetera-digital/internal/adapter/http/handler"
	"github.com/raechelCardenas/billetera-digital/internal/core/domain"
	"github.com/raechelCardenas/billetera-digital/internal/service"
	"github.com/raechelCardenas/billetera-digital/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires the real HTTP layer, middleware, handlers, and services over
// in-memory repositories, with a webhook sink standing in for the token
// notification channel.

type testApp struct {
	server  *httptest.Server
	webhook *httptest.Server
	txRepo  *inMemoryTransactionRepo

	mu     sync.Mutex
	tokens []string
}

func newTestApp(t *testing.T, tokenTTL time.Duration) *testApp {
	t.Helper()

	app := &testApp{}

	// Webhook sink capturing delivered tokens.
	app.webhook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		app.mu.Lock()
		app.tokens = append(app.tokens, payload.Token)
		app.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	clientRepo := newInMemoryClientRepo()
	walletRepo := newInMemoryWalletRepo()
	txRepo := newInMemoryTransactionRepo()
	sessionRepo := newInMemorySessionRepo()
	transactor := newInMemoryTransactor()
	app.txRepo = txRepo

	log := logger.New("error", false)
	tokenGen := service.NewNumericTokenGenerator()
	walletSvc := service.NewWalletService(clientRepo, walletRepo, txRepo, transactor, log)
	paymentSvc := service.NewPaymentService(clientRepo, walletRepo, txRepo, sessionRepo, tokenGen, transactor, 6, tokenTTL, log)
	notifier := service.NewNotifier(app.webhook.URL, &http.Client{Timeout: 2 * time.Second}, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:  walletSvc,
		PaymentSvc: paymentSvc,
		Notifier:   notifier,
		Logger:     log,
	})
	app.server = httptest.NewServer(router)

	return app
}

func (a *testApp) close() {
	a.server.Close()
	a.webhook.Close()
}

func (a *testApp) lastToken(t *testing.T) string {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.tokens, "no token was delivered to the webhook")
	return a.tokens[len(a.tokens)-1]
}

func (a *testApp) post(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func registerAndRecharge(t *testing.T, app *testApp, document, phone string, amount int64) {
	t.Helper()
	resp, _ := app.post(t, "/api/v1/clients", map[string]any{
		"document":  document,
		"full_name": "Maria Lopez",
		"email":     document + "@example.com",
		"phone":     phone,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = app.post(t, "/api/v1/wallets/recharge", map[string]any{
		"document": document,
		"phone":    phone,
		"amount":   amount,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// --- Integration Tests ---

func TestIntegration_FullPaymentLifecycle(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	// Register
	resp, envelope := app.post(t, "/api/v1/clients", map[string]any{
		"document":  "123456",
		"full_name": "Maria Lopez",
		"email":     "maria@example.com",
		"phone":     "3000000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "CLIENT_REGISTERED", envelope["code"])

	// Recharge 100
	resp, envelope = app.post(t, "/api/v1/wallets/recharge", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(100), envelope["data"].(map[string]any)["balance"])

	// Balance query
	resp, envelope = app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(100), envelope["data"].(map[string]any)["balance"])

	// Initiate payment of 40; the token reaches the webhook, not the response
	resp, envelope = app.post(t, "/api/v1/payments/initiate", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   40,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, true, data["delivery"].(map[string]any)["delivered"])

	token := app.lastToken(t)
	require.Len(t, token, 6)

	// Confirm: balance 100 -> 60
	resp, envelope = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PAYMENT_CONFIRMED", envelope["code"])
	assert.Equal(t, float64(60), envelope["data"].(map[string]any)["balance"])

	// Confirming again never re-debits
	resp, envelope = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_PENDING", envelope["error_code"])

	resp, envelope = app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(60), envelope["data"].(map[string]any)["balance"])
}

func TestIntegration_DuplicateRegistration(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	body := map[string]any{
		"document":  "123456",
		"full_name": "Maria Lopez",
		"email":     "maria@example.com",
		"phone":     "3000000000",
	}
	resp, _ := app.post(t, "/api/v1/clients", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := app.post(t, "/api/v1/clients", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CLIENT_EXISTS", envelope["error_code"])
}

func TestIntegration_InitiateWithInsufficientFunds(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 30)

	resp, envelope := app.post(t, "/api/v1/payments/initiate", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   40,
	})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_FUNDS", envelope["error_code"])
}

func TestIntegration_TokenExpiry(t *testing.T) {
	app := newTestApp(t, 50*time.Millisecond)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 100)

	resp, _ := app.post(t, "/api/v1/payments/initiate", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   40,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := app.lastToken(t)

	time.Sleep(100 * time.Millisecond)

	resp, envelope := app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", envelope["error_code"])

	// The lazy EXPIRED transition is the only side effect: balance unchanged.
	resp, envelope = app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(100), envelope["data"].(map[string]any)["balance"])

	// Once EXPIRED the session never transitions again.
	resp, envelope = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_PENDING", envelope["error_code"])
}

func TestIntegration_UnknownToken(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	resp, envelope := app.post(t, "/api/v1/payments/confirm", map[string]any{"token": "000000"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", envelope["error_code"])
}

func TestIntegration_RechargeWithMetadata(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 100)

	resp, envelope := app.post(t, "/api/v1/wallets/recharge", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   50,
		"metadata": map[string]any{"reference": "PAY-42", "notes": "gift"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(150), envelope["data"].(map[string]any)["balance"])
}

// TestIntegration_LedgerReconciliation runs a mixed workload and checks that
// the wallet balance equals the sum of CREDIT entries minus the sum of DEBIT
// entries over the client's transaction history. Rejected confirms and
// expired sessions must leave no ledger trace.
func TestIntegration_LedgerReconciliation(t *testing.T) {
	app := newTestApp(t, 500*time.Millisecond)
	defer app.close()

	resp, envelope := app.post(t, "/api/v1/clients", map[string]any{
		"document":  "123456",
		"full_name": "Maria Lopez",
		"email":     "maria@example.com",
		"phone":     "3000000000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	clientID, err := uuid.Parse(envelope["data"].(map[string]any)["client_id"].(string))
	require.NoError(t, err)

	recharge := func(amount int64) {
		resp, _ := app.post(t, "/api/v1/wallets/recharge", map[string]any{
			"document": "123456",
			"phone":    "3000000000",
			"amount":   amount,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	initiate := func(amount int64) string {
		resp, _ := app.post(t, "/api/v1/payments/initiate", map[string]any{
			"document": "123456",
			"phone":    "3000000000",
			"amount":   amount,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return app.lastToken(t)
	}

	recharge(100)
	recharge(50)

	// Settled session: the only DEBIT in the workload.
	token := initiate(40)
	resp, _ = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Rejected re-confirm: no ledger entry.
	resp, _ = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Expired session: no ledger entry either.
	expiredToken := initiate(30)
	time.Sleep(600 * time.Millisecond)
	resp, _ = app.post(t, "/api/v1/payments/confirm", map[string]any{"token": expiredToken})
	require.Equal(t, http.StatusGone, resp.StatusCode)

	entries, err := app.txRepo.ListByClientID(context.Background(), clientID)
	require.NoError(t, err)

	var credits, debits int64
	var creditCount, debitCount int
	for _, entry := range entries {
		switch entry.Type {
		case domain.TransactionTypeCredit:
			credits += entry.Amount
			creditCount++
		case domain.TransactionTypeDebit:
			debits += entry.Amount
			debitCount++
		default:
			t.Fatalf("unexpected transaction type %q", entry.Type)
		}
	}
	assert.Equal(t, 2, creditCount)
	assert.Equal(t, 1, debitCount)

	resp, envelope = app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := int64(envelope["data"].(map[string]any)["balance"].(float64))

	assert.Equal(t, credits-debits, balance, "balance must equal credits minus debits")
	assert.Equal(t, int64(110), balance)
}

func TestIntegration_BalancesAfterManyRecharges(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 10)
	for i := 0; i < 5; i++ {
		resp, _ := app.post(t, "/api/v1/wallets/recharge", map[string]any{
			"document": "123456",
			"phone":    "3000000000",
			"amount":   10,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("recharge %d", i))
	}

	resp, envelope := app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(60), envelope["data"].(map[string]any)["balance"])
}
