package integration

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentConfirms exercises the pessimistic lock on the wallet row.
// Two pending sessions jointly overdraw the balance; confirmed concurrently,
// exactly one may settle and the balance must never go negative.
func TestConcurrentConfirms(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 50)

	initiate := func() {
		resp, _ := app.post(t, "/api/v1/payments/initiate", map[string]any{
			"document": "123456",
			"phone":    "3000000000",
			"amount":   40,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	initiate()
	initiate()

	app.mu.Lock()
	require.Len(t, app.tokens, 2)
	tokens := []string{app.tokens[0], app.tokens[1]}
	app.mu.Unlock()
	require.NotEqual(t, tokens[0], tokens[1])

	var confirmed, rejected atomic.Int32
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			resp, envelope := app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
			switch resp.StatusCode {
			case http.StatusOK:
				confirmed.Add(1)
			case http.StatusPaymentRequired:
				rejected.Add(1)
				assert.Equal(t, "INSUFFICIENT_FUNDS", envelope["error_code"])
			default:
				t.Errorf("unexpected status %d: %v", resp.StatusCode, envelope)
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, int32(1), confirmed.Load(), "exactly one session may settle")
	assert.Equal(t, int32(1), rejected.Load())

	resp, envelope := app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10), envelope["data"].(map[string]any)["balance"])
}

// TestConcurrentRecharges verifies no credit is lost when recharges race.
func TestConcurrentRecharges(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 10)

	const workers = 20
	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := app.post(t, "/api/v1/wallets/recharge", map[string]any{
				"document": "123456",
				"phone":    "3000000000",
				"amount":   5,
			})
			if resp.StatusCode != http.StatusOK {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Zero(t, failures.Load())

	resp, envelope := app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10+workers*5), envelope["data"].(map[string]any)["balance"])
}

// TestConcurrentDoubleConfirm hammers a single token with parallel confirms.
func TestConcurrentDoubleConfirm(t *testing.T) {
	app := newTestApp(t, 10*time.Minute)
	defer app.close()

	registerAndRecharge(t, app, "123456", "3000000000", 100)

	resp, _ := app.post(t, "/api/v1/payments/initiate", map[string]any{
		"document": "123456",
		"phone":    "3000000000",
		"amount":   40,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := app.lastToken(t)

	const attempts = 10
	var confirmed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, _ := app.post(t, "/api/v1/payments/confirm", map[string]any{"token": token})
			if resp.StatusCode == http.StatusOK {
				confirmed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), confirmed.Load(), "a session settles at most once")

	respB, envelope := app.get(t, "/api/v1/wallets/balance?document=123456&phone=3000000000")
	require.Equal(t, http.StatusOK, respB.StatusCode)
	assert.Equal(t, float64(60), envelope["data"].(map[string]any)["balance"])
}
