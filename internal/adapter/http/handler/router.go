package handler

import (
	"github.com/raechelCardenas/billetera-digital/internal/adapter/http/middleware"
	redisStore "github.com/raechelCardenas/billetera-digital/internal/adapter/storage/redis"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	PaymentSvc     ports.PaymentService
	Notifier       ports.Notifier
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	clientHandler := NewClientHandler(deps.WalletSvc)
	v1.POST("/clients", rl("clients_register"), clientHandler.Register)

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("/recharge", rl("wallets_recharge"), walletHandler.Recharge)
		wallets.GET("/balance", rl("wallets_balance"), walletHandler.Balance)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc, deps.Notifier)
	payments := v1.Group("/payments")
	{
		payments.POST("/initiate", rl("payments_initiate"), paymentHandler.Initiate)
		payments.POST("/confirm", rl("payments_confirm"), paymentHandler.Confirm)
	}

	return r
}
