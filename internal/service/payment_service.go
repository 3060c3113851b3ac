package service

import (
	"context"
	"fmt"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/apperror"
	"github.com/raechelCardenas/billetera-digital/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tokenGenAttempts bounds the retry loop when a freshly drawn token collides
// with a live PENDING session. Lookups resolve ambiguity newest-first, so
// running out of attempts degrades behavior instead of failing the request.
const tokenGenAttempts = 3

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	clientRepo  ports.ClientRepository
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	sessionRepo ports.PaymentSessionRepository
	tokenGen    ports.TokenGenerator
	transactor  ports.DBTransactor
	tokenLength int
	tokenTTL    time.Duration
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	clientRepo ports.ClientRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	sessionRepo ports.PaymentSessionRepository,
	tokenGen ports.TokenGenerator,
	transactor ports.DBTransactor,
	tokenLength int,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		clientRepo:  clientRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		sessionRepo: sessionRepo,
		tokenGen:    tokenGen,
		transactor:  transactor,
		tokenLength: tokenLength,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// InitiatePayment opens a PENDING payment session gated by a numeric token.
// The funds check here is advisory: nothing is reserved, and the balance is
// re-checked under lock at confirmation.
func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req ports.InitiatePaymentRequest) (*ports.InitiatePaymentResult, error) {
	if req.Amount <= 0 {
		return nil, opErr("initiate_payment", apperror.Validation("Amount must be greater than zero"))
	}

	client, err := s.clientRepo.GetByIdentity(ctx, req.Document, req.Phone)
	if err != nil {
		return nil, opErr("initiate_payment", apperror.InternalError(fmt.Errorf("find client: %w", err)))
	}
	if client == nil {
		return nil, opErr("initiate_payment", apperror.ErrClientNotFound())
	}

	wallet, err := s.walletRepo.GetByClientID(ctx, client.ID)
	if err != nil {
		return nil, opErr("initiate_payment", apperror.InternalError(fmt.Errorf("get wallet: %w", err)))
	}
	if wallet == nil {
		return nil, opErr("initiate_payment", apperror.ErrWalletNotFound())
	}
	if !wallet.CanDebit(req.Amount) {
		return nil, opErr("initiate_payment", apperror.ErrInsufficientFunds())
	}

	now := time.Now().UTC()
	token, err := s.drawToken(ctx, now)
	if err != nil {
		return nil, opErr("initiate_payment", apperror.InternalError(err))
	}

	session := &domain.PaymentSession{
		ID:          uuid.New(),
		ClientID:    client.ID,
		Token:       token,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      domain.SessionStatusPending,
		ExpiresAt:   now.Add(s.tokenTTL),
		CreatedAt:   now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, opErr("initiate_payment", apperror.InternalError(fmt.Errorf("create session: %w", err)))
	}

	metrics.SessionsInitiated.Inc()
	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("client_id", client.ID.String()).
		Int64("amount", req.Amount).
		Time("expires_at", session.ExpiresAt).
		Msg("payment session initiated")

	return &ports.InitiatePaymentResult{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Amount:    session.Amount,
		Client:    client,
	}, nil
}

// drawToken generates a token that no live PENDING session currently uses,
// retrying on collision.
func (s *PaymentServiceImpl) drawToken(ctx context.Context, now time.Time) (string, error) {
	var token string
	for attempt := 0; attempt < tokenGenAttempts; attempt++ {
		var err error
		token, err = s.tokenGen.Generate(s.tokenLength)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		live, err := s.sessionRepo.HasLiveToken(ctx, token, now)
		if err != nil {
			return "", fmt.Errorf("check live token: %w", err)
		}
		if !live {
			return token, nil
		}
		s.log.Warn().Int("attempt", attempt+1).Msg("token collided with a live session, retrying")
	}
	return token, nil
}

// ConfirmPayment settles the newest session carrying the token. The session
// row is locked first, then the wallet row, and the debit plus its DEBIT
// ledger entry and the CONFIRMED transition commit together or not at all.
func (s *PaymentServiceImpl) ConfirmPayment(ctx context.Context, token string) (*ports.ConfirmPaymentResult, error) {
	start := time.Now()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("begin tx: %w", err)))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	session, err := s.sessionRepo.GetLatestByTokenForUpdate(ctx, dbTx, token)
	if err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("lock session: %w", err)))
	}
	if session == nil {
		return nil, opErr("confirm_payment", apperror.ErrSessionNotFound())
	}
	if !session.IsPending() {
		return nil, opErr("confirm_payment", apperror.ErrSessionNotPending())
	}

	now := time.Now().UTC()
	if session.IsExpiredAt(now) {
		// Release the row lock before persisting the transition; MarkExpired
		// runs on the pool and only touches rows still PENDING.
		dbTx.Rollback(ctx) //nolint:errcheck
		if err := s.sessionRepo.MarkExpired(ctx, session.ID); err != nil {
			return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("mark session expired: %w", err)))
		}
		metrics.SessionsExpired.Inc()
		s.log.Info().Str("session_id", session.ID.String()).Msg("payment session expired on confirmation attempt")
		return nil, opErr("confirm_payment", apperror.ErrTokenExpired())
	}

	wallet, err := s.walletRepo.GetByClientIDForUpdate(ctx, dbTx, session.ClientID)
	if err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("lock wallet: %w", err)))
	}
	if wallet == nil {
		return nil, opErr("confirm_payment", apperror.ErrWalletNotFound())
	}

	// Re-check under lock: the advisory check at initiation reserved nothing.
	if !wallet.CanDebit(session.Amount) {
		return nil, opErr("confirm_payment", apperror.ErrInsufficientFunds())
	}

	newBalance := wallet.Balance - session.Amount
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("update balance: %w", err)))
	}

	description := fmt.Sprintf("Wallet payment confirmed for session %s.", session.ID)
	if session.Description != nil {
		description = *session.Description
	}
	txn := &domain.Transaction{
		ID:          uuid.New(),
		ClientID:    session.ClientID,
		SessionID:   &session.ID,
		Type:        domain.TransactionTypeDebit,
		Amount:      session.Amount,
		Description: description,
		CreatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("create transaction: %w", err)))
	}

	if err := s.sessionRepo.Confirm(ctx, dbTx, session.ID, now); err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("confirm session: %w", err)))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, opErr("confirm_payment", apperror.InternalError(fmt.Errorf("commit tx: %w", err)))
	}

	metrics.SessionsConfirmed.Inc()
	metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("client_id", session.ClientID.String()).
		Int64("amount", session.Amount).
		Int64("balance", newBalance).
		Msg("payment confirmed")

	return &ports.ConfirmPaymentResult{
		SessionID:   session.ID,
		ClientID:    session.ClientID,
		Balance:     newBalance,
		ConfirmedAt: now,
	}, nil
}
