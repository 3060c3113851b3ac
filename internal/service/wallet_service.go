package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/apperror"
	"github.com/raechelCardenas/billetera-digital/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	clientRepo ports.ClientRepository
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	clientRepo ports.ClientRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		clientRepo: clientRepo,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// RegisterClient creates a client and its zero-balance wallet in one
// database transaction. Either both rows exist afterwards or neither does.
func (s *WalletServiceImpl) RegisterClient(ctx context.Context, req ports.RegisterClientRequest) (*ports.RegisterClientResult, error) {
	existing, err := s.clientRepo.GetByDocumentOrEmail(ctx, req.Document, req.Email)
	if err != nil {
		return nil, opErr("register_client", apperror.InternalError(fmt.Errorf("check existing client: %w", err)))
	}
	if existing != nil {
		field := "email"
		if existing.Document == req.Document {
			field = "document"
		}
		return nil, opErr("register_client", apperror.ErrClientExists(field))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, opErr("register_client", apperror.InternalError(fmt.Errorf("begin tx: %w", err)))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.New(),
		Document:  req.Document,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique constraints are the authoritative duplicate guard; the
	// pre-check above only produces a friendlier pre-transaction answer.
	if err := s.clientRepo.Create(ctx, dbTx, client); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, opErr("register_client", appErr)
		}
		return nil, opErr("register_client", apperror.InternalError(fmt.Errorf("create client: %w", err)))
	}

	wallet := &domain.Wallet{
		ID:        uuid.New(),
		ClientID:  client.ID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		return nil, opErr("register_client", apperror.InternalError(fmt.Errorf("create wallet: %w", err)))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, opErr("register_client", apperror.InternalError(fmt.Errorf("commit tx: %w", err)))
	}

	metrics.ClientsRegistered.Inc()
	s.log.Info().
		Str("client_id", client.ID.String()).
		Str("document", client.Document).
		Msg("client registered")

	return &ports.RegisterClientResult{
		ClientID: client.ID,
		Document: client.Document,
		FullName: client.FullName,
		Email:    client.Email,
		Phone:    client.Phone,
		WalletID: wallet.ID,
	}, nil
}

// RechargeWallet credits a wallet and appends the matching CREDIT ledger
// entry under a row lock.
func (s *WalletServiceImpl) RechargeWallet(ctx context.Context, req ports.RechargeRequest) (*ports.RechargeResult, error) {
	if req.Amount <= 0 {
		return nil, opErr("recharge", apperror.Validation("Amount must be greater than zero"))
	}

	client, err := s.clientRepo.GetByIdentity(ctx, req.Document, req.Phone)
	if err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("find client: %w", err)))
	}
	if client == nil {
		return nil, opErr("recharge", apperror.ErrClientNotFound())
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("begin tx: %w", err)))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByClientIDForUpdate(ctx, dbTx, client.ID)
	if err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("lock wallet: %w", err)))
	}
	if wallet == nil {
		return nil, opErr("recharge", apperror.ErrWalletNotFound())
	}

	newBalance := wallet.Balance + req.Amount
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("update balance: %w", err)))
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:          uuid.New(),
		ClientID:    client.ID,
		Type:        domain.TransactionTypeCredit,
		Amount:      req.Amount,
		Description: buildTransactionDescription("Wallet recharge", req.Metadata),
		CreatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("create transaction: %w", err)))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, opErr("recharge", apperror.InternalError(fmt.Errorf("commit tx: %w", err)))
	}

	metrics.Recharges.Inc()
	s.log.Info().
		Str("client_id", client.ID.String()).
		Int64("amount", req.Amount).
		Int64("balance", newBalance).
		Msg("wallet recharged")

	return &ports.RechargeResult{
		ClientID:   client.ID,
		ClientName: client.FullName,
		Balance:    newBalance,
	}, nil
}

// GetWalletBalance resolves a client by document and phone and reads its
// wallet balance.
func (s *WalletServiceImpl) GetWalletBalance(ctx context.Context, document, phone string) (*ports.BalanceResult, error) {
	client, err := s.clientRepo.GetByIdentity(ctx, document, phone)
	if err != nil {
		return nil, opErr("balance", apperror.InternalError(fmt.Errorf("find client: %w", err)))
	}
	if client == nil {
		return nil, opErr("balance", apperror.ErrClientNotFound())
	}

	wallet, err := s.walletRepo.GetByClientID(ctx, client.ID)
	if err != nil {
		return nil, opErr("balance", apperror.InternalError(fmt.Errorf("get wallet: %w", err)))
	}
	if wallet == nil {
		return nil, opErr("balance", apperror.ErrWalletNotFound())
	}

	return &ports.BalanceResult{
		ClientID:  client.ID,
		FullName:  client.FullName,
		Balance:   wallet.Balance,
		UpdatedAt: wallet.UpdatedAt,
	}, nil
}

// buildTransactionDescription folds optional recharge metadata into the
// ledger entry description: "<fallback> | Ref: <reference> - <notes>".
func buildTransactionDescription(fallback string, md *ports.RechargeMetadata) string {
	if md == nil {
		return fallback
	}
	var parts []string
	if md.Reference != "" {
		parts = append(parts, "Ref: "+md.Reference)
	}
	if md.Notes != "" {
		parts = append(parts, md.Notes)
	}
	if len(parts) == 0 {
		return fallback
	}
	return fallback + " | " + strings.Join(parts, " - ")
}

// opErr counts a domain error against its operation before returning it.
func opErr(operation string, err *apperror.AppError) *apperror.AppError {
	metrics.OperationErrors.WithLabelValues(operation, err.Code).Inc()
	return err
}
