package service

import (
	"context"
	"testing"

	"github.com/raechelCardenas/billetera-digital/internal/core/domain"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports/mocks"
	"github.com/raechelCardenas/billetera-digital/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	clientRepo *mocks.MockClientRepository
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		clientRepo: mocks.NewMockClientRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.clientRepo, d.walletRepo, d.txRepo, d.transactor, zerolog.Nop())
	return d
}

// ==================== RegisterClient Tests ====================

func TestWalletService_RegisterClient_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	req := ports.RegisterClientRequest{
		Document: "123456789",
		FullName: "Maria Lopez",
		Email:    "maria@example.com",
		Phone:    "3001234567",
	}

	d.clientRepo.EXPECT().GetByDocumentOrEmail(ctx, "123456789", "maria@example.com").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.clientRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	var wallet *domain.Wallet
	d.walletRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
			wallet = w
			return nil
		})

	result, err := d.svc.RegisterClient(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "123456789", result.Document)
	assert.Equal(t, "Maria Lopez", result.FullName)

	require.NotNil(t, wallet)
	assert.Equal(t, int64(0), wallet.Balance)
	assert.Equal(t, result.ClientID, wallet.ClientID)
	assert.Equal(t, result.WalletID, wallet.ID)
}

func TestWalletService_RegisterClient_DuplicateDocument(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := testClient(uuid.New())

	d.clientRepo.EXPECT().GetByDocumentOrEmail(ctx, "123456789", "other@example.com").Return(existing, nil)

	result, err := d.svc.RegisterClient(ctx, ports.RegisterClientRequest{
		Document: "123456789",
		FullName: "Someone Else",
		Email:    "other@example.com",
		Phone:    "3009999999",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "CLIENT_EXISTS")
	assert.Contains(t, err.Error(), "document")
}

func TestWalletService_RegisterClient_DuplicateEmail(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := testClient(uuid.New())

	d.clientRepo.EXPECT().GetByDocumentOrEmail(ctx, "555555555", "maria@example.com").Return(existing, nil)

	result, err := d.svc.RegisterClient(ctx, ports.RegisterClientRequest{
		Document: "555555555",
		FullName: "Someone Else",
		Email:    "maria@example.com",
		Phone:    "3009999999",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "CLIENT_EXISTS")
	assert.Contains(t, err.Error(), "email")
}

func TestWalletService_RegisterClient_ConstraintRace(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.clientRepo.EXPECT().GetByDocumentOrEmail(ctx, "123456789", "maria@example.com").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.clientRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(apperror.ErrClientExists("document"))

	result, err := d.svc.RegisterClient(ctx, ports.RegisterClientRequest{
		Document: "123456789",
		FullName: "Maria Lopez",
		Email:    "maria@example.com",
		Phone:    "3001234567",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "CLIENT_EXISTS")
}

// ==================== RechargeWallet Tests ====================

func TestWalletService_RechargeWallet_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	clientID := uuid.New()
	walletID := uuid.New()
	tx := &mockTx{}

	d.clientRepo.EXPECT().GetByIdentity(ctx, "123456789", "3001234567").Return(testClient(clientID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByClientIDForUpdate(ctx, tx, clientID).Return(&domain.Wallet{
		ID:       walletID,
		ClientID: clientID,
		Balance:  2500,
	}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, int64(12500)).Return(nil)

	var txn *domain.Transaction
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
			txn = t
			return nil
		})

	result, err := d.svc.RechargeWallet(ctx, ports.RechargeRequest{
		Document: "123456789",
		Phone:    "3001234567",
		Amount:   10000,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, clientID, result.ClientID)
	assert.Equal(t, "Maria Lopez", result.ClientName)
	assert.Equal(t, int64(12500), result.Balance)

	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionTypeCredit, txn.Type)
	assert.Equal(t, int64(10000), txn.Amount)
	assert.Nil(t, txn.SessionID)
	assert.Equal(t, "Wallet recharge", txn.Description)
}

func TestWalletService_RechargeWallet_InvalidAmount(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.RechargeWallet(context.Background(), ports.RechargeRequest{
		Document: "123456789",
		Phone:    "3001234567",
		Amount:   -5,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "INVALID_PAYLOAD")
}

func TestWalletService_RechargeWallet_ClientNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.clientRepo.EXPECT().GetByIdentity(ctx, "999999999", "3000000000").Return(nil, nil)

	result, err := d.svc.RechargeWallet(ctx, ports.RechargeRequest{
		Document: "999999999",
		Phone:    "3000000000",
		Amount:   100,
	})
	assert.Nil(t, result)
	assertAppError(t, err, "CLIENT_NOT_FOUND")
}

// ==================== GetWalletBalance Tests ====================

func TestWalletService_GetWalletBalance_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	clientID := uuid.New()

	d.clientRepo.EXPECT().GetByIdentity(ctx, "123456789", "3001234567").Return(testClient(clientID), nil)
	d.walletRepo.EXPECT().GetByClientID(ctx, clientID).Return(&domain.Wallet{
		ID:       uuid.New(),
		ClientID: clientID,
		Balance:  7300,
	}, nil)

	result, err := d.svc.GetWalletBalance(ctx, "123456789", "3001234567")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, clientID, result.ClientID)
	assert.Equal(t, "Maria Lopez", result.FullName)
	assert.Equal(t, int64(7300), result.Balance)
}

func TestWalletService_GetWalletBalance_ClientNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.clientRepo.EXPECT().GetByIdentity(ctx, "999999999", "3000000000").Return(nil, nil)

	result, err := d.svc.GetWalletBalance(ctx, "999999999", "3000000000")
	assert.Nil(t, result)
	assertAppError(t, err, "CLIENT_NOT_FOUND")
}

func TestWalletService_GetWalletBalance_WalletMissing(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	clientID := uuid.New()

	d.clientRepo.EXPECT().GetByIdentity(ctx, "123456789", "3001234567").Return(testClient(clientID), nil)
	d.walletRepo.EXPECT().GetByClientID(ctx, clientID).Return(nil, nil)

	result, err := d.svc.GetWalletBalance(ctx, "123456789", "3001234567")
	assert.Nil(t, result)
	assertAppError(t, err, "WALLET_NOT_FOUND")
}

// ==================== Description folding ====================

func TestBuildTransactionDescription(t *testing.T) {
	tests := []struct {
		name     string
		metadata *ports.RechargeMetadata
		want     string
	}{
		{"no metadata", nil, "Wallet recharge"},
		{"empty metadata", &ports.RechargeMetadata{}, "Wallet recharge"},
		{"reference only", &ports.RechargeMetadata{Reference: "PAY-42"}, "Wallet recharge | Ref: PAY-42"},
		{"notes only", &ports.RechargeMetadata{Notes: "birthday gift"}, "Wallet recharge | birthday gift"},
		{"both", &ports.RechargeMetadata{Reference: "PAY-42", Notes: "birthday gift"}, "Wallet recharge | Ref: PAY-42 - birthday gift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildTransactionDescription("Wallet recharge", tt.metadata))
		})
	}
}
