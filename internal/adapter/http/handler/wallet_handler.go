package handler

import (
	"github.com/raechelCardenas/billetera-digital/internal/adapter/http/dto"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/apperror"
	"github.com/raechelCardenas/billetera-digital/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles recharge and balance endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Recharge handles POST /api/v1/wallets/recharge.
func (h *WalletHandler) Recharge(c *gin.Context) {
	var req dto.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	var metadata *ports.RechargeMetadata
	if req.Metadata != nil {
		metadata = &ports.RechargeMetadata{
			Reference: req.Metadata.Reference,
			Notes:     req.Metadata.Notes,
		}
	}

	result, err := h.walletSvc.RechargeWallet(c.Request.Context(), ports.RechargeRequest{
		Document: req.Document,
		Phone:    req.Phone,
		Amount:   req.Amount,
		Metadata: metadata,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "WALLET_RECHARGED", "Wallet recharged successfully", dto.RechargeResponse{
		ClientID:   result.ClientID.String(),
		ClientName: result.ClientName,
		Balance:    result.Balance,
	})
}

// Balance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	var query dto.BalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.walletSvc.GetWalletBalance(c.Request.Context(), query.Document, query.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "BALANCE_RETRIEVED", "Balance retrieved successfully", dto.BalanceResponse{
		ClientID:  result.ClientID.String(),
		FullName:  result.FullName,
		Balance:   result.Balance,
		UpdatedAt: result.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
