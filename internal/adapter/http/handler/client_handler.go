package handler

import (
	"github.com/raechelCardenas/billetera-digital/internal/adapter/http/dto"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClientHandler handles client registration.
type ClientHandler struct {
	walletSvc ports.WalletService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(walletSvc ports.WalletService) *ClientHandler {
	return &ClientHandler{walletSvc: walletSvc}
}

// Register handles POST /api/v1/clients.
func (h *ClientHandler) Register(c *gin.Context) {
	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.walletSvc.RegisterClient(c.Request.Context(), ports.RegisterClientRequest{
		Document: req.Document,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "CLIENT_REGISTERED", "Client registered successfully", dto.RegisterClientResponse{
		ClientID: result.ClientID.String(),
		Document: result.Document,
		FullName: result.FullName,
		Email:    result.Email,
		Phone:    result.Phone,
		WalletID: result.WalletID.String(),
	})
}
