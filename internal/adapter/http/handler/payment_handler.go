package handler

import (
	"github.com/raechelCardenas/billetera-digital/internal/adapter/http/dto"
	"github.com/raechelCardenas/billetera-digital/internal/core/ports"
	"github.com/raechelCardenas/billetera-digital/pkg/response"

	"github.com/gin-gonic/gin"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// PaymentHandler handles the two-phase payment endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
	notifier   ports.Notifier
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService, notifier ports.Notifier) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, notifier: notifier}
}

// Initiate handles POST /api/v1/payments/initiate. The confirmation token
// travels only through the notification channel; the response carries
// session metadata and the delivery outcome.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.paymentSvc.InitiatePayment(c.Request.Context(), ports.InitiatePaymentRequest{
		Document:    req.Document,
		Phone:       req.Phone,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	delivery := h.notifier.Send(c.Request.Context(), ports.PaymentTokenNotification{
		Recipient: result.Client.Email,
		Name:      result.Client.FullName,
		Token:     result.Token,
		Amount:    result.Amount,
		ExpiresAt: result.ExpiresAt,
	})

	message := "Confirmation token sent to the registered contact"
	if !delivery.Delivered {
		message = "Payment session created, token notification was not delivered"
	}

	response.Created(c, "PAYMENT_SESSION_CREATED", message, dto.InitiatePaymentResponse{
		SessionID: result.SessionID.String(),
		ExpiresAt: result.ExpiresAt.UTC().Format(timeFormat),
		Amount:    result.Amount,
		Client: dto.ClientResponse{
			ID:       result.Client.ID.String(),
			Document: result.Client.Document,
			FullName: result.Client.FullName,
			Email:    result.Client.Email,
			Phone:    result.Client.Phone,
		},
		Delivery: dto.DeliveryResponse{
			Delivered: delivery.Delivered,
			Reason:    delivery.Reason,
		},
	})
}

// Confirm handles POST /api/v1/payments/confirm.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.paymentSvc.ConfirmPayment(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "PAYMENT_CONFIRMED", "Payment confirmed successfully", dto.ConfirmPaymentResponse{
		SessionID:   result.SessionID.String(),
		ClientID:    result.ClientID.String(),
		Balance:     result.Balance,
		ConfirmedAt: result.ConfirmedAt.UTC().Format(timeFormat),
	})
}
