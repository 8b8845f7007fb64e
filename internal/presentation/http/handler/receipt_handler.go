package handler

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-relay/internal/application/service"
	"github.com/sangkips/receipt-relay/internal/domain/entity"
	"github.com/sangkips/receipt-relay/internal/presentation/http/dto/request"
	"github.com/sangkips/receipt-relay/internal/presentation/http/dto/response"
	"github.com/sangkips/receipt-relay/pkg/apperror"
)

// ReceiptSender runs one receipt delivery.
type ReceiptSender interface {
	Send(ctx context.Context, order entity.Order) (*service.Delivery, error)
}

// ReceiptHandler handles receipt delivery HTTP requests.
type ReceiptHandler struct {
	receiptService ReceiptSender
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(receiptService ReceiptSender) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GenerateAndSend composes, renders, publishes and sends a receipt.
func (h *ReceiptHandler) GenerateAndSend(c *gin.Context) {
	var req request.SendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	// a started run is not cancelled when the client goes away
	ctx := context.WithoutCancel(c.Request.Context())

	delivery, err := h.receiptService.Send(ctx, req.ToOrder())
	if err != nil {
		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			log.Printf("[%s] receipt delivery failed at %s: %v", GetRequestID(c), stageErr.Stage, err)
		} else {
			log.Printf("[%s] receipt delivery failed: %v", GetRequestID(c), err)
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Delivered(c, delivery.Sid, delivery.FileURL)
}
