package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/handler/dto"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/service"
)

// Payments records and lists payments. service.PaymentService implements it.
type Payments interface {
	Create(ctx context.Context, input service.CreatePaymentInput) (*model.Payment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Payment, error)
}

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	payments Payments
	logger   *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments Payments, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// Create handles POST /payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "UNAUTHORIZED", "Could not validate credentials")
		return
	}

	var req dto.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Code:    "VALIDATION_FAILED",
			Message: "amount is required",
			Field:   "amount",
		}})
		return
	}

	payment, err := h.payments.Create(r.Context(), req.ToInput(user.ID))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("payment_created",
		"payment_id", payment.ID,
		"user_id", user.ID,
		"status", payment.Status,
		"has_card", payment.Card != nil,
	)

	writeJSON(w, http.StatusCreated, payment.ToResponse())
}

// List handles GET /payments.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeUnauthorized(w, "UNAUTHORIZED", "Could not validate credentials")
		return
	}

	payments, err := h.payments.ListByOwner(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPaymentList(payments))
}
