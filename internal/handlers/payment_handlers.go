package handlers

import (
	"errors"
	"net/http"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentHandlers handles payment HTTP requests
type PaymentHandlers struct {
	paymentService services.PaymentServiceInterface
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentServiceInterface) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

// PaymentRequest represents the payment recording payload
type PaymentRequest struct {
	Type            string          `json:"type" validate:"required"`
	RelatedTo       string          `json:"related_to" validate:"required"`
	RelatedID       uuid.UUID       `json:"related_id" validate:"required"`
	InvoiceID       *uuid.UUID      `json:"invoice_id"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber *string         `json:"reference_number"`
}

// RecordPayment records one settlement, attributed to an invoice or held as
// a running-balance credit
func (h *PaymentHandlers) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	payment, err := h.paymentService.RecordPayment(ctx, tenantID, &services.PaymentInput{
		Type:            req.Type,
		RelatedTo:       req.RelatedTo,
		RelatedID:       req.RelatedID,
		InvoiceID:       req.InvoiceID,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		PaymentDate:     req.PaymentDate,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		if errors.Is(err, services.ErrOverpaymentRejected) || errors.Is(err, services.ErrConcurrentModification) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, payment)
}

// GetPayment handles getting a single payment
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	paymentID, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return common.SendNotFoundError(c, "payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// ListPaymentsRequest represents query parameters for listing payments
type ListPaymentsRequest struct {
	RelatedTo string `query:"related_to"`
	RelatedID string `query:"related_id"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// ListPayments lists payments with optional counterparty and date filters
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	relatedID := uuid.Nil
	if req.RelatedID != "" {
		id, err := common.ValidateUUID(req.RelatedID, "related id")
		if err != nil {
			return common.SendValidationError(c, "related_id", err.Error())
		}
		relatedID = id
	}

	var from, to *time.Time
	if req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return common.SendValidationError(c, "from", "date must be in YYYY-MM-DD format")
		}
		from = &t
	}
	if req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return common.SendValidationError(c, "to", "date must be in YYYY-MM-DD format")
		}
		end := t.Add(24*time.Hour - time.Second)
		to = &end
	}
	if from != nil && to != nil {
		if err := common.ValidateDateRange(*from, *to); err != nil {
			return common.SendValidationError(c, "to", err.Error())
		}
	}

	payments, err := h.paymentService.ListPayments(ctx, tenantID, req.RelatedTo, relatedID, from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to list payments")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
	})
}
