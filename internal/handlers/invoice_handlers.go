package handlers

import (
	"errors"
	"net/http"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles invoice HTTP requests
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	paymentService services.PaymentServiceInterface
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, paymentService services.PaymentServiceInterface) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// GenerateInvoiceRequest represents the invoice generation payload. The
// period bounds are dates; end_date is inclusive.
type GenerateInvoiceRequest struct {
	RelatedTo string    `json:"related_to" validate:"required"`
	RelatedID uuid.UUID `json:"related_id" validate:"required"`
	StartDate string    `json:"start_date" validate:"required"`
	EndDate   string    `json:"end_date" validate:"required"`
}

// GenerateInvoice rolls a counterparty's unbilled trips in the period into
// one invoice
func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req GenerateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	periodStart, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return common.SendValidationError(c, "start_date", "must be YYYY-MM-DD")
	}
	periodEnd, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return common.SendValidationError(c, "end_date", "must be YYYY-MM-DD")
	}
	// Cover the whole end day.
	periodEnd = periodEnd.AddDate(0, 0, 1).Add(-time.Second)
	if err := common.ValidateDateRange(periodStart, periodEnd); err != nil {
		return common.SendValidationError(c, "end_date", err.Error())
	}

	invoice, err := h.invoiceService.GenerateInvoice(ctx, tenantID, req.RelatedTo, req.RelatedID, periodStart, periodEnd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoBillableTransactions):
			return common.SendClientError(c, err.Error())
		case errors.Is(err, services.ErrOverlap):
			return common.SendConflictError(c, err.Error())
		case errors.Is(err, services.ErrConcurrentModification):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendServerError(c, "Failed to generate invoice")
		}
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice returns one invoice with its line items and payments
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "invoice")
	}
	payments, err := h.paymentService.ListPaymentsByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoice payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoice":  invoice,
		"payments": payments,
	})
}

// ListInvoices lists the tenant's invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	invoices, err := h.invoiceService.ListInvoices(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

// SendInvoice issues a draft invoice
func (h *InvoiceHandlers) SendInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invoiceService.SendInvoice(ctx, tenantID, invoiceID); err != nil {
		return common.SendConflictError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelInvoice voids an unpaid invoice, releasing its trips for rebilling
func (h *InvoiceHandlers) CancelInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invoiceService.CancelInvoice(ctx, tenantID, invoiceID); err != nil {
		return common.SendConflictError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
