package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const receiptBucket = "expense-receipts"

// ExpenseHandlers handles expense HTTP requests
type ExpenseHandlers struct {
	expenseService services.ExpenseServiceInterface
	paymentService services.PaymentServiceInterface
	minioService   services.MinioService
}

// NewExpenseHandlers creates a new expense handlers instance
func NewExpenseHandlers(expenseService services.ExpenseServiceInterface, paymentService services.PaymentServiceInterface, minioService services.MinioService) *ExpenseHandlers {
	return &ExpenseHandlers{
		expenseService: expenseService,
		paymentService: paymentService,
		minioService:   minioService,
	}
}

// ExpenseRequest represents the expense submission payload
type ExpenseRequest struct {
	DriverID    uuid.UUID       `json:"driver_id" validate:"required"`
	VehicleID   *uuid.UUID      `json:"vehicle_id"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description *string         `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// CreateExpense records a driver-submitted expense claim
func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	expense, err := h.expenseService.CreateExpense(ctx, tenantID, &services.ExpenseInput{
		DriverID:    req.DriverID,
		VehicleID:   req.VehicleID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, expense)
}

// GetExpense handles getting a single expense
func (h *ExpenseHandlers) GetExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	expense, err := h.expenseService.GetExpenseByID(ctx, tenantID, expenseID)
	if err != nil {
		return common.SendNotFoundError(c, "expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// ListExpensesRequest represents query parameters for listing expenses
type ListExpensesRequest struct {
	DriverID string `query:"driver_id"`
	Status   string `query:"status"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// ListExpenses handles listing expenses with optional driver/status filters
func (h *ExpenseHandlers) ListExpenses(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListExpensesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	var driverID *uuid.UUID
	if req.DriverID != "" {
		id, err := common.ValidateUUID(req.DriverID, "driver id")
		if err != nil {
			return common.SendValidationError(c, "driver_id", err.Error())
		}
		driverID = &id
	}
	var status *string
	if req.Status != "" {
		status = &req.Status
	}

	expenses, err := h.expenseService.ListExpenses(ctx, tenantID, driverID, status, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list expenses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

// ApproveExpense moves a pending expense to approved
func (h *ExpenseHandlers) ApproveExpense(c echo.Context) error {
	return h.runTransition(c, h.expenseService.ApproveExpense)
}

// RejectExpense moves a pending expense to rejected
func (h *ExpenseHandlers) RejectExpense(c echo.Context) error {
	return h.runTransition(c, h.expenseService.RejectExpense)
}

func (h *ExpenseHandlers) runTransition(c echo.Context, fn func(ctx context.Context, tenantID, expenseID uuid.UUID) error) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := fn(ctx, tenantID, expenseID); err != nil {
		if errors.Is(err, services.ErrInvalidExpenseState) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to update expense")
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignChargeRequest selects who bears an expense
type AssignChargeRequest struct {
	ChargedTo string `json:"charged_to" validate:"required"`
}

// AssignExpenseCharge charges an expense to the driver or back to the
// vendor. Fuel can never go to the driver
func (h *ExpenseHandlers) AssignExpenseCharge(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req AssignChargeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.expenseService.AssignCharge(ctx, tenantID, expenseID, req.ChargedTo); err != nil {
		if errors.Is(err, services.ErrInvalidExpenseState) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// PayExpenseRequest represents the expense payout payload
type PayExpenseRequest struct {
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	ReferenceNumber *string `json:"reference_number"`
}

// PayExpense reimburses an approved expense
func (h *ExpenseHandlers) PayExpense(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req PayExpenseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	payment, err := h.paymentService.PayExpense(ctx, tenantID, expenseID, req.PaymentMethod, req.ReferenceNumber)
	if err != nil {
		if errors.Is(err, services.ErrInvalidExpenseState) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, payment)
}

// UploadReceipt stores a receipt scan and links it to the expense
func (h *ExpenseHandlers) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return common.SendClientError(c, "Receipt file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read receipt")
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s/%s/%s", tenantID, expenseID, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.minioService.UploadObject(ctx, receiptBucket, objectName, contentType, src, file.Size); err != nil {
		return common.SendServerError(c, "Failed to store receipt")
	}
	if err := h.expenseService.AttachReceipt(ctx, tenantID, expenseID, objectName); err != nil {
		return common.SendServerError(c, "Failed to link receipt")
	}
	return c.JSON(http.StatusOK, map[string]string{"receipt_key": objectName})
}

// GetReceiptURL returns a short-lived download link for the receipt
func (h *ExpenseHandlers) GetReceiptURL(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	expenseID, err := common.ValidateUUID(c.Param("id"), "expense id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	expense, err := h.expenseService.GetExpenseByID(ctx, tenantID, expenseID)
	if err != nil {
		return common.SendNotFoundError(c, "expense")
	}
	if expense.ReceiptKey == nil {
		return common.SendNotFoundError(c, "receipt")
	}

	url, err := h.minioService.GetPresignedURL(receiptBucket, *expense.ReceiptKey, 15*time.Minute)
	if err != nil {
		return common.SendServerError(c, "Failed to generate receipt URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
