package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID path/query parameters
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %v", fieldName, err)
	}

	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePositiveAmount validates monetary amounts with an upper bound
func ValidatePositiveAmount(value decimal.Decimal, fieldName string) error {
	if value.Sign() <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if value.GreaterThan(decimal.NewFromInt(100000000)) {
		return fmt.Errorf("%s cannot exceed ₹10,00,00,000", fieldName)
	}
	return nil
}

// ValidateCounterpartyType validates counterparty type values
func ValidateCounterpartyType(counterpartyType string) error {
	switch counterpartyType {
	case "supplier", "society", "driver":
		return nil
	}
	return fmt.Errorf("counterparty type must be one of: supplier, society, driver")
}

// ValidateInvoiceParty validates invoice related_to values; invoices are only
// raised against suppliers and societies, never drivers.
func ValidateInvoiceParty(relatedTo string) error {
	if relatedTo != "supplier" && relatedTo != "society" {
		return fmt.Errorf("related_to must be either 'supplier' or 'society'")
	}
	return nil
}

// ValidateInvoiceStatus validates invoice status values
func ValidateInvoiceStatus(status string) error {
	validStatuses := map[string]bool{
		"draft": true, "sent": true, "paid": true, "overdue": true, "cancelled": true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("invoice status must be one of: draft, sent, paid, overdue, cancelled")
	}
	return nil
}

// ValidatePaymentMethod validates payment method values
func ValidatePaymentMethod(method string) error {
	validMethods := map[string]bool{
		"cash": true, "bank_transfer": true, "upi": true, "cheque": true,
		"card": true, "neft": true, "rtgs": true,
	}
	if !validMethods[method] {
		return fmt.Errorf("payment method must be one of: cash, bank_transfer, upi, cheque, card, neft, rtgs")
	}
	return nil
}

// ValidatePaymentType validates payment type values
func ValidatePaymentType(paymentType string) error {
	switch paymentType {
	case "purchase", "delivery", "expense", "other":
		return nil
	}
	return fmt.Errorf("payment type must be one of: purchase, delivery, expense, other")
}

// ValidateExpenseCategory validates expense category values
func ValidateExpenseCategory(category string) error {
	validCategories := map[string]bool{
		"fuel": true, "maintenance": true, "toll": true, "food": true, "other": true,
	}
	if !validCategories[category] {
		return fmt.Errorf("expense category must be one of: fuel, maintenance, toll, food, other")
	}
	return nil
}

// ValidateTripStatus validates collection/delivery status values
func ValidateTripStatus(status string) error {
	if status != "pending" && status != "completed" {
		return fmt.Errorf("status must be either 'pending' or 'completed'")
	}
	return nil
}

// ValidateRateBasis validates counterparty rate basis values
func ValidateRateBasis(basis string) error {
	if basis != "per_tanker" && basis != "per_liter" {
		return fmt.Errorf("rate basis must be either 'per_tanker' or 'per_liter'")
	}
	return nil
}

// ParseMonth parses a YYYY-MM month parameter into its first instant
func ParseMonth(monthStr string) (time.Time, error) {
	month, err := time.Parse("2006-01", strings.TrimSpace(monthStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be in YYYY-MM format")
	}
	return month, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// SecureErrorMessage creates standardized error messages to prevent information leakage
func SecureErrorMessage(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: operation could not be completed", operation)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ValidateDateRange validates billing period bounds
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("end date cannot be before start date")
	}

	duration := endDate.Sub(startDate)
	maxDuration := time.Hour * 24 * 366
	if duration > maxDuration {
		return fmt.Errorf("billing period cannot exceed one year")
	}

	return nil
}
