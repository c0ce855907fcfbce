package handlers

import (
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SupplierHandlers handles supplier-related HTTP requests
type SupplierHandlers struct {
	supplierService       services.SupplierServiceInterface
	reconciliationService services.ReconciliationServiceInterface
	statementService      services.StatementServiceInterface
}

// NewSupplierHandlers creates a new supplier handlers instance
func NewSupplierHandlers(supplierService services.SupplierServiceInterface, reconciliationService services.ReconciliationServiceInterface, statementService services.StatementServiceInterface) *SupplierHandlers {
	return &SupplierHandlers{
		supplierService:       supplierService,
		reconciliationService: reconciliationService,
		statementService:      statementService,
	}
}

// SupplierRequest represents the supplier create/update payload
type SupplierRequest struct {
	Name             string          `json:"name" validate:"required"`
	ContactPhone     *string         `json:"contact_phone"`
	Address          *string         `json:"address"`
	RateBasis        string          `json:"rate_basis" validate:"required"`
	NominalRate      decimal.Decimal `json:"nominal_rate" validate:"required"`
	TaxPercent       decimal.Decimal `json:"tax_percent"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	PaymentTermsDays int             `json:"payment_terms_days"`
}

// CreateSupplier handles creating a new supplier
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	supplier := &models.Supplier{
		Name:             req.Name,
		ContactPhone:     req.ContactPhone,
		Address:          req.Address,
		RateBasis:        req.RateBasis,
		NominalRate:      req.NominalRate,
		TaxPercent:       req.TaxPercent,
		DiscountPercent:  req.DiscountPercent,
		PaymentTermsDays: req.PaymentTermsDays,
	}
	if err := h.supplierService.CreateSupplier(ctx, tenantID, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier handles getting a single supplier
func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	supplier, err := h.supplierService.GetSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendNotFoundError(c, "supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

// ListSuppliersRequest represents query parameters for listing suppliers
type ListSuppliersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListSuppliers handles getting a list of suppliers with tenant filtering
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	suppliers, err := h.supplierService.ListSuppliers(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list suppliers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// UpdateSupplier handles updating supplier details and billing configuration
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	supplier, err := h.supplierService.GetSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendNotFoundError(c, "supplier")
	}

	supplier.Name = req.Name
	supplier.ContactPhone = req.ContactPhone
	supplier.Address = req.Address
	supplier.RateBasis = req.RateBasis
	supplier.NominalRate = req.NominalRate
	supplier.TaxPercent = req.TaxPercent
	supplier.DiscountPercent = req.DiscountPercent
	if req.PaymentTermsDays > 0 {
		supplier.PaymentTermsDays = req.PaymentTermsDays
	}

	if err := h.supplierService.UpdateSupplier(ctx, tenantID, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles deleting a supplier
func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.supplierService.DeleteSupplier(ctx, tenantID, supplierID); err != nil {
		return common.SendServerError(c, "Failed to delete supplier")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSupplierOutstanding returns the supplier's derived balance, including
// completed collections not yet billed
func (h *SupplierHandlers) GetSupplierOutstanding(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	outstanding, err := h.reconciliationService.SupplierOutstanding(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute outstanding")
	}
	return c.JSON(http.StatusOK, outstanding)
}

// GetSupplierMonthlySummary returns one month's reconciliation for a supplier
func (h *SupplierHandlers) GetSupplierMonthlySummary(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	month, err := common.ParseMonth(c.QueryParam("month"))
	if err != nil {
		return common.SendValidationError(c, "month", err.Error())
	}

	summary, err := h.reconciliationService.MonthlySummary(ctx, tenantID, "supplier", supplierID, month)
	if err != nil {
		return common.SendServerError(c, "Failed to build monthly summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportSupplierStatement streams the supplier statement as a spreadsheet
func (h *SupplierHandlers) ExportSupplierStatement(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.Param("id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	buf, filename, err := h.statementService.SupplierStatementXLSX(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "Failed to export statement")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
