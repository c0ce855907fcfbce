package handlers

import (
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SocietyHandlers handles society-related HTTP requests
type SocietyHandlers struct {
	societyService        services.SocietyServiceInterface
	reconciliationService services.ReconciliationServiceInterface
}

// NewSocietyHandlers creates a new society handlers instance
func NewSocietyHandlers(societyService services.SocietyServiceInterface, reconciliationService services.ReconciliationServiceInterface) *SocietyHandlers {
	return &SocietyHandlers{
		societyService:        societyService,
		reconciliationService: reconciliationService,
	}
}

// SocietyRequest represents the society create/update payload
type SocietyRequest struct {
	Name             string          `json:"name" validate:"required"`
	ContactPhone     *string         `json:"contact_phone"`
	Address          *string         `json:"address"`
	RateBasis        string          `json:"rate_basis" validate:"required"`
	NominalRate      decimal.Decimal `json:"nominal_rate" validate:"required"`
	TaxPercent       decimal.Decimal `json:"tax_percent"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	PaymentTermsDays int             `json:"payment_terms_days"`
}

// CreateSociety handles creating a new society
func (h *SocietyHandlers) CreateSociety(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req SocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	society := &models.Society{
		Name:             req.Name,
		ContactPhone:     req.ContactPhone,
		Address:          req.Address,
		RateBasis:        req.RateBasis,
		NominalRate:      req.NominalRate,
		TaxPercent:       req.TaxPercent,
		DiscountPercent:  req.DiscountPercent,
		PaymentTermsDays: req.PaymentTermsDays,
	}
	if err := h.societyService.CreateSociety(ctx, tenantID, society); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, society)
}

// GetSociety handles getting a single society
func (h *SocietyHandlers) GetSociety(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	societyID, err := common.ValidateUUID(c.Param("id"), "society id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	society, err := h.societyService.GetSocietyByID(ctx, tenantID, societyID)
	if err != nil {
		return common.SendNotFoundError(c, "society")
	}
	return c.JSON(http.StatusOK, society)
}

// ListSocieties handles getting a list of societies
func (h *SocietyHandlers) ListSocieties(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	societies, err := h.societyService.ListSocieties(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list societies")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"societies": societies,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// UpdateSociety handles updating society details and billing configuration
func (h *SocietyHandlers) UpdateSociety(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	societyID, err := common.ValidateUUID(c.Param("id"), "society id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req SocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	society, err := h.societyService.GetSocietyByID(ctx, tenantID, societyID)
	if err != nil {
		return common.SendNotFoundError(c, "society")
	}

	society.Name = req.Name
	society.ContactPhone = req.ContactPhone
	society.Address = req.Address
	society.RateBasis = req.RateBasis
	society.NominalRate = req.NominalRate
	society.TaxPercent = req.TaxPercent
	society.DiscountPercent = req.DiscountPercent
	if req.PaymentTermsDays > 0 {
		society.PaymentTermsDays = req.PaymentTermsDays
	}

	if err := h.societyService.UpdateSociety(ctx, tenantID, society); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, society)
}

// DeleteSociety handles deleting a society
func (h *SocietyHandlers) DeleteSociety(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	societyID, err := common.ValidateUUID(c.Param("id"), "society id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.societyService.DeleteSociety(ctx, tenantID, societyID); err != nil {
		return common.SendServerError(c, "Failed to delete society")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSocietyOutstanding returns the society's derived balance
func (h *SocietyHandlers) GetSocietyOutstanding(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	societyID, err := common.ValidateUUID(c.Param("id"), "society id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	outstanding, err := h.reconciliationService.CounterpartyOutstanding(ctx, tenantID, "society", societyID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute outstanding")
	}
	return c.JSON(http.StatusOK, outstanding)
}

// GetSocietyMonthlySummary returns one month's reconciliation for a society
func (h *SocietyHandlers) GetSocietyMonthlySummary(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	societyID, err := common.ValidateUUID(c.Param("id"), "society id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	month, err := common.ParseMonth(c.QueryParam("month"))
	if err != nil {
		return common.SendValidationError(c, "month", err.Error())
	}

	summary, err := h.reconciliationService.MonthlySummary(ctx, tenantID, "society", societyID, month)
	if err != nil {
		return common.SendServerError(c, "Failed to build monthly summary")
	}
	return c.JSON(http.StatusOK, summary)
}
