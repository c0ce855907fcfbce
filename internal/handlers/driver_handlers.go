package handlers

import (
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DriverHandlers handles driver-related HTTP requests
type DriverHandlers struct {
	driverService services.DriverServiceInterface
}

// NewDriverHandlers creates a new driver handlers instance
func NewDriverHandlers(driverService services.DriverServiceInterface) *DriverHandlers {
	return &DriverHandlers{driverService: driverService}
}

// DriverRequest represents the driver create/update payload
type DriverRequest struct {
	Name          string          `json:"name" validate:"required"`
	ContactPhone  *string         `json:"contact_phone"`
	LicenseNumber *string         `json:"license_number"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Status        string          `json:"status"`
}

// CreateDriver handles creating a new driver
func (h *DriverHandlers) CreateDriver(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req DriverRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	driver := &models.Driver{
		Name:          req.Name,
		ContactPhone:  req.ContactPhone,
		LicenseNumber: req.LicenseNumber,
		MonthlySalary: req.MonthlySalary,
		Status:        req.Status,
	}
	if err := h.driverService.CreateDriver(ctx, tenantID, driver); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, driver)
}

// GetDriver handles getting a single driver
func (h *DriverHandlers) GetDriver(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	driverID, err := common.ValidateUUID(c.Param("id"), "driver id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	driver, err := h.driverService.GetDriverByID(ctx, tenantID, driverID)
	if err != nil {
		return common.SendNotFoundError(c, "driver")
	}
	return c.JSON(http.StatusOK, driver)
}

// ListDrivers handles getting a list of drivers
func (h *DriverHandlers) ListDrivers(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	drivers, err := h.driverService.ListDrivers(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list drivers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"drivers": drivers,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// UpdateDriver handles updating driver details
func (h *DriverHandlers) UpdateDriver(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	driverID, err := common.ValidateUUID(c.Param("id"), "driver id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req DriverRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	driver, err := h.driverService.GetDriverByID(ctx, tenantID, driverID)
	if err != nil {
		return common.SendNotFoundError(c, "driver")
	}

	driver.Name = req.Name
	driver.ContactPhone = req.ContactPhone
	driver.LicenseNumber = req.LicenseNumber
	driver.MonthlySalary = req.MonthlySalary
	if req.Status != "" {
		driver.Status = req.Status
	}

	if err := h.driverService.UpdateDriver(ctx, tenantID, driver); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, driver)
}

// DeleteDriver handles deleting a driver
func (h *DriverHandlers) DeleteDriver(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	driverID, err := common.ValidateUUID(c.Param("id"), "driver id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.driverService.DeleteDriver(ctx, tenantID, driverID); err != nil {
		return common.SendServerError(c, "Failed to delete driver")
	}
	return c.NoContent(http.StatusNoContent)
}
