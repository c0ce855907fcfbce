package handlers

import (
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// VehicleHandlers handles vehicle-related HTTP requests
type VehicleHandlers struct {
	vehicleService services.VehicleServiceInterface
}

// NewVehicleHandlers creates a new vehicle handlers instance
func NewVehicleHandlers(vehicleService services.VehicleServiceInterface) *VehicleHandlers {
	return &VehicleHandlers{vehicleService: vehicleService}
}

// VehicleRequest represents the vehicle create/update payload
type VehicleRequest struct {
	RegistrationNumber string          `json:"registration_number" validate:"required"`
	CapacityLiters     decimal.Decimal `json:"capacity_liters" validate:"required"`
	DriverID           *uuid.UUID      `json:"driver_id"`
	Status             string          `json:"status"`
}

// CreateVehicle handles creating a new vehicle
func (h *VehicleHandlers) CreateVehicle(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req VehicleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	vehicle := &models.Vehicle{
		RegistrationNumber: req.RegistrationNumber,
		CapacityLiters:     req.CapacityLiters,
		DriverID:           req.DriverID,
		Status:             req.Status,
	}
	if err := h.vehicleService.CreateVehicle(ctx, tenantID, vehicle); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle handles getting a single vehicle
func (h *VehicleHandlers) GetVehicle(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	vehicleID, err := common.ValidateUUID(c.Param("id"), "vehicle id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	vehicle, err := h.vehicleService.GetVehicleByID(ctx, tenantID, vehicleID)
	if err != nil {
		return common.SendNotFoundError(c, "vehicle")
	}
	return c.JSON(http.StatusOK, vehicle)
}

// ListVehicles handles getting a list of vehicles
func (h *VehicleHandlers) ListVehicles(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	vehicles, err := h.vehicleService.ListVehicles(ctx, tenantID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list vehicles")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

// UpdateVehicle handles updating vehicle details
func (h *VehicleHandlers) UpdateVehicle(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	vehicleID, err := common.ValidateUUID(c.Param("id"), "vehicle id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req VehicleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	vehicle, err := h.vehicleService.GetVehicleByID(ctx, tenantID, vehicleID)
	if err != nil {
		return common.SendNotFoundError(c, "vehicle")
	}

	vehicle.RegistrationNumber = req.RegistrationNumber
	vehicle.CapacityLiters = req.CapacityLiters
	vehicle.DriverID = req.DriverID
	if req.Status != "" {
		vehicle.Status = req.Status
	}

	if err := h.vehicleService.UpdateVehicle(ctx, tenantID, vehicle); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle handles deleting a vehicle
func (h *VehicleHandlers) DeleteVehicle(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	vehicleID, err := common.ValidateUUID(c.Param("id"), "vehicle id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.vehicleService.DeleteVehicle(ctx, tenantID, vehicleID); err != nil {
		return common.SendServerError(c, "Failed to delete vehicle")
	}
	return c.NoContent(http.StatusNoContent)
}
