package handlers

import (
	"errors"
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/rates"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DeliveryHandlers handles delivery trip HTTP requests
type DeliveryHandlers struct {
	deliveryService services.DeliveryServiceInterface
}

// NewDeliveryHandlers creates a new delivery handlers instance
func NewDeliveryHandlers(deliveryService services.DeliveryServiceInterface) *DeliveryHandlers {
	return &DeliveryHandlers{deliveryService: deliveryService}
}

// CreateDelivery records a drop with its rate resolved and frozen
func (h *DeliveryHandlers) CreateDelivery(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	delivery, err := h.deliveryService.CreateDelivery(ctx, tenantID, req.toInput())
	if err != nil {
		if errors.Is(err, rates.ErrInvalidRateInput) {
			return common.SendValidationError(c, "rate", err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, delivery)
}

// GetDelivery handles getting a single delivery
func (h *DeliveryHandlers) GetDelivery(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	deliveryID, err := common.ValidateUUID(c.Param("id"), "delivery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	delivery, err := h.deliveryService.GetDeliveryByID(ctx, tenantID, deliveryID)
	if err != nil {
		return common.SendNotFoundError(c, "delivery")
	}
	return c.JSON(http.StatusOK, delivery)
}

// ListDeliveriesRequest represents query parameters for listing deliveries
type ListDeliveriesRequest struct {
	SocietyID string `query:"society_id"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// ListDeliveries handles listing deliveries, optionally per society
func (h *DeliveryHandlers) ListDeliveries(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListDeliveriesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	var societyID *uuid.UUID
	if req.SocietyID != "" {
		id, err := common.ValidateUUID(req.SocietyID, "society id")
		if err != nil {
			return common.SendValidationError(c, "society_id", err.Error())
		}
		societyID = &id
	}

	deliveries, err := h.deliveryService.ListDeliveries(ctx, tenantID, societyID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list deliveries")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deliveries": deliveries,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

// CompleteDelivery marks a pending delivery as completed
func (h *DeliveryHandlers) CompleteDelivery(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	deliveryID, err := common.ValidateUUID(c.Param("id"), "delivery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.deliveryService.CompleteDelivery(ctx, tenantID, deliveryID); err != nil {
		return common.SendServerError(c, "Failed to complete delivery")
	}
	return c.NoContent(http.StatusNoContent)
}
