package handlers

import (
	"errors"
	"net/http"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/rates"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CollectionHandlers handles collection trip HTTP requests
type CollectionHandlers struct {
	collectionService services.CollectionServiceInterface
}

// NewCollectionHandlers creates a new collection handlers instance
func NewCollectionHandlers(collectionService services.CollectionServiceInterface) *CollectionHandlers {
	return &CollectionHandlers{collectionService: collectionService}
}

// TripRequest represents a collection or delivery creation payload
type TripRequest struct {
	CounterpartyID uuid.UUID        `json:"counterparty_id" validate:"required"`
	VehicleID      uuid.UUID        `json:"vehicle_id" validate:"required"`
	DriverID       *uuid.UUID       `json:"driver_id"`
	TankerCount    *int             `json:"tanker_count"`
	QuantityLiters *decimal.Decimal `json:"quantity_liters"`
	OccurredAt     time.Time        `json:"occurred_at"`
	Status         string           `json:"status"`
	Notes          *string          `json:"notes"`
}

func (r *TripRequest) toInput() *services.TripInput {
	return &services.TripInput{
		CounterpartyID: r.CounterpartyID,
		VehicleID:      r.VehicleID,
		DriverID:       r.DriverID,
		TankerCount:    r.TankerCount,
		QuantityLiters: r.QuantityLiters,
		OccurredAt:     r.OccurredAt,
		Status:         r.Status,
		Notes:          r.Notes,
	}
}

// CreateCollection records a pickup with its rate resolved and frozen
func (h *CollectionHandlers) CreateCollection(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	collection, err := h.collectionService.CreateCollection(ctx, tenantID, req.toInput())
	if err != nil {
		if errors.Is(err, rates.ErrInvalidRateInput) {
			return common.SendValidationError(c, "rate", err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, collection)
}

// GetCollection handles getting a single collection
func (h *CollectionHandlers) GetCollection(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	collectionID, err := common.ValidateUUID(c.Param("id"), "collection id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	collection, err := h.collectionService.GetCollectionByID(ctx, tenantID, collectionID)
	if err != nil {
		return common.SendNotFoundError(c, "collection")
	}
	return c.JSON(http.StatusOK, collection)
}

// ListCollectionsRequest represents query parameters for listing collections
type ListCollectionsRequest struct {
	SupplierID string `query:"supplier_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListCollections handles listing collections, optionally per supplier
func (h *CollectionHandlers) ListCollections(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListCollectionsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	var supplierID *uuid.UUID
	if req.SupplierID != "" {
		id, err := common.ValidateUUID(req.SupplierID, "supplier id")
		if err != nil {
			return common.SendValidationError(c, "supplier_id", err.Error())
		}
		supplierID = &id
	}

	collections, err := h.collectionService.ListCollections(ctx, tenantID, supplierID, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list collections")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"collections": collections,
		"limit":       req.Limit,
		"offset":      req.Offset,
	})
}

// ListUnbilledCollections lists completed collections awaiting an invoice
func (h *CollectionHandlers) ListUnbilledCollections(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	supplierID, err := common.ValidateUUID(c.QueryParam("supplier_id"), "supplier id")
	if err != nil {
		return common.SendValidationError(c, "supplier_id", err.Error())
	}

	collections, err := h.collectionService.ListUnbilledCollections(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "Failed to list unbilled collections")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"collections": collections,
	})
}

// CompleteCollection marks a pending collection as completed
func (h *CollectionHandlers) CompleteCollection(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	collectionID, err := common.ValidateUUID(c.Param("id"), "collection id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.collectionService.CompleteCollection(ctx, tenantID, collectionID); err != nil {
		return common.SendServerError(c, "Failed to complete collection")
	}
	return c.NoContent(http.StatusNoContent)
}
