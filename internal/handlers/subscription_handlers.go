package handlers

import (
	"io"
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles platform subscription HTTP requests
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionServiceInterface
	gatewayService      services.GatewayService
}

// NewSubscriptionHandlers creates a new subscription handlers instance
func NewSubscriptionHandlers(subscriptionService services.SubscriptionServiceInterface, gatewayService services.GatewayService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		subscriptionService: subscriptionService,
		gatewayService:      gatewayService,
	}
}

// SubscribeRequest represents the subscription signup payload
type SubscribeRequest struct {
	PlanName      string `json:"plan_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
}

// Subscribe creates a gateway subscription for the tenant
func (h *SubscriptionHandlers) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	subscription, err := h.subscriptionService.Subscribe(ctx, tenantID, req.PlanName, req.CustomerEmail)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, subscription)
}

// GetSubscription returns the tenant's current subscription
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	subscription, err := h.subscriptionService.GetSubscription(ctx, tenantID)
	if err != nil {
		return common.SendNotFoundError(c, "subscription")
	}
	return c.JSON(http.StatusOK, subscription)
}

// CancelSubscription cancels the tenant's subscription
func (h *SubscriptionHandlers) CancelSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.subscriptionService.CancelSubscription(ctx, tenantID); err != nil {
		return common.SendServerError(c, "Failed to cancel subscription")
	}
	return c.NoContent(http.StatusNoContent)
}

// GatewayWebhook receives and verifies payment gateway callbacks
func (h *SubscriptionHandlers) GatewayWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return common.SendClientError(c, "Failed to read webhook body")
	}

	signature := c.Request().Header.Get("X-Razorpay-Signature")
	event, err := h.gatewayService.WebhookVerify(body, signature)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	if err := h.subscriptionService.HandleWebhookEvent(c.Request().Context(), event); err != nil {
		return common.SendServerError(c, "Failed to process webhook")
	}
	return c.NoContent(http.StatusOK)
}
