package services

import (
	"context"
	"fmt"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionServiceInterface defines the interface for subscription operations
type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, tenantID uuid.UUID, planName, customerEmail string) (*models.Subscription, error)
	GetSubscription(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, tenantID uuid.UUID) error
	HandleWebhookEvent(ctx context.Context, event *WebhookEvent) error
	ExpireEndedSubscriptions(ctx context.Context) (int64, error)
}

// plan catalog mirrors the gateway's plan configuration
var subscriptionPlans = map[string]struct {
	gatewayPlanID string
	amount        decimal.Decimal
}{
	"starter": {gatewayPlanID: "plan_starter_monthly", amount: decimal.NewFromInt(499)},
	"fleet":   {gatewayPlanID: "plan_fleet_monthly", amount: decimal.NewFromInt(1499)},
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	gateway          GatewayService
}

// NewSubscriptionService creates a new subscription service instance
func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository, gateway GatewayService) SubscriptionServiceInterface {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, tenantID uuid.UUID, planName, customerEmail string) (*models.Subscription, error) {
	plan, ok := subscriptionPlans[planName]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", planName)
	}

	gatewaySub, err := s.gateway.CreateSubscription(ctx, plan.gatewayPlanID, customerEmail)
	if err != nil {
		return nil, common.SecureErrorMessage("create gateway subscription", err)
	}

	now := time.Now()
	endDate := now.AddDate(0, 1, 0)
	subscription := &models.Subscription{
		ID:                    uuid.New(),
		TenantID:              tenantID,
		GatewaySubscriptionID: &gatewaySub.ID,
		PlanName:              planName,
		Amount:                plan.amount,
		Currency:              "INR",
		Status:                "active",
		StartDate:             now,
		EndDate:               &endDate,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, common.SecureErrorMessage("store subscription", err)
	}
	return subscription, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, common.SecureErrorMessage("get subscription", err)
	}
	return subscription, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, tenantID uuid.UUID) error {
	subscription, err := s.subscriptionRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return common.SecureErrorMessage("get subscription", err)
	}

	if subscription.GatewaySubscriptionID != nil {
		if _, err := s.gateway.CancelSubscription(ctx, *subscription.GatewaySubscriptionID); err != nil {
			return common.SecureErrorMessage("cancel gateway subscription", err)
		}
	}

	if err := s.subscriptionRepo.UpdateStatus(ctx, subscription.ID, "cancelled"); err != nil {
		return common.SecureErrorMessage("update subscription", err)
	}
	return nil
}

// HandleWebhookEvent applies a verified gateway callback to the local
// subscription record.
func (s *subscriptionService) HandleWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	payload, ok := event.Payload["subscription"].(map[string]interface{})
	if !ok {
		return nil // not a subscription event
	}
	gatewayID, ok := payload["id"].(string)
	if !ok {
		return fmt.Errorf("webhook subscription payload missing id")
	}

	subscription, err := s.subscriptionRepo.GetByGatewayID(ctx, gatewayID)
	if err != nil {
		return common.SecureErrorMessage("lookup subscription", err)
	}

	switch event.Event {
	case "subscription.activated", "subscription.charged":
		return s.subscriptionRepo.UpdateStatus(ctx, subscription.ID, "active")
	case "subscription.halted", "subscription.paused":
		return s.subscriptionRepo.UpdateStatus(ctx, subscription.ID, "paused")
	case "subscription.cancelled":
		return s.subscriptionRepo.UpdateStatus(ctx, subscription.ID, "cancelled")
	}
	return nil
}

func (s *subscriptionService) ExpireEndedSubscriptions(ctx context.Context) (int64, error) {
	return s.subscriptionRepo.ExpireEnded(ctx, time.Now())
}
