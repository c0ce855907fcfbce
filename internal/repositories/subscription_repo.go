package repositories

import (
	"context"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error)
	GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepository(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, tenant_id, gateway_subscription_id, plan_name, amount, currency, status, start_date, end_date, created_at, updated_at`

func scanSubscription(row interface{ Scan(dest ...any) error }) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := row.Scan(&s.ID, &s.TenantID, &s.GatewaySubscriptionID, &s.PlanName, &s.Amount, &s.Currency, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, tenant_id, gateway_subscription_id, plan_name, amount, currency, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, sub.ID, sub.TenantID, sub.GatewaySubscriptionID, sub.PlanName, sub.Amount, sub.Currency, sub.Status, sub.StartDate, sub.EndDate)
	return err
}

func (r *subscriptionRepo) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanSubscription(r.db.QueryRow(ctx, query, tenantID))
}

func (r *subscriptionRepo) GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE gateway_subscription_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, gatewaySubscriptionID))
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE subscriptions SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

// ExpireEnded marks active subscriptions whose end date has passed. Run by
// the background scheduler.
func (r *subscriptionRepo) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE subscriptions SET status = 'expired', updated_at = NOW() WHERE status = 'active' AND end_date < $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
