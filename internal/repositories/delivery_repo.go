package repositories

import (
	"context"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *models.Delivery) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Delivery, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	List(ctx context.Context, tenantID uuid.UUID, societyID *uuid.UUID, limit, offset int) ([]*models.Delivery, error)
	LockBillable(ctx context.Context, tx pgx.Tx, tenantID, societyID uuid.UUID, periodStart, periodEnd time.Time) ([]BillableTrip, error)
	AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error
	MonthlyTotals(ctx context.Context, tenantID, societyID uuid.UUID, monthStart, monthEnd time.Time) (PeriodTotals, error)
}

type deliveryRepo struct {
	db DB
}

func NewDeliveryRepository(db DB) DeliveryRepository {
	return &deliveryRepo{db: db}
}

const deliveryColumns = `id, tenant_id, society_id, vehicle_id, driver_id, tanker_count, quantity_liters, per_liter_rate, total_amount, status, occurred_at, invoice_id, notes, created_at, updated_at`

func scanDelivery(row interface{ Scan(dest ...any) error }) (*models.Delivery, error) {
	d := &models.Delivery{}
	err := row.Scan(&d.ID, &d.TenantID, &d.SocietyID, &d.VehicleID, &d.DriverID, &d.TankerCount, &d.QuantityLiters, &d.PerLiterRate, &d.TotalAmount, &d.Status, &d.OccurredAt, &d.InvoiceID, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deliveryRepo) Create(ctx context.Context, delivery *models.Delivery) error {
	query := `
		INSERT INTO deliveries (id, tenant_id, society_id, vehicle_id, driver_id, tanker_count, quantity_liters, per_liter_rate, total_amount, status, occurred_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, delivery.ID, delivery.TenantID, delivery.SocietyID, delivery.VehicleID, delivery.DriverID, delivery.TankerCount, delivery.QuantityLiters, delivery.PerLiterRate, delivery.TotalAmount, delivery.Status, delivery.OccurredAt, delivery.Notes)
	return err
}

func (r *deliveryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE tenant_id = $1 AND id = $2`
	return scanDelivery(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *deliveryRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE deliveries SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *deliveryRepo) List(ctx context.Context, tenantID uuid.UUID, societyID *uuid.UUID, limit, offset int) ([]*models.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR society_id = $2)
		ORDER BY occurred_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, societyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// LockBillable locks the society's completed trips in the period and returns
// them with their current invoice attachment, oldest first.
func (r *deliveryRepo) LockBillable(ctx context.Context, tx pgx.Tx, tenantID, societyID uuid.UUID, periodStart, periodEnd time.Time) ([]BillableTrip, error) {
	query := `
		SELECT d.id, d.occurred_at, d.quantity_liters, d.per_liter_rate, d.total_amount, d.invoice_id, i.status, i.period_start, i.period_end
		FROM deliveries d
		LEFT JOIN invoices i ON d.invoice_id = i.id
		WHERE d.tenant_id = $1 AND d.society_id = $2 AND d.status = 'completed'
		  AND d.occurred_at >= $3 AND d.occurred_at <= $4
		ORDER BY d.occurred_at ASC
		FOR UPDATE OF d
	`
	rows, err := tx.Query(ctx, query, tenantID, societyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBillableTrips(rows)
}

func (r *deliveryRepo) AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error {
	query := `
		UPDATE deliveries
		SET invoice_id = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = ANY($3)
	`
	_, err := tx.Exec(ctx, query, invoiceID, tenantID, ids)
	return err
}

func (r *deliveryRepo) MonthlyTotals(ctx context.Context, tenantID, societyID uuid.UUID, monthStart, monthEnd time.Time) (PeriodTotals, error) {
	query := `
		SELECT COALESCE(SUM(quantity_liters), 0), COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM deliveries
		WHERE tenant_id = $1 AND society_id = $2 AND status = 'completed'
		  AND occurred_at >= $3 AND occurred_at < $4
	`
	var totals PeriodTotals
	err := r.db.QueryRow(ctx, query, tenantID, societyID, monthStart, monthEnd).Scan(&totals.QuantityLiters, &totals.Amount, &totals.TripCount)
	if err != nil {
		return PeriodTotals{}, err
	}
	return totals, nil
}
