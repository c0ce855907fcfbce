package repositories

import (
	"context"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Collection, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	List(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, limit, offset int) ([]*models.Collection, error)
	ListUnbilled(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*models.Collection, error)
	LockBillable(ctx context.Context, tx pgx.Tx, tenantID, supplierID uuid.UUID, periodStart, periodEnd time.Time) ([]BillableTrip, error)
	AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error
	MonthlyTotals(ctx context.Context, tenantID, supplierID uuid.UUID, monthStart, monthEnd time.Time) (PeriodTotals, error)
}

type collectionRepo struct {
	db DB
}

func NewCollectionRepository(db DB) CollectionRepository {
	return &collectionRepo{db: db}
}

const collectionColumns = `id, tenant_id, supplier_id, vehicle_id, driver_id, tanker_count, quantity_liters, per_liter_rate, total_amount, status, occurred_at, invoice_id, notes, created_at, updated_at`

func scanCollection(row interface{ Scan(dest ...any) error }) (*models.Collection, error) {
	c := &models.Collection{}
	err := row.Scan(&c.ID, &c.TenantID, &c.SupplierID, &c.VehicleID, &c.DriverID, &c.TankerCount, &c.QuantityLiters, &c.PerLiterRate, &c.TotalAmount, &c.Status, &c.OccurredAt, &c.InvoiceID, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *collectionRepo) Create(ctx context.Context, collection *models.Collection) error {
	query := `
		INSERT INTO collections (id, tenant_id, supplier_id, vehicle_id, driver_id, tanker_count, quantity_liters, per_liter_rate, total_amount, status, occurred_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, collection.ID, collection.TenantID, collection.SupplierID, collection.VehicleID, collection.DriverID, collection.TankerCount, collection.QuantityLiters, collection.PerLiterRate, collection.TotalAmount, collection.Status, collection.OccurredAt, collection.Notes)
	return err
}

func (r *collectionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE tenant_id = $1 AND id = $2`
	return scanCollection(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *collectionRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE collections SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *collectionRepo) List(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID, limit, offset int) ([]*models.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR supplier_id = $2)
		ORDER BY occurred_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, supplierID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// ListUnbilled returns completed collections that are not attached to any
// non-cancelled invoice, oldest first.
func (r *collectionRepo) ListUnbilled(ctx context.Context, tenantID, supplierID uuid.UUID) ([]*models.Collection, error) {
	query := `
		SELECT ` + qualifiedTripColumns("c") + `
		FROM collections c
		LEFT JOIN invoices i ON c.invoice_id = i.id
		WHERE c.tenant_id = $1 AND c.supplier_id = $2 AND c.status = 'completed'
		  AND (c.invoice_id IS NULL OR i.status = 'cancelled')
		ORDER BY c.occurred_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// LockBillable locks the supplier's completed trips in the period and returns
// them with their current invoice attachment, oldest first. Rows attached to
// a cancelled invoice count as unbilled.
func (r *collectionRepo) LockBillable(ctx context.Context, tx pgx.Tx, tenantID, supplierID uuid.UUID, periodStart, periodEnd time.Time) ([]BillableTrip, error) {
	query := `
		SELECT c.id, c.occurred_at, c.quantity_liters, c.per_liter_rate, c.total_amount, c.invoice_id, i.status, i.period_start, i.period_end
		FROM collections c
		LEFT JOIN invoices i ON c.invoice_id = i.id
		WHERE c.tenant_id = $1 AND c.supplier_id = $2 AND c.status = 'completed'
		  AND c.occurred_at >= $3 AND c.occurred_at <= $4
		ORDER BY c.occurred_at ASC
		FOR UPDATE OF c
	`
	rows, err := tx.Query(ctx, query, tenantID, supplierID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBillableTrips(rows)
}

func (r *collectionRepo) AttachInvoice(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID, ids []uuid.UUID) error {
	query := `
		UPDATE collections
		SET invoice_id = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = ANY($3)
	`
	_, err := tx.Exec(ctx, query, invoiceID, tenantID, ids)
	return err
}

func (r *collectionRepo) MonthlyTotals(ctx context.Context, tenantID, supplierID uuid.UUID, monthStart, monthEnd time.Time) (PeriodTotals, error) {
	query := `
		SELECT COALESCE(SUM(quantity_liters), 0), COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM collections
		WHERE tenant_id = $1 AND supplier_id = $2 AND status = 'completed'
		  AND occurred_at >= $3 AND occurred_at < $4
	`
	var totals PeriodTotals
	err := r.db.QueryRow(ctx, query, tenantID, supplierID, monthStart, monthEnd).Scan(&totals.QuantityLiters, &totals.Amount, &totals.TripCount)
	if err != nil {
		return PeriodTotals{}, err
	}
	return totals, nil
}

func qualifiedTripColumns(alias string) string {
	return alias + `.id, ` + alias + `.tenant_id, ` + alias + `.supplier_id, ` + alias + `.vehicle_id, ` + alias + `.driver_id, ` + alias + `.tanker_count, ` + alias + `.quantity_liters, ` + alias + `.per_liter_rate, ` + alias + `.total_amount, ` + alias + `.status, ` + alias + `.occurred_at, ` + alias + `.invoice_id, ` + alias + `.notes, ` + alias + `.created_at, ` + alias + `.updated_at`
}

func scanBillableTrips(rows pgx.Rows) ([]BillableTrip, error) {
	var trips []BillableTrip
	for rows.Next() {
		var t BillableTrip
		if err := rows.Scan(&t.ID, &t.OccurredAt, &t.QuantityLiters, &t.PerLiterRate, &t.TotalAmount, &t.InvoiceID, &t.InvoiceStatus, &t.InvoicePeriodStart, &t.InvoicePeriodEnd); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}
