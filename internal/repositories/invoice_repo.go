package repositories

import (
	"context"
	"fmt"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListByCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	MarkPaidTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, paidDate time.Time) error
	GenerateInvoiceNumber(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, issuedDate time.Time) (string, error)
	AcquireGenerationLock(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepository(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, tenant_id, invoice_number, related_to, related_id, period_start, period_end, subtotal, tax, discount, total_amount, status, issued_date, due_date, paid_date, created_at, updated_at`

func scanInvoice(row interface{ Scan(dest ...any) error }) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.InvoiceNumber, &inv.RelatedTo, &inv.RelatedID, &inv.PeriodStart, &inv.PeriodEnd, &inv.Subtotal, &inv.Tax, &inv.Discount, &inv.TotalAmount, &inv.Status, &inv.IssuedDate, &inv.DueDate, &inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateTx inserts the invoice header and its line items in one transaction.
func (r *invoiceRepo) CreateTx(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, invoice_number, related_to, related_id, period_start, period_end, subtotal, tax, discount, total_amount, status, issued_date, due_date, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := tx.Exec(ctx, query, invoice.ID, invoice.TenantID, invoice.InvoiceNumber, invoice.RelatedTo, invoice.RelatedID, invoice.PeriodStart, invoice.PeriodEnd, invoice.Subtotal, invoice.Tax, invoice.Discount, invoice.TotalAmount, invoice.Status, invoice.IssuedDate, invoice.DueDate, invoice.PaidDate)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, source_type, source_id, occurred_at, quantity_liters, per_liter_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, item := range invoice.Items {
		if _, err := tx.Exec(ctx, itemQuery, item.ID, item.InvoiceID, item.SourceType, item.SourceID, item.OccurredAt, item.QuantityLiters, item.PerLiterRate, item.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *invoiceRepo) listItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, source_type, source_id, occurred_at, quantity_liters, per_liter_rate, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		item := &models.InvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.SourceType, &item.SourceID, &item.OccurredAt, &item.QuantityLiters, &item.PerLiterRate, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetByIDForUpdate locks the invoice row for the duration of the transaction
// so concurrent payments against one invoice are serialized.
func (r *invoiceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return scanInvoice(tx.QueryRow(ctx, query, tenantID, id))
}

func (r *invoiceRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 ORDER BY issued_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) ListByCounterparty(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND related_to = $2 AND related_id = $3
		ORDER BY issued_date DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, relatedTo, relatedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *invoiceRepo) MarkPaidTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, paidDate time.Time) error {
	query := `UPDATE invoices SET status = 'paid', paid_date = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := tx.Exec(ctx, query, paidDate, tenantID, id)
	return err
}

// GenerateInvoiceNumber returns the next monotonic invoice number for the
// tenant and month, format INV-<tenant suffix>-YYYY-MM-NNNNNN.
func (r *invoiceRepo) GenerateInvoiceNumber(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, issuedDate time.Time) (string, error) {
	yearMonth := issuedDate.Format("2006-01")

	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (tenant_id, year_month, last_number)
			VALUES ($1, $2, 1)
			ON CONFLICT (tenant_id, year_month)
			DO UPDATE SET
				last_number = invoice_sequences.last_number + 1,
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert;
	`

	var sequenceNum int
	err := tx.QueryRow(ctx, query, tenantID, yearMonth).Scan(&sequenceNum)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice sequence: %w", err)
	}

	tenantSuffix := tenantID.String()[len(tenantID.String())-8:]
	return fmt.Sprintf("INV-%s-%s-%06d", tenantSuffix, yearMonth, sequenceNum), nil
}

// AcquireGenerationLock serializes invoice generation per counterparty using
// a transaction-scoped advisory lock. Released automatically at commit or
// rollback.
func (r *invoiceRepo) AcquireGenerationLock(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) error {
	key := fmt.Sprintf("%s:%s:%s", tenantID, relatedTo, relatedID)
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}
