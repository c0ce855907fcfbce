package repositories

import (
	"context"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	CreateTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to *time.Time) ([]*models.Payment, error)
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error)
	SumCompletedByInvoiceTx(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error)
	SumCompletedByInvoices(ctx context.Context, tenantID uuid.UUID, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	SumUnattributedCredits(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (decimal.Decimal, error)
	SumCompletedForPeriod(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, tenant_id, type, related_to, related_id, invoice_id, expense_id, amount, payment_method, payment_date, reference_number, status, created_at, updated_at`

const insertPaymentQuery = `
	INSERT INTO payments (id, tenant_id, type, related_to, related_id, invoice_id, expense_id, amount, payment_method, payment_date, reference_number, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
`

func scanPayment(row interface{ Scan(dest ...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.TenantID, &p.Type, &p.RelatedTo, &p.RelatedID, &p.InvoiceID, &p.ExpenseID, &p.Amount, &p.PaymentMethod, &p.PaymentDate, &p.ReferenceNumber, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func paymentArgs(p *models.Payment) []any {
	return []any{p.ID, p.TenantID, p.Type, p.RelatedTo, p.RelatedID, p.InvoiceID, p.ExpenseID, p.Amount, p.PaymentMethod, p.PaymentDate, p.ReferenceNumber, p.Status}
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	_, err := r.db.Exec(ctx, insertPaymentQuery, paymentArgs(payment)...)
	return err
}

func (r *paymentRepo) CreateTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	_, err := tx.Exec(ctx, insertPaymentQuery, paymentArgs(payment)...)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND id = $2`
	return scanPayment(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *paymentRepo) List(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to *time.Time) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE tenant_id = $1
		  AND ($2::text = '' OR related_to = $2)
		  AND ($3::uuid IS NULL OR related_id = $3)
		  AND ($4::timestamptz IS NULL OR payment_date >= $4)
		  AND ($5::timestamptz IS NULL OR payment_date <= $5)
		ORDER BY payment_date DESC
	`
	var relatedIDArg any
	if relatedID != uuid.Nil {
		relatedIDArg = relatedID
	}
	rows, err := r.db.Query(ctx, query, tenantID, relatedTo, relatedIDArg, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND invoice_id = $2 ORDER BY payment_date ASC`
	rows, err := r.db.Query(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SumCompletedByInvoiceTx reads inside the payment transaction, after the
// invoice row lock is held, so the remaining-balance check cannot race.
func (r *paymentRepo) SumCompletedByInvoiceTx(ctx context.Context, tx pgx.Tx, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2 AND status = 'completed'
	`
	var total decimal.Decimal
	err := tx.QueryRow(ctx, query, tenantID, invoiceID).Scan(&total)
	return total, err
}

// SumCompletedByInvoices totals completed payments per invoice in one query,
// keyed by invoice id. Invoices without payments are absent from the map.
func (r *paymentRepo) SumCompletedByInvoices(ctx context.Context, tenantID uuid.UUID, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return sums, nil
	}
	query := `
		SELECT invoice_id, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND invoice_id = ANY($2) AND status = 'completed'
		GROUP BY invoice_id
	`
	rows, err := r.db.Query(ctx, query, tenantID, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID uuid.UUID
		var total decimal.Decimal
		if err := rows.Scan(&invoiceID, &total); err != nil {
			return nil, err
		}
		sums[invoiceID] = total
	}
	return sums, rows.Err()
}

// SumUnattributedCredits totals completed payments recorded against a
// counterparty without an invoice reference. They reduce the running
// outstanding balance but are never allocated to specific invoices.
func (r *paymentRepo) SumUnattributedCredits(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND related_to = $2 AND related_id = $3
		  AND invoice_id IS NULL AND status = 'completed'
	`
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, tenantID, relatedTo, relatedID).Scan(&total)
	return total, err
}

func (r *paymentRepo) SumCompletedForPeriod(ctx context.Context, tenantID uuid.UUID, relatedTo string, relatedID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND related_to = $2 AND related_id = $3
		  AND status = 'completed'
		  AND payment_date >= $4 AND payment_date <= $5
	`
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, tenantID, relatedTo, relatedID, from, to).Scan(&total)
	return total, err
}
