package repositories

import (
	"context"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Expense, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, status string) error
	List(ctx context.Context, tenantID uuid.UUID, driverID *uuid.UUID, status *string, limit, offset int) ([]*models.Expense, error)
}

type expenseRepo struct {
	db DB
}

func NewExpenseRepository(db DB) ExpenseRepository {
	return &expenseRepo{db: db}
}

const expenseColumns = `id, tenant_id, driver_id, vehicle_id, category, amount, charged_to, status, receipt_key, description, occurred_at, created_at, updated_at`

func scanExpense(row interface{ Scan(dest ...any) error }) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.TenantID, &e.DriverID, &e.VehicleID, &e.Category, &e.Amount, &e.ChargedTo, &e.Status, &e.ReceiptKey, &e.Description, &e.OccurredAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, tenant_id, driver_id, vehicle_id, category, amount, charged_to, status, receipt_key, description, occurred_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, expense.ID, expense.TenantID, expense.DriverID, expense.VehicleID, expense.Category, expense.Amount, expense.ChargedTo, expense.Status, expense.ReceiptKey, expense.Description, expense.OccurredAt)
	return err
}

func (r *expenseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1 AND id = $2`
	return scanExpense(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetByIDForUpdate locks the expense row so the approve/pay transition cannot
// race a concurrent payout.
func (r *expenseRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return scanExpense(tx.QueryRow(ctx, query, tenantID, id))
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET category = $1, amount = $2, charged_to = $3, status = $4, receipt_key = $5, description = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, expense.Category, expense.Amount, expense.ChargedTo, expense.Status, expense.ReceiptKey, expense.Description, expense.TenantID, expense.ID)
	return err
}

func (r *expenseRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE expenses SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := tx.Exec(ctx, query, status, tenantID, id)
	return err
}

func (r *expenseRepo) List(ctx context.Context, tenantID uuid.UUID, driverID *uuid.UUID, status *string, limit, offset int) ([]*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE tenant_id = $1
		  AND ($2::uuid IS NULL OR driver_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY occurred_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, tenantID, driverID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
