package repositories

import (
	"context"

	"tankbill/internal/models"

	"github.com/google/uuid"
)

type SocietyRepository interface {
	Create(ctx context.Context, society *models.Society) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Society, error)
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*models.Society, error)
	Update(ctx context.Context, society *models.Society) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Society, error)
}

type societyRepo struct {
	db DB
}

func NewSocietyRepository(db DB) SocietyRepository {
	return &societyRepo{db: db}
}

const societyColumns = `id, tenant_id, name, contact_phone, address, rate_basis, nominal_rate, tax_percent, discount_percent, payment_terms_days, created_at, updated_at`

func scanSociety(row interface{ Scan(dest ...any) error }) (*models.Society, error) {
	s := &models.Society{}
	err := row.Scan(&s.ID, &s.TenantID, &s.Name, &s.ContactPhone, &s.Address, &s.RateBasis, &s.NominalRate, &s.TaxPercent, &s.DiscountPercent, &s.PaymentTermsDays, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *societyRepo) Create(ctx context.Context, society *models.Society) error {
	query := `
		INSERT INTO societies (id, tenant_id, name, contact_phone, address, rate_basis, nominal_rate, tax_percent, discount_percent, payment_terms_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, society.ID, society.TenantID, society.Name, society.ContactPhone, society.Address, society.RateBasis, society.NominalRate, society.TaxPercent, society.DiscountPercent, society.PaymentTermsDays)
	return err
}

func (r *societyRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies WHERE tenant_id = $1 AND id = $2`
	return scanSociety(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *societyRepo) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies WHERE tenant_id = $1 AND name = $2`
	return scanSociety(r.db.QueryRow(ctx, query, tenantID, name))
}

func (r *societyRepo) Update(ctx context.Context, society *models.Society) error {
	query := `
		UPDATE societies
		SET name = $1, contact_phone = $2, address = $3, rate_basis = $4, nominal_rate = $5, tax_percent = $6, discount_percent = $7, payment_terms_days = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10
	`
	_, err := r.db.Exec(ctx, query, society.Name, society.ContactPhone, society.Address, society.RateBasis, society.NominalRate, society.TaxPercent, society.DiscountPercent, society.PaymentTermsDays, society.TenantID, society.ID)
	return err
}

func (r *societyRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM societies WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *societyRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies WHERE tenant_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var societies []*models.Society
	for rows.Next() {
		s, err := scanSociety(rows)
		if err != nil {
			return nil, err
		}
		societies = append(societies, s)
	}
	return societies, rows.Err()
}
