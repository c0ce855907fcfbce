package repositories

import (
	"context"

	"tankbill/internal/models"

	"github.com/google/uuid"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Driver, error)
	Update(ctx context.Context, driver *models.Driver) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Driver, error)
}

type driverRepo struct {
	db DB
}

func NewDriverRepository(db DB) DriverRepository {
	return &driverRepo{db: db}
}

func (r *driverRepo) Create(ctx context.Context, driver *models.Driver) error {
	query := `
		INSERT INTO drivers (id, tenant_id, name, contact_phone, license_number, monthly_salary, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, driver.ID, driver.TenantID, driver.Name, driver.ContactPhone, driver.LicenseNumber, driver.MonthlySalary, driver.Status)
	return err
}

func (r *driverRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Driver, error) {
	driver := &models.Driver{}
	query := `
		SELECT id, tenant_id, name, contact_phone, license_number, monthly_salary, status, created_at, updated_at
		FROM drivers
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&driver.ID, &driver.TenantID, &driver.Name, &driver.ContactPhone, &driver.LicenseNumber, &driver.MonthlySalary, &driver.Status, &driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func (r *driverRepo) Update(ctx context.Context, driver *models.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, contact_phone = $2, license_number = $3, monthly_salary = $4, status = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, driver.Name, driver.ContactPhone, driver.LicenseNumber, driver.MonthlySalary, driver.Status, driver.TenantID, driver.ID)
	return err
}

func (r *driverRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM drivers WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *driverRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Driver, error) {
	query := `
		SELECT id, tenant_id, name, contact_phone, license_number, monthly_salary, status, created_at, updated_at
		FROM drivers
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		driver := &models.Driver{}
		if err := rows.Scan(&driver.ID, &driver.TenantID, &driver.Name, &driver.ContactPhone, &driver.LicenseNumber, &driver.MonthlySalary, &driver.Status, &driver.CreatedAt, &driver.UpdatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}
