package repositories

import (
	"context"

	"tankbill/internal/models"

	"github.com/google/uuid"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vehicle, error)
}

type vehicleRepo struct {
	db DB
}

func NewVehicleRepository(db DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, tenant_id, registration_number, capacity_liters, driver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, vehicle.ID, vehicle.TenantID, vehicle.RegistrationNumber, vehicle.CapacityLiters, vehicle.DriverID, vehicle.Status)
	return err
}

func (r *vehicleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	query := `
		SELECT id, tenant_id, registration_number, capacity_liters, driver_id, status, created_at, updated_at
		FROM vehicles
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&vehicle.ID, &vehicle.TenantID, &vehicle.RegistrationNumber, &vehicle.CapacityLiters, &vehicle.DriverID, &vehicle.Status, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET registration_number = $1, capacity_liters = $2, driver_id = $3, status = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, vehicle.RegistrationNumber, vehicle.CapacityLiters, vehicle.DriverID, vehicle.Status, vehicle.TenantID, vehicle.ID)
	return err
}

func (r *vehicleRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *vehicleRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Vehicle, error) {
	query := `
		SELECT id, tenant_id, registration_number, capacity_liters, driver_id, status, created_at, updated_at
		FROM vehicles
		WHERE tenant_id = $1
		ORDER BY registration_number ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		vehicle := &models.Vehicle{}
		if err := rows.Scan(&vehicle.ID, &vehicle.TenantID, &vehicle.RegistrationNumber, &vehicle.CapacityLiters, &vehicle.DriverID, &vehicle.Status, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}
