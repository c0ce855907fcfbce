package services

import (
	"context"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
)

// SocietyServiceInterface defines the interface for society service operations
type SocietyServiceInterface interface {
	CreateSociety(ctx context.Context, tenantID uuid.UUID, society *models.Society) error
	GetSocietyByID(ctx context.Context, tenantID, societyID uuid.UUID) (*models.Society, error)
	UpdateSociety(ctx context.Context, tenantID uuid.UUID, society *models.Society) error
	DeleteSociety(ctx context.Context, tenantID, societyID uuid.UUID) error
	ListSocieties(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Society, error)
}

type societyService struct {
	societyRepo repositories.SocietyRepository
}

// NewSocietyService creates a new society service instance
func NewSocietyService(societyRepo repositories.SocietyRepository) SocietyServiceInterface {
	return &societyService{societyRepo: societyRepo}
}

func (s *societyService) CreateSociety(ctx context.Context, tenantID uuid.UUID, society *models.Society) error {
	if err := common.ValidateRequiredString(society.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRateBasis(society.RateBasis); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(society.NominalRate, "nominal rate"); err != nil {
		return err
	}

	if society.ID == uuid.Nil {
		society.ID = uuid.New()
	}
	society.TenantID = tenantID
	if society.PaymentTermsDays <= 0 {
		society.PaymentTermsDays = 30
	}

	if err := s.societyRepo.Create(ctx, society); err != nil {
		return common.SecureErrorMessage("create society", err)
	}
	return nil
}

func (s *societyService) GetSocietyByID(ctx context.Context, tenantID, societyID uuid.UUID) (*models.Society, error) {
	society, err := s.societyRepo.GetByID(ctx, tenantID, societyID)
	if err != nil {
		return nil, common.SecureErrorMessage("get society", err)
	}
	return society, nil
}

func (s *societyService) UpdateSociety(ctx context.Context, tenantID uuid.UUID, society *models.Society) error {
	if err := common.ValidateRateBasis(society.RateBasis); err != nil {
		return err
	}
	society.TenantID = tenantID
	if err := s.societyRepo.Update(ctx, society); err != nil {
		return common.SecureErrorMessage("update society", err)
	}
	return nil
}

func (s *societyService) DeleteSociety(ctx context.Context, tenantID, societyID uuid.UUID) error {
	if err := s.societyRepo.Delete(ctx, tenantID, societyID); err != nil {
		return common.SecureErrorMessage("delete society", err)
	}
	return nil
}

func (s *societyService) ListSocieties(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Society, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	societies, err := s.societyRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list societies", err)
	}
	return societies, nil
}
