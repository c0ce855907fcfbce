package services

import (
	"context"
	"fmt"
	"time"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseServiceInterface defines the interface for expense service operations
type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, tenantID uuid.UUID, input *ExpenseInput) (*models.Expense, error)
	GetExpenseByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*models.Expense, error)
	ListExpenses(ctx context.Context, tenantID uuid.UUID, driverID *uuid.UUID, status *string, limit, offset int) ([]*models.Expense, error)
	ApproveExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error
	RejectExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error
	AssignCharge(ctx context.Context, tenantID, expenseID uuid.UUID, chargedTo string) error
	AttachReceipt(ctx context.Context, tenantID, expenseID uuid.UUID, receiptKey string) error
}

// ExpenseInput is a driver's submitted expense claim.
type ExpenseInput struct {
	DriverID    uuid.UUID
	VehicleID   *uuid.UUID
	Category    string
	Amount      decimal.Decimal
	Description *string
	OccurredAt  time.Time
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
	driverRepo  repositories.DriverRepository
}

// NewExpenseService creates a new expense service instance
func NewExpenseService(expenseRepo repositories.ExpenseRepository, driverRepo repositories.DriverRepository) ExpenseServiceInterface {
	return &expenseService{
		expenseRepo: expenseRepo,
		driverRepo:  driverRepo,
	}
}

// CreateExpense records a driver-submitted claim in pending state. Every
// expense starts charged to the vendor; charge-back to the driver is a
// separate, reviewed step.
func (s *expenseService) CreateExpense(ctx context.Context, tenantID uuid.UUID, input *ExpenseInput) (*models.Expense, error) {
	if err := common.ValidateExpenseCategory(input.Category); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveAmount(input.Amount, "amount"); err != nil {
		return nil, err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	if _, err := s.driverRepo.GetByID(ctx, tenantID, input.DriverID); err != nil {
		return nil, common.SecureErrorMessage("load driver", err)
	}

	expense := &models.Expense{
		ID:          uuid.New(),
		TenantID:    tenantID,
		DriverID:    input.DriverID,
		VehicleID:   input.VehicleID,
		Category:    input.Category,
		Amount:      input.Amount,
		ChargedTo:   "vendor",
		Status:      "pending",
		Description: input.Description,
		OccurredAt:  input.OccurredAt,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, common.SecureErrorMessage("create expense", err)
	}
	return expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, tenantID, expenseID uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil {
		return nil, common.SecureErrorMessage("get expense", err)
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, tenantID uuid.UUID, driverID *uuid.UUID, status *string, limit, offset int) ([]*models.Expense, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	expenses, err := s.expenseRepo.List(ctx, tenantID, driverID, status, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list expenses", err)
	}
	return expenses, nil
}

// ApproveExpense moves a pending expense to approved. Only approved expenses
// can be reimbursed.
func (s *expenseService) ApproveExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	return s.transition(ctx, tenantID, expenseID, "pending", "approved")
}

func (s *expenseService) RejectExpense(ctx context.Context, tenantID, expenseID uuid.UUID) error {
	return s.transition(ctx, tenantID, expenseID, "pending", "rejected")
}

func (s *expenseService) transition(ctx context.Context, tenantID, expenseID uuid.UUID, from, to string) error {
	expense, err := s.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil {
		return common.SecureErrorMessage("get expense", err)
	}
	if expense.Status != from {
		return fmt.Errorf("%w: expense is %s, expected %s", ErrInvalidExpenseState, expense.Status, from)
	}

	expense.Status = to
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return common.SecureErrorMessage("update expense", err)
	}
	return nil
}

// AssignCharge moves an expense between the vendor's account and the
// driver's. Fuel is the vendor's operating cost and can never be charged to
// the driver.
func (s *expenseService) AssignCharge(ctx context.Context, tenantID, expenseID uuid.UUID, chargedTo string) error {
	if chargedTo != "vendor" && chargedTo != "driver" {
		return fmt.Errorf("charged_to must be vendor or driver")
	}

	expense, err := s.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil {
		return common.SecureErrorMessage("get expense", err)
	}
	if chargedTo == "driver" && expense.Category == "fuel" {
		return fmt.Errorf("fuel expenses cannot be charged to the driver")
	}
	if expense.Status == "paid" {
		return fmt.Errorf("%w: expense is already paid", ErrInvalidExpenseState)
	}

	expense.ChargedTo = chargedTo
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return common.SecureErrorMessage("update expense", err)
	}
	return nil
}

func (s *expenseService) AttachReceipt(ctx context.Context, tenantID, expenseID uuid.UUID, receiptKey string) error {
	expense, err := s.expenseRepo.GetByID(ctx, tenantID, expenseID)
	if err != nil {
		return common.SecureErrorMessage("get expense", err)
	}
	expense.ReceiptKey = &receiptKey
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return common.SecureErrorMessage("update expense", err)
	}
	return nil
}
