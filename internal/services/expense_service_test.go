package services

import (
	"context"
	"testing"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockDriverRepo  *MockDriverRepository
	service         ExpenseServiceInterface
	tenantID        uuid.UUID
	driverID        uuid.UUID
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = &MockExpenseRepository{}
	suite.mockDriverRepo = &MockDriverRepository{}
	suite.service = NewExpenseService(suite.mockExpenseRepo, suite.mockDriverRepo)
	suite.tenantID = uuid.New()
	suite.driverID = uuid.New()
}

func (suite *ExpenseServiceTestSuite) TearDownTest() {
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockDriverRepo.AssertExpectations(suite.T())
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}

func (suite *ExpenseServiceTestSuite) expense(category, status, chargedTo string) *models.Expense {
	return &models.Expense{
		ID:         uuid.New(),
		TenantID:   suite.tenantID,
		DriverID:   suite.driverID,
		Category:   category,
		Amount:     decimal.RequireFromString("500.00"),
		ChargedTo:  chargedTo,
		Status:     status,
		OccurredAt: time.Now(),
	}
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_StartsPendingOnVendorAccount() {
	suite.mockDriverRepo.On("GetByID", mock.Anything, suite.tenantID, suite.driverID).Return(&models.Driver{ID: suite.driverID}, nil).Once()
	suite.mockExpenseRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	expense, err := suite.service.CreateExpense(context.Background(), suite.tenantID, &ExpenseInput{
		DriverID: suite.driverID,
		Category: "fuel",
		Amount:   decimal.RequireFromString("1500.00"),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "pending", expense.Status)
	assert.Equal(suite.T(), "vendor", expense.ChargedTo)
	assert.False(suite.T(), expense.OccurredAt.IsZero())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InvalidCategory() {
	_, err := suite.service.CreateExpense(context.Background(), suite.tenantID, &ExpenseInput{
		DriverID: suite.driverID,
		Category: "bribes",
		Amount:   decimal.RequireFromString("100.00"),
	})

	assert.Error(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RejectsZeroAmount() {
	_, err := suite.service.CreateExpense(context.Background(), suite.tenantID, &ExpenseInput{
		DriverID: suite.driverID,
		Category: "toll",
		Amount:   decimal.Zero,
	})

	assert.Error(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_FromPending() {
	expense := suite.expense("toll", "pending", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.Status == "approved"
	})).Return(nil).Once()

	err := suite.service.ApproveExpense(context.Background(), suite.tenantID, expense.ID)

	assert.NoError(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_AlreadyApproved() {
	expense := suite.expense("toll", "approved", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()

	err := suite.service.ApproveExpense(context.Background(), suite.tenantID, expense.ID)

	assert.ErrorIs(suite.T(), err, ErrInvalidExpenseState)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRejectExpense_FromPending() {
	expense := suite.expense("food", "pending", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.Status == "rejected"
	})).Return(nil).Once()

	err := suite.service.RejectExpense(context.Background(), suite.tenantID, expense.ID)

	assert.NoError(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_FuelNeverChargedToDriver() {
	expense := suite.expense("fuel", "approved", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()

	err := suite.service.AssignCharge(context.Background(), suite.tenantID, expense.ID, "driver")

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "fuel")
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_FuelBackToVendorAllowed() {
	expense := suite.expense("fuel", "approved", "driver")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.ChargedTo == "vendor"
	})).Return(nil).Once()

	err := suite.service.AssignCharge(context.Background(), suite.tenantID, expense.ID, "vendor")

	assert.NoError(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_ToDriver() {
	expense := suite.expense("maintenance", "approved", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.ChargedTo == "driver"
	})).Return(nil).Once()

	err := suite.service.AssignCharge(context.Background(), suite.tenantID, expense.ID, "driver")

	assert.NoError(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_BackToVendor() {
	expense := suite.expense("toll", "approved", "driver")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.ChargedTo == "vendor"
	})).Return(nil).Once()

	err := suite.service.AssignCharge(context.Background(), suite.tenantID, expense.ID, "vendor")

	assert.NoError(suite.T(), err)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_InvalidTarget() {
	err := suite.service.AssignCharge(context.Background(), suite.tenantID, uuid.New(), "society")

	assert.Error(suite.T(), err)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestAssignCharge_PaidRejected() {
	expense := suite.expense("toll", "paid", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()

	err := suite.service.AssignCharge(context.Background(), suite.tenantID, expense.ID, "driver")

	assert.ErrorIs(suite.T(), err, ErrInvalidExpenseState)
}

func (suite *ExpenseServiceTestSuite) TestAttachReceipt() {
	expense := suite.expense("toll", "pending", "vendor")

	suite.mockExpenseRepo.On("GetByID", mock.Anything, suite.tenantID, expense.ID).Return(expense, nil).Once()
	suite.mockExpenseRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Expense) bool {
		return e.ReceiptKey != nil && *e.ReceiptKey == "tenants/abc/receipt.jpg"
	})).Return(nil).Once()

	err := suite.service.AttachReceipt(context.Background(), suite.tenantID, expense.ID, "tenants/abc/receipt.jpg")

	assert.NoError(suite.T(), err)
}
