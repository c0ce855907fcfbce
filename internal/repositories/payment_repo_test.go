package repositories

import (
	"context"
	"testing"
	"time"

	"tankbill/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      PaymentRepository
	tenantID  uuid.UUID
	invoiceID uuid.UUID
	context   context.Context
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPaymentRepository(mock)
	suite.tenantID = uuid.New()
	suite.invoiceID = uuid.New()
	suite.context = context.Background()
}

func (suite *PaymentRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func (suite *PaymentRepoTestSuite) paymentRow(p *models.Payment) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "tenant_id", "type", "related_to", "related_id", "invoice_id", "expense_id", "amount", "payment_method", "payment_date", "reference_number", "status", "created_at", "updated_at"}).
		AddRow(p.ID, p.TenantID, p.Type, p.RelatedTo, p.RelatedID, p.InvoiceID, p.ExpenseID, p.Amount, p.PaymentMethod, p.PaymentDate, p.ReferenceNumber, p.Status, p.CreatedAt, p.UpdatedAt)
}

func (suite *PaymentRepoTestSuite) TestCreate_Success() {
	payment := &models.Payment{
		ID:            uuid.New(),
		TenantID:      suite.tenantID,
		Type:          "purchase",
		RelatedTo:     "supplier",
		RelatedID:     uuid.New(),
		InvoiceID:     &suite.invoiceID,
		Amount:        decimal.RequireFromString("4000.00"),
		PaymentMethod: "bank_transfer",
		PaymentDate:   time.Now(),
		Status:        "completed",
	}

	suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.TenantID, payment.Type, payment.RelatedTo, payment.RelatedID, payment.InvoiceID, payment.ExpenseID, payment.Amount, payment.PaymentMethod, payment.PaymentDate, payment.ReferenceNumber, payment.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, payment)
	assert.NoError(suite.T(), err)
}

func (suite *PaymentRepoTestSuite) TestGetByID_Success() {
	payment := &models.Payment{
		ID:            uuid.New(),
		TenantID:      suite.tenantID,
		Type:          "delivery",
		RelatedTo:     "society",
		RelatedID:     uuid.New(),
		Amount:        decimal.RequireFromString("2500.00"),
		PaymentMethod: "upi",
		PaymentDate:   time.Now(),
		Status:        "completed",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	suite.mock.ExpectQuery(`SELECT (.+) FROM payments WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, payment.ID).
		WillReturnRows(suite.paymentRow(payment))

	got, err := suite.repo.GetByID(suite.context, suite.tenantID, payment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), payment.ID, got.ID)
	assert.True(suite.T(), got.Amount.Equal(payment.Amount))
	assert.Nil(suite.T(), got.InvoiceID)
}

func (suite *PaymentRepoTestSuite) TestGetByID_WrongTenantNoRows() {
	paymentID := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM payments WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(suite.tenantID, paymentID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, suite.tenantID, paymentID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *PaymentRepoTestSuite) TestListByInvoice_OrderedByPaymentDate() {
	first := &models.Payment{
		ID: uuid.New(), TenantID: suite.tenantID, Type: "purchase", RelatedTo: "supplier", RelatedID: uuid.New(),
		InvoiceID: &suite.invoiceID, Amount: decimal.RequireFromString("1000.00"), PaymentMethod: "cash",
		PaymentDate: time.Now().AddDate(0, 0, -2), Status: "completed",
	}
	second := &models.Payment{
		ID: uuid.New(), TenantID: suite.tenantID, Type: "purchase", RelatedTo: "supplier", RelatedID: first.RelatedID,
		InvoiceID: &suite.invoiceID, Amount: decimal.RequireFromString("500.00"), PaymentMethod: "upi",
		PaymentDate: time.Now(), Status: "completed",
	}

	rows := suite.paymentRow(first).
		AddRow(second.ID, second.TenantID, second.Type, second.RelatedTo, second.RelatedID, second.InvoiceID, second.ExpenseID, second.Amount, second.PaymentMethod, second.PaymentDate, second.ReferenceNumber, second.Status, second.CreatedAt, second.UpdatedAt)

	suite.mock.ExpectQuery(`SELECT (.+) FROM payments WHERE tenant_id = \$1 AND invoice_id = \$2 ORDER BY payment_date ASC`).
		WithArgs(suite.tenantID, suite.invoiceID).
		WillReturnRows(rows)

	payments, err := suite.repo.ListByInvoice(suite.context, suite.tenantID, suite.invoiceID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payments, 2)
	assert.Equal(suite.T(), first.ID, payments[0].ID)
}

func (suite *PaymentRepoTestSuite) TestSumUnattributedCredits() {
	relatedID := uuid.New()

	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
		WithArgs(suite.tenantID, "supplier", relatedID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("1500.00")))

	total, err := suite.repo.SumUnattributedCredits(suite.context, suite.tenantID, "supplier", relatedID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.RequireFromString("1500.00")))
}

func (suite *PaymentRepoTestSuite) TestSumCompletedByInvoices_EmptyIDsShortCircuits() {
	sums, err := suite.repo.SumCompletedByInvoices(suite.context, suite.tenantID, nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), sums)
}

func (suite *PaymentRepoTestSuite) TestSumCompletedByInvoices_GroupsByInvoice() {
	first := uuid.New()
	second := uuid.New()
	ids := []uuid.UUID{first, second}

	suite.mock.ExpectQuery(`SELECT invoice_id, COALESCE\(SUM\(amount\), 0\)`).
		WithArgs(suite.tenantID, ids).
		WillReturnRows(pgxmock.NewRows([]string{"invoice_id", "sum"}).
			AddRow(first, decimal.RequireFromString("4000.00")).
			AddRow(second, decimal.RequireFromString("5000.00")))

	sums, err := suite.repo.SumCompletedByInvoices(suite.context, suite.tenantID, ids)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sums, 2)
	assert.True(suite.T(), sums[first].Equal(decimal.RequireFromString("4000.00")))
	assert.True(suite.T(), sums[second].Equal(decimal.RequireFromString("5000.00")))
}
