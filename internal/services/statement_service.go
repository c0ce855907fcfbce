package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"tankbill/internal/common"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// StatementServiceInterface exports counterparty account statements.
type StatementServiceInterface interface {
	SupplierStatementXLSX(ctx context.Context, tenantID, supplierID uuid.UUID) (*bytes.Buffer, string, error)
}

type statementService struct {
	reconciliation ReconciliationServiceInterface
	supplierSvc    SupplierServiceInterface
	collectionSvc  CollectionServiceInterface
}

// NewStatementService creates a new statement service instance
func NewStatementService(reconciliation ReconciliationServiceInterface, supplierSvc SupplierServiceInterface, collectionSvc CollectionServiceInterface) StatementServiceInterface {
	return &statementService{
		reconciliation: reconciliation,
		supplierSvc:    supplierSvc,
		collectionSvc:  collectionSvc,
	}
}

// SupplierStatementXLSX renders a supplier's account position as a
// spreadsheet: open invoices with balances, then collections awaiting an
// invoice.
func (s *statementService) SupplierStatementXLSX(ctx context.Context, tenantID, supplierID uuid.UUID) (*bytes.Buffer, string, error) {
	supplier, err := s.supplierSvc.GetSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, "", err
	}
	outstanding, err := s.reconciliation.SupplierOutstanding(ctx, tenantID, supplierID)
	if err != nil {
		return nil, "", err
	}
	unbilled, err := s.collectionSvc.ListUnbilledCollections(ctx, tenantID, supplierID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Statement"
	f.SetSheetName("Sheet1", sheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", common.SecureErrorMessage("build statement styles", err)
	}

	f.SetCellValue(sheet, "A1", "Supplier Statement")
	f.SetCellValue(sheet, "A2", supplier.Name)
	f.SetCellValue(sheet, "A3", fmt.Sprintf("As of %s", outstanding.AsOf.Format("02 Jan 2006")))
	f.SetCellValue(sheet, "A4", fmt.Sprintf("Outstanding: %s", outstanding.Outstanding.StringFixed(2)))
	f.SetCellStyle(sheet, "A1", "A1", bold)

	row := 6
	headers := []string{"Invoice", "Period", "Status", "Total", "Paid", "Balance", "Due Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}
	row++

	for _, inv := range outstanding.Invoices {
		period := fmt.Sprintf("%s - %s", inv.PeriodStart.Format("02 Jan"), inv.PeriodEnd.Format("02 Jan 2006"))
		values := []interface{}{
			inv.InvoiceNumber,
			period,
			inv.Status,
			inv.TotalAmount.StringFixed(2),
			inv.PaidAmount.StringFixed(2),
			inv.Balance.StringFixed(2),
			inv.DueDate.Format("02 Jan 2006"),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Unbilled Collections")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++

	tripHeaders := []string{"Date", "Quantity (L)", "Rate", "Amount"}
	for i, h := range tripHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}
	row++

	for _, c := range unbilled {
		values := []interface{}{
			c.OccurredAt.Format("02 Jan 2006"),
			c.QuantityLiters.StringFixed(0),
			c.PerLiterRate.StringFixed(4),
			c.TotalAmount.StringFixed(2),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Unbilled Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), outstanding.UnbilledAmount.StringFixed(2))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", common.SecureErrorMessage("write statement", err)
	}

	filename := fmt.Sprintf("statement-%s-%s.xlsx", supplier.Name, time.Now().Format("2006-01-02"))
	return buf, filename, nil
}
