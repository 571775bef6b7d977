package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/entity"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/repository/specification"
	"expense-log-be/internal/repository/unitofwork"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

type IStatementService interface {
	// MonthlyStatement renders the month's transactions as a PDF and
	// returns it with a download file name.
	MonthlyStatement(ctx context.Context, month time.Time) ([]byte, string, error)
}

type statementService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewStatementService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IStatementService {
	return &statementService{uowFactory: uowFactory, logger: log}
}

type statementData struct {
	Month        time.Time
	Opening      decimal.Decimal
	Closing      decimal.Decimal
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	Transactions []*entity.BankTransaction
}

func (s *statementService) MonthlyStatement(ctx context.Context, month time.Time) ([]byte, string, error) {
	data, err := s.collect(ctx, entity.MonthStart(month))
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := buildStatementPDF(data)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(logger.ModuleLedger, "Statement generated", map[string]interface{}{
		"month":        data.Month.Format(constant.MonthLayout),
		"transactions": len(data.Transactions),
	})

	filename := fmt.Sprintf("statement_%s.pdf", data.Month.Format(constant.MonthLayout))
	return pdfBytes, filename, nil
}

// collect walks the month in posting order, since balance_after_transaction
// follows posting order rather than the logged date.
func (s *statementService) collect(ctx context.Context, month time.Time) (*statementData, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BankTransactionRepository()

	txs, err := repo.FindAll(ctx,
		specification.LoggedInMonth{Month: month},
		specification.OrderByKeys{Keys: []string{"created_at"}},
	)
	if err != nil {
		return nil, err
	}

	data := &statementData{
		Month:        month,
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
		Transactions: txs,
	}

	if len(txs) > 0 {
		first := txs[0]
		data.Opening = first.BalanceAfterTransaction.Sub(first.SignedAmount())
		data.Closing = txs[len(txs)-1].BalanceAfterTransaction
	} else {
		previous, err := repo.FindOne(ctx,
			specification.LoggedBetween{From: time.Time{}, To: month},
			specification.OrderByKeys{Keys: []string{"-created_at"}},
		)
		if err != nil {
			return nil, err
		}
		if previous != nil {
			data.Opening = previous.BalanceAfterTransaction
		}
		data.Closing = data.Opening
	}

	for _, tx := range txs {
		if tx.TransactionType == entity.TransactionTypeDebit {
			data.TotalDebit = data.TotalDebit.Add(tx.Amount)
		} else {
			data.TotalCredit = data.TotalCredit.Add(tx.Amount)
		}
	}
	return data, nil
}

func buildStatementPDF(d *statementData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bank Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Bank Statement")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, d.Month.Format(constant.DisplayMonth))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Opening balance : "+d.Opening.StringFixed(2))
	pdf.Ln(8)

	widths := []float64{28, 20, 82, 30, 30}
	headers := []string{"Date", "Type", "Description", "Amount", "Balance"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "L"
		if i >= 3 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(d.Transactions) == 0 {
		pdf.CellFormat(sum(widths), 7, "No transactions this month.", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, tx := range d.Transactions {
		pdf.CellFormat(widths[0], 7, tx.DateLogged.Format(constant.DateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tx.TransactionType.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, truncate(tx.Description, 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, tx.SignedAmount().StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, tx.BalanceAfterTransaction.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Total debits    : "+d.TotalDebit.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total credits   : "+d.TotalCredit.StringFixed(2))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Closing balance : "+d.Closing.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
