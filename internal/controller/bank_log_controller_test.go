package controller

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func bankFixture() *dto.BankLogContext {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	return &dto.BankLogContext{
		BankAccount: &dto.BankAccountResponse{
			Id:             uuid.New(),
			CurrentBalance: decimal.RequireFromString("70"),
			LastUpdated:    now,
		},
		Transactions: []*dto.BankTransactionResponse{{
			Id:                      uuid.New(),
			TransactionType:         "DEBIT",
			TypeLabel:               "Debit",
			Amount:                  decimal.RequireFromString("30"),
			SignedAmount:            decimal.RequireFromString("-30"),
			Description:             "groceries",
			BalanceAfterTransaction: decimal.RequireFromString("70"),
			DateLogged:              now,
		}},
		Pagination: emptyPagination(),
		CurrentFilters: dto.TransactionFilterRequest{
			FilterMonthYear: "2025-03",
			SortBy:          "-date_logged",
			Page:            1,
			PageSize:        10,
		},
	}
}

func newBankApp(t *testing.T) (*fiber.App, *mockBankLog, *mockStatement) {
	app := newTestApp(t)
	bank := &mockBankLog{}
	statement := &mockStatement{}
	NewBankLogController(bank, statement, newTestFlasher(), time.UTC).RegisterRoutes(app, allowAll)
	return app, bank, statement
}

func TestBankLog_IndexJSON(t *testing.T) {
	app, bank, _ := newBankApp(t)
	bank.On("GetTransactionsContext", mock.Anything, mock.MatchedBy(func(f dto.TransactionFilterRequest) bool {
		return f.TransactionType == "DEBIT"
	})).Return(bankFixture(), nil)

	resp, body := do(t, app, http.MethodGet, "/bank-log/?transaction_type=DEBIT", asJSON)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeBody(t, body)["data"].(map[string]any)
	assert.Equal(t, "70", data["bank_account"].(map[string]any)["current_balance"])
	assert.Len(t, data["transactions"], 1)
	bank.AssertExpectations(t)
}

func TestBankLog_IndexRendersPageAndPartials(t *testing.T) {
	app, bank, _ := newBankApp(t)
	bank.On("GetTransactionsContext", mock.Anything, mock.Anything).Return(bankFixture(), nil)

	resp, body := do(t, app, http.MethodGet, "/bank-log/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bank Balance Log")
	assert.Contains(t, body, "tester")
	assert.Contains(t, body, "-30.00")

	_, body = do(t, app, http.MethodGet, "/bank-log/", asHTMX)
	assert.NotContains(t, body, "Bank Balance Log")
	assert.Contains(t, body, `id="current-balance"`)

	_, body = do(t, app, http.MethodGet, "/bank-log/?target_body=1", asHTMX)
	assert.NotContains(t, body, `id="current-balance"`)
	assert.Contains(t, body, "groceries")
}

func TestBankLog_SetBalanceRejectsNegative(t *testing.T) {
	app, bank, _ := newBankApp(t)

	resp, body := do(t, app, http.MethodPost, "/bank-log/set-balance/", asJSON,
		withBody(fiber.MIMEApplicationJSON, `{"initial_balance":"-5"}`))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, body)["errors"])
	bank.AssertNotCalled(t, "SetOrUpdateBalance", mock.Anything, mock.Anything)
}

func TestBankLog_SetBalanceHTMXNotifies(t *testing.T) {
	app, bank, _ := newBankApp(t)
	bank.On("SetOrUpdateBalance", mock.Anything, mock.Anything).Return(&dto.BankAccountResponse{
		CurrentBalance: decimal.RequireFromString("70"),
	}, nil)
	bank.On("GetTransactionsContext", mock.Anything, mock.Anything).Return(bankFixture(), nil)

	resp, body := do(t, app, http.MethodPost, "/bank-log/set-balance/", asHTMX,
		withBody(fiber.MIMEApplicationJSON, `{"initial_balance":"70"}`))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	trigger := resp.Header.Get(constant.HXTrigger)
	assert.Contains(t, trigger, constant.EventLedger)
	assert.Contains(t, trigger, constant.MsgBalanceUpdated)
	assert.Contains(t, body, `id="current-balance"`)
}

func TestBankLog_SaveNewMapsUnexpectedFailure(t *testing.T) {
	app, bank, _ := newBankApp(t)
	bank.On("RecordTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	resp, body := do(t, app, http.MethodPost, "/bank-log/transaction/save-new/", asJSON,
		withBody(fiber.MIMEApplicationJSON, `{"transaction_type":"DEBIT","amount":"10","description":"coffee"}`))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, constant.MsgTransactionFailed, decodeBody(t, body)["message"])
}

func TestBankLog_SaveNewKeepsAppError(t *testing.T) {
	app, bank, _ := newBankApp(t)
	bank.On("RecordTransaction", mock.Anything, mock.Anything).Return(nil, serverutils.ErrBadRequest)

	resp, _ := do(t, app, http.MethodPost, "/bank-log/transaction/save-new/", asJSON,
		withBody(fiber.MIMEApplicationJSON, `{"transaction_type":"DEBIT","amount":"10","description":"coffee"}`))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBankLog_SaveNewRendersRow(t *testing.T) {
	app, bank, _ := newBankApp(t)
	tx := bankFixture().Transactions[0]
	bank.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(req *dto.RecordTransactionRequest) bool {
		return req.Description == "groceries" && req.Amount.Equal(decimal.RequireFromString("30"))
	})).Return(tx, nil)

	resp, body := do(t, app, http.MethodPost, "/bank-log/transaction/save-new/", asHTMX,
		withBody(fiber.MIMEApplicationJSON, `{"transaction_type":"DEBIT","amount":"30","description":"groceries"}`))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "tx-"+tx.Id.String())
	assert.Contains(t, resp.Header.Get(constant.HXTrigger), constant.MsgTransactionRecorded)
}

func TestBankLog_AddFormAndCancel(t *testing.T) {
	app, _, _ := newBankApp(t)

	resp, body := do(t, app, http.MethodGet, "/bank-log/transaction/add-form/", asHTMX)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="tx-add-row"`)

	resp, body = do(t, app, http.MethodPost, "/bank-log/transaction/cancel-add/", asHTMX)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

func TestBankLog_Statement(t *testing.T) {
	app, _, statement := newBankApp(t)
	statement.On("MonthlyStatement", mock.Anything, mock.MatchedBy(func(m time.Time) bool {
		return m.Year() == 2025 && m.Month() == time.February
	})).Return([]byte("%PDF-1.3"), "statement_2025-02.pdf", nil)

	resp, body := do(t, app, http.MethodGet, "/bank-log/statement.pdf?month=2025-02")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "statement_2025-02.pdf")
	assert.Equal(t, "%PDF-1.3", body)

	resp, body = do(t, app, http.MethodGet, "/bank-log/statement.pdf?month=Feb", asJSON)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, constant.MsgStatementMonthInvalid, decodeBody(t, body)["message"])
}
