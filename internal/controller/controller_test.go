package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/view"
	"expense-log-be/pkg/listing"
	"expense-log-be/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBankLog struct{ mock.Mock }

func (m *mockBankLog) SetOrUpdateBalance(ctx context.Context, req *dto.SetBalanceRequest) (*dto.BankAccountResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.BankAccountResponse)
	return res, args.Error(1)
}

func (m *mockBankLog) GetAccount(ctx context.Context) (*dto.BankAccountResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.BankAccountResponse)
	return res, args.Error(1)
}

func (m *mockBankLog) RecordTransaction(ctx context.Context, req *dto.RecordTransactionRequest) (*dto.BankTransactionResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.BankTransactionResponse)
	return res, args.Error(1)
}

func (m *mockBankLog) GetTransactionsContext(ctx context.Context, filter dto.TransactionFilterRequest) (*dto.BankLogContext, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*dto.BankLogContext)
	return res, args.Error(1)
}

func (m *mockBankLog) LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error) {
	args := m.Called(ctx, n)
	res, _ := args.Get(0).([]dto.DateFilterItem)
	return res, args.Error(1)
}

type mockMonthLog struct{ mock.Mock }

func (m *mockMonthLog) SetOrUpdateSalary(ctx context.Context, req *dto.SetSalaryRequest) (*dto.MonthlySalaryResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.MonthlySalaryResponse)
	return res, args.Error(1)
}

func (m *mockMonthLog) GetSalary(ctx context.Context, date time.Time) (*dto.MonthlySalaryResponse, error) {
	args := m.Called(ctx, date)
	res, _ := args.Get(0).(*dto.MonthlySalaryResponse)
	return res, args.Error(1)
}

func (m *mockMonthLog) GetExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*dto.ExpenseResponse)
	return res, args.Error(1)
}

func (m *mockMonthLog) AddExpense(ctx context.Context, req *dto.CreateExpenseRequest) (*dto.ExpenseChangeResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.ExpenseChangeResult)
	return res, args.Error(1)
}

func (m *mockMonthLog) UpdateExpense(ctx context.Context, id uuid.UUID, req *dto.UpdateExpenseRequest) (*dto.ExpenseChangeResult, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*dto.ExpenseChangeResult)
	return res, args.Error(1)
}

func (m *mockMonthLog) DeleteExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseChangeResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*dto.ExpenseChangeResult)
	return res, args.Error(1)
}

func (m *mockMonthLog) GetMonthlyLogContext(ctx context.Context, filter dto.ExpenseFilterRequest) (*dto.MonthlyLogContext, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*dto.MonthlyLogContext)
	return res, args.Error(1)
}

func (m *mockMonthLog) LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error) {
	args := m.Called(ctx, n)
	res, _ := args.Get(0).([]dto.DateFilterItem)
	return res, args.Error(1)
}

type mockStatement struct{ mock.Mock }

func (m *mockStatement) MonthlyStatement(ctx context.Context, month time.Time) ([]byte, string, error) {
	args := m.Called(ctx, month)
	pdf, _ := args.Get(0).([]byte)
	return pdf, args.String(1), args.Error(2)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.LoginResponse)
	return res, args.Error(1)
}

// newTestApp mirrors the server setup with templates from the embedded tree
// and an auth step that always signs in "tester".
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	renderer, err := view.NewRenderer(web.TemplatesFS)
	require.NoError(t, err)

	return fiber.New(fiber.Config{
		Views:        renderer,
		ErrorHandler: serverutils.NewErrorHandler(logger.NewNopLogger()),
	})
}

func allowAll(ctx *fiber.Ctx) error {
	ctx.Locals("username", "tester")
	return ctx.Next()
}

func newTestFlasher() *Flasher {
	return NewFlasher(memory.NewFlashRepository[serverutils.Message](time.Minute), false)
}

type requestOption func(*http.Request)

func asJSON(req *http.Request) {
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
}

func asHTMX(req *http.Request) {
	req.Header.Set("HX-Request", "true")
}

func withBody(contentType, body string) requestOption {
	return func(req *http.Request) {
		req.Body = io.NopCloser(strings.NewReader(body))
		req.ContentLength = int64(len(body))
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
}

func do(t *testing.T, app *fiber.App, method, target string, opts ...requestOption) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, opt := range opts {
		opt(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func emptyPagination() listing.Pagination {
	return listing.Paginate(0, 1, 10)
}
