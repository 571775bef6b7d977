package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/entity"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/repository/specification"
	"expense-log-be/internal/repository/unitofwork"
	"expense-log-be/pkg/events"
	"expense-log-be/pkg/listing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNoUpdateData = serverutils.NewAppError(fiber.StatusBadRequest, constant.MsgNoUpdateData)

var DefaultExpenseSorting = []string{"-date_logged", "-created_at"}

var expenseSortFields = map[string]struct{}{
	"date_logged": {},
	"created_at":  {},
	"amount":      {},
	"description": {},
}

type IMonthLogService interface {
	SetOrUpdateSalary(ctx context.Context, req *dto.SetSalaryRequest) (*dto.MonthlySalaryResponse, error)
	GetSalary(ctx context.Context, date time.Time) (*dto.MonthlySalaryResponse, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error)
	AddExpense(ctx context.Context, req *dto.CreateExpenseRequest) (*dto.ExpenseChangeResult, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, req *dto.UpdateExpenseRequest) (*dto.ExpenseChangeResult, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseChangeResult, error)
	GetMonthlyLogContext(ctx context.Context, filter dto.ExpenseFilterRequest) (*dto.MonthlyLogContext, error)
	LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error)
}

type monthLogService struct {
	uowFactory unitofwork.RepositoryFactory
	ledger     IBankLogService
	publisher  IPublisherService
	dateCache  *memory.DateCache
	location   *time.Location
	logger     logger.ILogger
	now        func() time.Time
}

func NewMonthLogService(
	uowFactory unitofwork.RepositoryFactory,
	ledger IBankLogService,
	publisher IPublisherService,
	dateCache *memory.DateCache,
	location *time.Location,
	log logger.ILogger,
) IMonthLogService {
	return &monthLogService{
		uowFactory: uowFactory,
		ledger:     ledger,
		publisher:  publisher,
		dateCache:  dateCache,
		location:   location,
		logger:     log,
		now:        time.Now,
	}
}

func (s *monthLogService) SetOrUpdateSalary(ctx context.Context, req *dto.SetSalaryRequest) (*dto.MonthlySalaryResponse, error) {
	if !req.SalaryAmount.IsPositive() {
		return nil, ErrBadRequest.Wrap(fmt.Errorf("salary must be positive"))
	}
	month, err := parseMonth(req.MonthYear, s.location)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	salary := &entity.MonthlySalary{
		Id:           uuid.New(),
		SalaryAmount: req.SalaryAmount,
		MonthYear:    month,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MonthlySalaryRepository().Upsert(ctx, salary); err != nil {
		return nil, err
	}

	s.logger.Info(logger.ModuleMonthLog, "Monthly salary set", map[string]interface{}{
		"month":  month.Format(constant.MonthLayout),
		"amount": salary.SalaryAmount.StringFixed(2),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, logger.ModuleMonthLog, events.New(events.SalarySet, map[string]interface{}{
		"month_year":    month.Format(constant.MonthLayout),
		"salary_amount": salary.SalaryAmount.StringFixed(2),
	}))

	return toMonthlySalaryResponse(salary), nil
}

func (s *monthLogService) GetSalary(ctx context.Context, date time.Time) (*dto.MonthlySalaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	salary, err := uow.MonthlySalaryRepository().FindOne(ctx, specification.ByMonthYear{Month: date})
	if err != nil {
		return nil, err
	}
	if salary == nil {
		return nil, nil
	}
	return toMonthlySalaryResponse(salary), nil
}

func (s *monthLogService) GetExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	expense, err := uow.ExpenseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrNotFound.Wrap(fmt.Errorf("expense %s", id))
	}
	return toExpenseResponse(expense, nil), nil
}

// AddExpense stores the expense and mirrors it as a bank debit. When the
// debit fails the expense is deleted again.
func (s *monthLogService) AddExpense(ctx context.Context, req *dto.CreateExpenseRequest) (*dto.ExpenseChangeResult, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrBadRequest.Wrap(fmt.Errorf("amount must be positive"))
	}
	description := strings.TrimSpace(req.Description)
	if description == "" || utf8.RuneCountInString(description) > constant.MaxDescriptionLength {
		return nil, ErrBadRequest.Wrap(fmt.Errorf("description must be 1 to 255 characters"))
	}

	now := s.now().In(s.location)
	loggedAt, err := parseLoggedAt(req.DateLogged, now, s.location)
	if err != nil {
		return nil, err
	}

	expense := &entity.Expense{
		Id:          uuid.New(),
		Amount:      req.Amount,
		Description: description,
		DateLogged:  loggedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ExpenseRepository().Create(ctx, expense); err != nil {
		return nil, err
	}

	_, err = s.ledger.RecordTransaction(ctx, &dto.RecordTransactionRequest{
		TransactionType: string(entity.TransactionTypeDebit),
		Amount:          expense.Amount,
		Description:     ledgerDescription(constant.ExpenseDebitDescriptionFormat, expense.Description),
		DateLogged:      expense.DateLogged.Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error(logger.ModuleMonthLog, "Bank debit for expense failed, rolling back", map[string]interface{}{
			"expense_id": expense.Id.String(),
			"error":      err.Error(),
		})
		if delErr := uow.ExpenseRepository().Delete(ctx, expense.Id); delErr != nil {
			s.logger.Error(logger.ModuleMonthLog, "Expense compensation failed", map[string]interface{}{
				"expense_id": expense.Id.String(),
				"error":      delErr.Error(),
			})
		}
		return nil, &serverutils.AppError{
			Code:    fiber.StatusInternalServerError,
			Message: fmt.Sprintf(constant.MsgExpenseBankFailedFormat, err.Error()),
			Err:     err,
		}
	}

	s.expenseChanged(ctx, "created", expense)
	return &dto.ExpenseChangeResult{
		Expense: toExpenseResponse(expense, nil),
		Message: constant.MsgExpenseAdded,
	}, nil
}

func (s *monthLogService) UpdateExpense(ctx context.Context, id uuid.UUID, req *dto.UpdateExpenseRequest) (*dto.ExpenseChangeResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	expense, err := uow.ExpenseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrNotFound.Wrap(fmt.Errorf("expense %s", id))
	}
	if req.IsEmpty() {
		return nil, ErrNoUpdateData
	}

	var warnings []string
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrBadRequest.Wrap(fmt.Errorf("amount must be positive"))
		}
		if !req.Amount.Equal(expense.Amount) {
			warnings = append(warnings, constant.MsgExpenseAmountChanged)
		}
		expense.Amount = *req.Amount
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" || utf8.RuneCountInString(description) > constant.MaxDescriptionLength {
			return nil, ErrBadRequest.Wrap(fmt.Errorf("description must be 1 to 255 characters"))
		}
		expense.Description = description
	}
	if req.DateLogged != nil {
		loggedAt, err := parseLoggedAt(*req.DateLogged, expense.DateLogged, s.location)
		if err != nil {
			return nil, err
		}
		if !loggedAt.Equal(expense.DateLogged) {
			warnings = append(warnings, constant.MsgExpenseDateChanged)
		}
		expense.DateLogged = loggedAt
	}
	expense.UpdatedAt = s.now().In(s.location)

	if err := uow.ExpenseRepository().Update(ctx, expense); err != nil {
		return nil, err
	}

	s.expenseChanged(ctx, "updated", expense)

	result := &dto.ExpenseChangeResult{
		Expense: toExpenseResponse(expense, nil),
		Message: constant.MsgExpenseUpdated,
	}
	if len(warnings) > 0 {
		result.Message = strings.Join(warnings, " ")
		result.Warning = true
	}
	return result, nil
}

// DeleteExpense removes the expense and credits its amount back. A failed
// credit does not undo the delete; it is reported as a warning.
func (s *monthLogService) DeleteExpense(ctx context.Context, id uuid.UUID) (*dto.ExpenseChangeResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	expense, err := uow.ExpenseRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrNotFound.Wrap(fmt.Errorf("expense %s", id))
	}

	if err := uow.ExpenseRepository().Delete(ctx, expense.Id); err != nil {
		return nil, err
	}
	s.expenseChanged(ctx, "deleted", expense)

	_, err = s.ledger.RecordTransaction(ctx, &dto.RecordTransactionRequest{
		TransactionType: string(entity.TransactionTypeCredit),
		Amount:          expense.Amount,
		Description:     ledgerDescription(constant.ExpenseReversalDescriptionFormat, expense.Description),
	})
	if err != nil {
		s.logger.Warn(logger.ModuleMonthLog, "Bank credit for deleted expense failed", map[string]interface{}{
			"expense_id": expense.Id.String(),
			"error":      err.Error(),
		})
		return &dto.ExpenseChangeResult{
			Message: fmt.Sprintf(constant.MsgExpenseCreditFailed, err.Error()),
			Warning: true,
		}, nil
	}

	return &dto.ExpenseChangeResult{Message: constant.MsgExpenseDeleted}, nil
}

func (s *monthLogService) GetMonthlyLogContext(ctx context.Context, filter dto.ExpenseFilterRequest) (*dto.MonthlyLogContext, error) {
	now := s.now().In(s.location)
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)

	// The listed period drives the page, the total spent and the summary.
	var (
		period      specification.Specification
		targetMonth time.Time
		byDay       bool
	)
	if day, err := time.ParseInLocation(constant.DateLayout, filter.FilterDate, s.location); filter.FilterDate != "" && err == nil {
		byDay = true
		filter.FilterMonthYear = ""
		period = specification.LoggedOn{Day: day}
		targetMonth = entity.MonthStart(day)
	} else {
		filter.FilterDate = ""
		month, err := parseMonth(filter.FilterMonthYear, s.location)
		if err != nil {
			month = entity.MonthStart(now)
		}
		filter.FilterMonthYear = month.Format(constant.MonthLayout)
		period = specification.LoggedInMonth{Month: month}
		targetMonth = month
	}

	sorting := expenseSorting(filter.SortBy)
	if sorting == nil {
		filter.SortBy = ""
		sorting = DefaultExpenseSorting
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	salary, err := uow.MonthlySalaryRepository().FindOne(ctx, specification.ByMonthYear{Month: targetMonth})
	if err != nil {
		return nil, err
	}
	salaryAmount := decimal.Zero
	var salaryRes *dto.MonthlySalaryResponse
	if salary != nil {
		salaryAmount = salary.SalaryAmount
		salaryRes = toMonthlySalaryResponse(salary)
	}

	total, err := uow.ExpenseRepository().Count(ctx, period)
	if err != nil {
		return nil, err
	}
	pagination := listing.Paginate(total, filter.Page, filter.PageSize, constant.LogPerPageOptions()...)
	filter.Page = pagination.CurrentPage

	spent, err := uow.ExpenseRepository().SumAmount(ctx, period)
	if err != nil {
		return nil, err
	}
	saved := decimal.Zero
	if !byDay {
		saved = salaryAmount.Sub(spent)
	}

	expenses := make([]*dto.ExpenseResponse, 0, pagination.Limit())
	if total > 0 {
		page, err := uow.ExpenseRepository().FindAll(ctx,
			period,
			specification.OrderByKeys{Keys: sorting},
			specification.Pagination{Limit: pagination.Limit(), Offset: pagination.Offset()},
		)
		if err != nil {
			return nil, err
		}

		balances, err := s.runningBalances(ctx, uow, targetMonth, salaryAmount)
		if err != nil {
			return nil, err
		}
		for _, expense := range page {
			var balance *decimal.Decimal
			if b, ok := balances[expense.Id]; ok {
				balance = &b
			}
			expenses = append(expenses, toExpenseResponse(expense, balance))
		}
	}

	dates, err := s.LastUniqueDates(ctx, constant.RecentDateLimit)
	if err != nil {
		return nil, err
	}

	return &dto.MonthlyLogContext{
		TargetMonth:          targetMonth,
		CurrentSalary:        salaryRes,
		TotalSpentForPeriod:  spent,
		SavedAmountForPeriod: saved,
		Expenses:             expenses,
		DateFilters:          dates,
		Pagination:           pagination,
		CurrentFilters:       filter,
	}, nil
}

// runningBalances walks the month in logging order and maps each expense to
// salary minus everything spent up to and including it.
func (s *monthLogService) runningBalances(ctx context.Context, uow unitofwork.UnitOfWork, month time.Time, salary decimal.Decimal) (map[uuid.UUID]decimal.Decimal, error) {
	monthly, err := uow.ExpenseRepository().FindAll(ctx,
		specification.LoggedInMonth{Month: month},
		specification.OrderByKeys{Keys: []string{"date_logged", "created_at"}},
	)
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(monthly))
	spent := decimal.Zero
	for _, expense := range monthly {
		spent = spent.Add(expense.Amount)
		balances[expense.Id] = salary.Sub(spent)
	}
	return balances, nil
}

func (s *monthLogService) LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error) {
	key := expenseDatesKeyPrefix + strconv.Itoa(n)
	days, err := s.dateCache.Fetch(expenseDatesKeyPrefix, key, func() ([]time.Time, error) {
		return s.uowFactory.NewUnitOfWork(ctx).ExpenseRepository().RecentDates(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return dateFilterItems(days), nil
}

// expenseChanged runs after an expense write is stored.
func (s *monthLogService) expenseChanged(ctx context.Context, action string, expense *entity.Expense) {
	s.dateCache.InvalidatePrefix(expenseDatesKeyPrefix)
	publishAfterCommit(ctx, s.publisher, s.logger, logger.ModuleMonthLog, events.New(events.ExpenseChanged, map[string]interface{}{
		"action":      action,
		"expense_id":  expense.Id.String(),
		"amount":      expense.Amount.StringFixed(2),
		"date_logged": expense.DateLogged.Format(constant.DateLayout),
	}))
}

// ledgerDescription derives the bank entry text for an expense, cut to the
// length the ledger accepts.
func ledgerDescription(format, description string) string {
	text := []rune(fmt.Sprintf(format, description))
	if len(text) > constant.MaxDescriptionLength {
		text = text[:constant.MaxDescriptionLength]
	}
	return string(text)
}

func expenseSorting(key string) []string {
	key = strings.TrimSpace(key)
	field := strings.TrimPrefix(key, "-")
	if _, ok := expenseSortFields[field]; !ok {
		return nil
	}
	return []string{key}
}

func toMonthlySalaryResponse(salary *entity.MonthlySalary) *dto.MonthlySalaryResponse {
	return &dto.MonthlySalaryResponse{
		Id:           salary.Id,
		SalaryAmount: salary.SalaryAmount,
		MonthYear:    salary.MonthYear,
		CreatedAt:    salary.CreatedAt,
		UpdatedAt:    salary.UpdatedAt,
	}
}

func toExpenseResponse(expense *entity.Expense, balance *decimal.Decimal) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		Id:                             expense.Id,
		Amount:                         expense.Amount,
		Description:                    expense.Description,
		DateLogged:                     expense.DateLogged,
		BalanceAfterThisExpenseInMonth: balance,
		CreatedAt:                      expense.CreatedAt,
		UpdatedAt:                      expense.UpdatedAt,
	}
}
