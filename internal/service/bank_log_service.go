package service

import (
	"context"
	"errors"
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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = serverutils.ErrNotFound
	ErrBadRequest = serverutils.ErrBadRequest
)

// DefaultTransactionSorting is newest first, ties broken by insertion time.
var DefaultTransactionSorting = []string{"-date_logged", "-created_at"}

var transactionSortFields = map[string]struct{}{
	"date_logged":               {},
	"created_at":                {},
	"amount":                    {},
	"transaction_type":          {},
	"description":               {},
	"balance_after_transaction": {},
}

type IBankLogService interface {
	SetOrUpdateBalance(ctx context.Context, req *dto.SetBalanceRequest) (*dto.BankAccountResponse, error)
	GetAccount(ctx context.Context) (*dto.BankAccountResponse, error)
	RecordTransaction(ctx context.Context, req *dto.RecordTransactionRequest) (*dto.BankTransactionResponse, error)
	GetTransactionsContext(ctx context.Context, filter dto.TransactionFilterRequest) (*dto.BankLogContext, error)
	LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error)
}

type bankLogService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	dateCache  *memory.DateCache
	location   *time.Location
	logger     logger.ILogger
	now        func() time.Time
}

func NewBankLogService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	dateCache *memory.DateCache,
	location *time.Location,
	log logger.ILogger,
) IBankLogService {
	return &bankLogService{
		uowFactory: uowFactory,
		publisher:  publisher,
		dateCache:  dateCache,
		location:   location,
		logger:     log,
		now:        time.Now,
	}
}

func (s *bankLogService) SetOrUpdateBalance(ctx context.Context, req *dto.SetBalanceRequest) (*dto.BankAccountResponse, error) {
	if req.InitialBalance.IsNegative() {
		return nil, ErrBadRequest.Wrap(fmt.Errorf("balance must not be negative"))
	}
	now := s.now().In(s.location)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, now)
	if err != nil {
		return nil, err
	}

	account.CurrentBalance = req.InitialBalance
	account.LastUpdated = now
	if err := uow.BankAccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(logger.ModuleLedger, "Bank balance set", map[string]interface{}{
		"current_balance": account.CurrentBalance.StringFixed(2),
	})
	publishAfterCommit(ctx, s.publisher, s.logger, logger.ModuleLedger, events.New(events.BalanceSet, balancePayload(account)))

	return toBankAccountResponse(account), nil
}

func (s *bankLogService) GetAccount(ctx context.Context) (*dto.BankAccountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.BankAccountRepository().FindOne(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return toBankAccountResponse(account), nil
}

// RecordTransaction posts one entry against the account. The account row is
// locked for the whole unit of work so concurrent posts see each other's
// balance.
func (s *bankLogService) RecordTransaction(ctx context.Context, req *dto.RecordTransactionRequest) (*dto.BankTransactionResponse, error) {
	txType := entity.TransactionType(strings.ToUpper(req.TransactionType))
	if !txType.IsValid() {
		return nil, ErrBadRequest.Wrap(fmt.Errorf("unknown transaction type %q", req.TransactionType))
	}
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

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, now)
	if err != nil {
		return nil, err
	}

	account.CurrentBalance = txType.Apply(account.CurrentBalance, req.Amount)
	account.LastUpdated = now
	if err := uow.BankAccountRepository().Update(ctx, account); err != nil {
		return nil, err
	}

	tx := &entity.BankTransaction{
		Id:                      uuid.New(),
		AccountId:               account.Id,
		TransactionType:         txType,
		Amount:                  req.Amount,
		Description:             description,
		BalanceAfterTransaction: account.CurrentBalance,
		DateLogged:              loggedAt,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := uow.BankTransactionRepository().Create(ctx, tx); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.dateCache.InvalidatePrefix(transactionDatesKeyPrefix)

	s.logger.Info(logger.ModuleLedger, "Transaction recorded", map[string]interface{}{
		"transaction_id":  tx.Id.String(),
		"type":            string(tx.TransactionType),
		"amount":          tx.Amount.StringFixed(2),
		"balance_after":   tx.BalanceAfterTransaction.StringFixed(2),
		"date_logged_day": tx.DateLogged.Format(constant.DateLayout),
	})

	payload := balancePayload(account)
	payload["transaction_id"] = tx.Id.String()
	payload["transaction_type"] = string(tx.TransactionType)
	payload["amount"] = tx.Amount.StringFixed(2)
	payload["date_logged"] = tx.DateLogged.Format(constant.DateLayout)
	publishAfterCommit(ctx, s.publisher, s.logger, logger.ModuleLedger, events.New(events.TransactionRecorded, payload))

	return toBankTransactionResponse(tx), nil
}

func (s *bankLogService) GetTransactionsContext(ctx context.Context, filter dto.TransactionFilterRequest) (*dto.BankLogContext, error) {
	now := s.now().In(s.location)
	filter.Page, filter.PageSize = normalizePaging(filter.Page, filter.PageSize)

	var specs []specification.Specification
	if day, err := time.ParseInLocation(constant.DateLayout, filter.FilterDate, s.location); filter.FilterDate != "" && err == nil {
		specs = append(specs, specification.LoggedOn{Day: day})
		filter.FilterMonthYear = ""
	} else {
		filter.FilterDate = ""
		month, err := parseMonth(filter.FilterMonthYear, s.location)
		if err != nil {
			month = entity.MonthStart(now)
		}
		filter.FilterMonthYear = month.Format(constant.MonthLayout)
		specs = append(specs, specification.LoggedInMonth{Month: month})
	}

	if txType := entity.TransactionType(strings.ToUpper(filter.TransactionType)); txType.IsValid() {
		filter.TransactionType = string(txType)
		specs = append(specs, specification.ByTransactionType{Type: string(txType)})
	} else {
		filter.TransactionType = ""
	}

	sorting := transactionSorting(filter.SortBy)
	if sorting == nil {
		filter.SortBy = ""
		sorting = DefaultTransactionSorting
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.BankAccountRepository().FindOne(ctx)
	if err != nil {
		return nil, err
	}

	total, err := uow.BankTransactionRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	pagination := listing.Paginate(total, filter.Page, filter.PageSize, constant.LogPerPageOptions()...)
	filter.Page = pagination.CurrentPage

	transactions := make([]*dto.BankTransactionResponse, 0, pagination.Limit())
	if total > 0 {
		pageSpecs := append(specs,
			specification.OrderByKeys{Keys: sorting},
			specification.Pagination{Limit: pagination.Limit(), Offset: pagination.Offset()},
		)
		txs, err := uow.BankTransactionRepository().FindAll(ctx, pageSpecs...)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			transactions = append(transactions, toBankTransactionResponse(tx))
		}
	}

	dates, err := s.LastUniqueDates(ctx, constant.RecentDateLimit)
	if err != nil {
		return nil, err
	}

	var accountRes *dto.BankAccountResponse
	if account != nil {
		accountRes = toBankAccountResponse(account)
	}

	return &dto.BankLogContext{
		BankAccount:    accountRes,
		Transactions:   transactions,
		DateFilters:    dates,
		Pagination:     pagination,
		CurrentFilters: filter,
	}, nil
}

// LastUniqueDates lists the newest n distinct days with transactions. The
// result is cached until the next recorded transaction.
func (s *bankLogService) LastUniqueDates(ctx context.Context, n int) ([]dto.DateFilterItem, error) {
	key := transactionDatesKeyPrefix + strconv.Itoa(n)
	days, err := s.dateCache.Fetch(transactionDatesKeyPrefix, key, func() ([]time.Time, error) {
		return s.uowFactory.NewUnitOfWork(ctx).BankTransactionRepository().RecentDates(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return dateFilterItems(days), nil
}

// lockAccount returns the account row locked until the unit of work ends.
// An empty ledger gets a zero-balance row first; the singleton key turns a
// concurrent second insert into a no-op, and FOR UPDATE then waits for the
// winner to commit.
func lockAccount(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time) (*entity.BankAccount, error) {
	repo := uow.BankAccountRepository()
	if err := repo.CreateIfAbsent(ctx, &entity.BankAccount{
		Id:             uuid.New(),
		CurrentBalance: decimal.Zero,
		LastUpdated:    now,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}

	account, err := repo.FindOne(ctx, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("bank account missing after insert")
	}
	return account, nil
}

// transactionSorting returns nil when key is empty or not sortable.
func transactionSorting(key string) []string {
	key = strings.TrimSpace(key)
	field := strings.TrimPrefix(key, "-")
	if _, ok := transactionSortFields[field]; !ok {
		return nil
	}
	return []string{key}
}

func balancePayload(account *entity.BankAccount) map[string]interface{} {
	return map[string]interface{}{
		"account_id":      account.Id.String(),
		"current_balance": account.CurrentBalance.StringFixed(2),
		"last_updated":    account.LastUpdated.Format(time.RFC3339),
	}
}

func toBankAccountResponse(account *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		Id:             account.Id,
		CurrentBalance: account.CurrentBalance,
		LastUpdated:    account.LastUpdated,
		CreatedAt:      account.CreatedAt,
	}
}

func toBankTransactionResponse(tx *entity.BankTransaction) *dto.BankTransactionResponse {
	return &dto.BankTransactionResponse{
		Id:                      tx.Id,
		AccountId:               tx.AccountId,
		TransactionType:         string(tx.TransactionType),
		TypeLabel:               tx.TransactionType.Label(),
		Amount:                  tx.Amount,
		SignedAmount:            tx.SignedAmount(),
		Description:             tx.Description,
		BalanceAfterTransaction: tx.BalanceAfterTransaction,
		DateLogged:              tx.DateLogged,
		CreatedAt:               tx.CreatedAt,
		UpdatedAt:               tx.UpdatedAt,
	}
}
