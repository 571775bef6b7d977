package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/repository/contract"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/repository/specification"
	"expense-log-be/internal/repository/unitofwork"
	"expense-log-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory database. rowLock plays the role of the account
// row lock. Like SELECT ... FOR UPDATE it is only taken when the row exists,
// or by the unit of work that inserts it, and is held until Commit or
// Rollback.
type fakeStore struct {
	rowLock sync.Mutex
	mu      sync.Mutex

	account        *entity.BankAccount
	accountInserts int
	transactions   []*entity.BankTransaction
	salaries       []*entity.MonthlySalary
	expenses       []*entity.Expense

	failTransactionCreate error
	failExpenseDelete     error
	recentDateQueries     int
}

func newFakeStore() *fakeStore { return &fakeStore{} }

type fakeFactory struct{ store *fakeStore }

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: f.store}
}

type snapshot struct {
	account      *entity.BankAccount
	transactions int
}

type fakeUoW struct {
	store  *fakeStore
	begun  bool
	locked bool
	saved  *snapshot
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	if u.begun {
		return errors.New("transaction already started")
	}
	u.begun = true
	return nil
}

// lockRow takes the row lock once per unit of work and remembers what to
// restore on rollback.
func (u *fakeUoW) lockRow() {
	if u.locked {
		return
	}
	u.store.rowLock.Lock()
	u.locked = true

	u.store.mu.Lock()
	u.saved = &snapshot{transactions: len(u.store.transactions)}
	if u.store.account != nil {
		cp := *u.store.account
		u.saved.account = &cp
	}
	u.store.mu.Unlock()
}

func (u *fakeUoW) release() {
	if u.locked {
		u.store.rowLock.Unlock()
	}
	u.begun, u.locked, u.saved = false, false, nil
}

func (u *fakeUoW) Commit() error {
	if !u.begun {
		return errors.New("no transaction to commit")
	}
	u.release()
	return nil
}

func (u *fakeUoW) Rollback() error {
	if !u.begun {
		return errors.New("no transaction to rollback")
	}
	if u.saved != nil {
		u.store.mu.Lock()
		if u.saved.account == nil && u.store.account != nil {
			u.store.accountInserts--
		}
		u.store.account = u.saved.account
		u.store.transactions = u.store.transactions[:u.saved.transactions]
		u.store.mu.Unlock()
	}
	u.release()
	return nil
}

func (u *fakeUoW) BankAccountRepository() contract.BankAccountRepository {
	return fakeAccountRepo{u}
}

func (u *fakeUoW) BankTransactionRepository() contract.BankTransactionRepository {
	return fakeTransactionRepo{u.store}
}

func (u *fakeUoW) MonthlySalaryRepository() contract.MonthlySalaryRepository {
	return fakeSalaryRepo{u.store}
}

func (u *fakeUoW) ExpenseRepository() contract.ExpenseRepository {
	return fakeExpenseRepo{u.store}
}

// --- spec interpretation ---

func dateMatches(t time.Time, specs []specification.Specification) bool {
	for _, spec := range specs {
		var from, to time.Time
		switch s := spec.(type) {
		case specification.LoggedOn:
			from = entity.DayStart(s.Day)
			to = from.AddDate(0, 0, 1)
		case specification.LoggedInMonth:
			from = entity.MonthStart(s.Month)
			to = from.AddDate(0, 1, 0)
		case specification.LoggedBetween:
			from, to = s.From, s.To
		default:
			continue
		}
		if t.Before(from) || !t.Before(to) {
			return false
		}
	}
	return true
}

func idMatches(id uuid.UUID, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok && s.ID != id {
			return false
		}
	}
	return true
}

func orderKeys(specs []specification.Specification) []string {
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderByKeys); ok {
			return s.Keys
		}
	}
	return nil
}

func paginate[T any](items []T, specs []specification.Specification) []T {
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(items) {
				return nil
			}
			end := len(items)
			if p.Limit > 0 && p.Offset+p.Limit < end {
				end = p.Offset + p.Limit
			}
			return items[p.Offset:end]
		}
	}
	return items
}

type sortable struct {
	dateLogged time.Time
	createdAt  time.Time
	amount     decimal.Decimal
}

func sortBy[T any](items []T, keys []string, view func(T) sortable) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := view(items[i]), view(items[j])
		for _, key := range keys {
			desc := len(key) > 0 && key[0] == '-'
			if desc {
				key = key[1:]
			}
			var cmp int
			switch key {
			case "date_logged":
				cmp = a.dateLogged.Compare(b.dateLogged)
			case "created_at":
				cmp = a.createdAt.Compare(b.createdAt)
			case "amount":
				cmp = a.amount.Cmp(b.amount)
			}
			if cmp == 0 {
				continue
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func recentDays(dates []time.Time, limit int) []time.Time {
	seen := map[time.Time]bool{}
	var days []time.Time
	for _, d := range dates {
		day := entity.DayStart(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	if len(days) > limit {
		days = days[:limit]
	}
	return days
}

// --- repositories ---

type fakeAccountRepo struct{ u *fakeUoW }

func (r fakeAccountRepo) CreateIfAbsent(ctx context.Context, account *entity.BankAccount) error {
	r.u.lockRow()
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != nil {
		return nil
	}
	cp := *account
	s.account = &cp
	s.accountInserts++
	return nil
}

func (r fakeAccountRepo) Update(ctx context.Context, account *entity.BankAccount) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.account = &cp
	return nil
}

func (r fakeAccountRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankAccount, error) {
	forUpdate := false
	for _, spec := range specs {
		if _, ok := spec.(specification.ForUpdate); ok {
			forUpdate = true
		}
	}

	s := r.u.store
	s.mu.Lock()
	exists := s.account != nil
	s.mu.Unlock()
	if forUpdate && exists {
		r.u.lockRow()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return nil, nil
	}
	cp := *s.account
	return &cp, nil
}

type fakeTransactionRepo struct{ s *fakeStore }

func (r fakeTransactionRepo) Create(ctx context.Context, tx *entity.BankTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failTransactionCreate != nil {
		return r.s.failTransactionCreate
	}
	cp := *tx
	r.s.transactions = append(r.s.transactions, &cp)
	return nil
}

func (r fakeTransactionRepo) filter(specs []specification.Specification) []*entity.BankTransaction {
	var out []*entity.BankTransaction
	for _, tx := range r.s.transactions {
		if !dateMatches(tx.DateLogged, specs) || !idMatches(tx.Id, specs) {
			continue
		}
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByTransactionType); ok && string(tx.TransactionType) != s.Type {
				keep = false
			}
		}
		if keep {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sortBy(out, orderKeys(specs), func(tx *entity.BankTransaction) sortable {
		return sortable{dateLogged: tx.DateLogged, createdAt: tx.CreatedAt, amount: tx.Amount}
	})
	return out
}

func (r fakeTransactionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(specs)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r fakeTransactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(r.filter(specs), specs), nil
}

func (r fakeTransactionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(specs))), nil
}

func (r fakeTransactionRepo) RecentDates(ctx context.Context, limit int) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recentDateQueries++
	var dates []time.Time
	for _, tx := range r.s.transactions {
		dates = append(dates, tx.DateLogged)
	}
	return recentDays(dates, limit), nil
}

type fakeSalaryRepo struct{ s *fakeStore }

func (r fakeSalaryRepo) Upsert(ctx context.Context, salary *entity.MonthlySalary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	salary.MonthYear = entity.MonthStart(salary.MonthYear)
	for _, existing := range r.s.salaries {
		if existing.MonthYear.Equal(salary.MonthYear) {
			existing.SalaryAmount = salary.SalaryAmount
			existing.UpdatedAt = salary.UpdatedAt
			salary.Id = existing.Id
			salary.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	cp := *salary
	r.s.salaries = append(r.s.salaries, &cp)
	return nil
}

func (r fakeSalaryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MonthlySalary, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeSalaryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MonthlySalary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MonthlySalary
	for _, salary := range r.s.salaries {
		keep := idMatches(salary.Id, specs)
		for _, spec := range specs {
			if s, ok := spec.(specification.ByMonthYear); ok {
				month := entity.MonthStart(s.Month)
				if salary.MonthYear.Year() != month.Year() || salary.MonthYear.Month() != month.Month() {
					keep = false
				}
			}
		}
		if keep {
			cp := *salary
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeExpenseRepo struct{ s *fakeStore }

func (r fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *expense
	r.s.expenses = append(r.s.expenses, &cp)
	return nil
}

func (r fakeExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.expenses {
		if existing.Id == expense.Id {
			cp := *expense
			r.s.expenses[i] = &cp
			return nil
		}
	}
	return errors.New("expense not found")
}

func (r fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failExpenseDelete != nil {
		return r.s.failExpenseDelete
	}
	for i, existing := range r.s.expenses {
		if existing.Id == id {
			r.s.expenses = append(r.s.expenses[:i], r.s.expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r fakeExpenseRepo) filter(specs []specification.Specification) []*entity.Expense {
	var out []*entity.Expense
	for _, expense := range r.s.expenses {
		if dateMatches(expense.DateLogged, specs) && idMatches(expense.Id, specs) {
			cp := *expense
			out = append(out, &cp)
		}
	}
	sortBy(out, orderKeys(specs), func(e *entity.Expense) sortable {
		return sortable{dateLogged: e.DateLogged, createdAt: e.CreatedAt, amount: e.Amount}
	})
	return out
}

func (r fakeExpenseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(specs)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r fakeExpenseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return paginate(r.filter(specs), specs), nil
}

func (r fakeExpenseRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(specs))), nil
}

func (r fakeExpenseRepo) SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, expense := range r.filter(specs) {
		total = total.Add(expense.Amount)
	}
	return total, nil
}

func (r fakeExpenseRepo) RecentDates(ctx context.Context, limit int) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var dates []time.Time
	for _, expense := range r.s.expenses {
		dates = append(dates, expense.DateLogged)
	}
	return recentDays(dates, limit), nil
}

// --- collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// tickingClock starts at testNow and moves one second per reading, so rows
// written in sequence get distinct created_at values.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type ledgerFixture struct {
	store     *fakeStore
	publisher *recordingPublisher
	cache     *memory.DateCache
	ledger    *bankLogService
	monthLog  *monthLogService
}

func newLedgerFixture() *ledgerFixture {
	store := newFakeStore()
	publisher := &recordingPublisher{}
	cache := memory.NewDateCache(time.Minute)
	log := logger.NewNopLogger()
	factory := fakeFactory{store}

	clock := &tickingClock{now: testNow}

	ledger := NewBankLogService(factory, publisher, cache, time.UTC, log).(*bankLogService)
	ledger.now = clock.Now

	monthLog := NewMonthLogService(factory, ledger, publisher, cache, time.UTC, log).(*monthLogService)
	monthLog.now = clock.Now

	return &ledgerFixture{
		store:     store,
		publisher: publisher,
		cache:     cache,
		ledger:    ledger,
		monthLog:  monthLog,
	}
}
