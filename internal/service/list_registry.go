package service

import (
	"context"
	"fmt"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/entity"
	"expense-log-be/internal/repository/specification"
	"expense-log-be/internal/repository/unitofwork"
	"expense-log-be/pkg/listing"

	"github.com/google/uuid"
)

// TableRegistration holds the presentation defaults of a listed table.
type TableRegistration struct {
	AllowedAccessors []string
	DefaultColumns   []string
	HiddenColumns    []string
	ForeignKeys      map[string]string
	Controls         []string
	PageLimit        int
	DefaultSorting   string
}

// ListRegistry is the set of tables reachable through the generic list
// endpoint. It is built once at startup.
type ListRegistry struct {
	*listing.Registry
	tables map[string]TableRegistration
}

func NewListRegistry(uowFactory unitofwork.RepositoryFactory) (*ListRegistry, error) {
	transactions, transactionsTable := bankTransactionsEntity(uowFactory)
	expenses, expensesTable := expensesEntity(uowFactory)
	salaries, salariesTable := salariesEntity(uowFactory)

	registry, err := listing.NewRegistry(transactions, expenses, salaries)
	if err != nil {
		return nil, err
	}

	return &ListRegistry{
		Registry: registry,
		tables: map[string]TableRegistration{
			transactions.Key(): transactionsTable,
			expenses.Key():     expensesTable,
			salaries.Key():     salariesTable,
		},
	}, nil
}

func (r *ListRegistry) Table(namespace, name string) (TableRegistration, bool) {
	t, ok := r.tables[listing.Key(namespace, name)]
	return t, ok
}

func bankTransactionsEntity(uowFactory unitofwork.RepositoryFactory) (*listing.Entity, TableRegistration) {
	e := &listing.Entity{
		Namespace: "bank",
		Name:      "transactions",
		Table:     "bank_transactions",
		Fields: []listing.Field{
			{Name: "id", Label: "ID"},
			{Name: "date_logged", Label: "Date"},
			{Name: "transaction_type", Label: "Type"},
			{Name: "description", Searchable: true},
			{Name: "amount"},
			{Name: "balance_after_transaction", Label: "Balance After"},
			{Name: "account_id", Label: "Account Balance"},
			{Name: "created_at"},
			{Name: "updated_at"},
		},
		Relations: map[string]listing.Relation{
			"account": {Table: "bank_accounts", LocalKey: "account_id"},
		},
		Accessors: map[string]listing.Accessor{
			"get_signed_amount": func(ctx context.Context, record listing.Record) (any, error) {
				tx, ok := record.(*entity.BankTransaction)
				if !ok {
					return nil, listing.ErrAccessorUnavailable
				}
				return tx.SignedAmount().StringFixed(2), nil
			},
			"get_type_label": func(ctx context.Context, record listing.Record) (any, error) {
				tx, ok := record.(*entity.BankTransaction)
				if !ok {
					return nil, listing.ErrAccessorUnavailable
				}
				return tx.TransactionType.Label(), nil
			},
		},
		OrderingFor: orderings(map[string]string{
			"get_signed_amount": "amount",
			"get_type_label":    "transaction_type",
		}),
		Load: func(ctx context.Context, id any) (listing.Record, error) {
			key, err := toUUID(id)
			if err != nil {
				return nil, err
			}
			uow := uowFactory.NewUnitOfWork(ctx)
			tx, err := uow.BankTransactionRepository().FindOne(ctx, specification.ByID{ID: key})
			if err != nil || tx == nil {
				return nil, err
			}
			return tx, nil
		},
	}

	return e, TableRegistration{
		AllowedAccessors: []string{"get_type_label", "get_signed_amount"},
		DefaultColumns:   []string{"date_logged", "get_type_label", "description", "get_signed_amount", "balance_after_transaction"},
		HiddenColumns:    []string{"id"},
		ForeignKeys:      map[string]string{"account_id": "account.current_balance"},
		Controls:         constant.DefaultTableControls(),
		PageLimit:        10,
		DefaultSorting:   "-date_logged,-created_at",
	}
}

func expensesEntity(uowFactory unitofwork.RepositoryFactory) (*listing.Entity, TableRegistration) {
	e := &listing.Entity{
		Namespace: "month",
		Name:      "expenses",
		Table:     "expenses",
		Fields: []listing.Field{
			{Name: "id", Label: "ID"},
			{Name: "date_logged", Label: "Date"},
			{Name: "description", Searchable: true},
			{Name: "amount"},
			{Name: "created_at"},
			{Name: "updated_at"},
		},
		Accessors: map[string]listing.Accessor{
			"get_logged_month": func(ctx context.Context, record listing.Record) (any, error) {
				expense, ok := record.(*entity.Expense)
				if !ok {
					return nil, listing.ErrAccessorUnavailable
				}
				return expense.DateLogged.Format(constant.DisplayMonth), nil
			},
		},
		OrderingFor: orderings(map[string]string{
			"get_logged_month": "date_logged",
		}),
		Load: func(ctx context.Context, id any) (listing.Record, error) {
			key, err := toUUID(id)
			if err != nil {
				return nil, err
			}
			uow := uowFactory.NewUnitOfWork(ctx)
			expense, err := uow.ExpenseRepository().FindOne(ctx, specification.ByID{ID: key})
			if err != nil || expense == nil {
				return nil, err
			}
			return expense, nil
		},
	}

	return e, TableRegistration{
		AllowedAccessors: []string{"get_logged_month"},
		DefaultColumns:   []string{"date_logged", "description", "amount"},
		HiddenColumns:    []string{"id"},
		Controls:         constant.DefaultTableControls(),
		PageLimit:        10,
		DefaultSorting:   "-date_logged,-created_at",
	}
}

func salariesEntity(uowFactory unitofwork.RepositoryFactory) (*listing.Entity, TableRegistration) {
	e := &listing.Entity{
		Namespace: "month",
		Name:      "salaries",
		Table:     "monthly_salaries",
		Fields: []listing.Field{
			{Name: "id", Label: "ID"},
			{Name: "month_year", Label: "Month"},
			{Name: "salary_amount", Label: "Salary"},
			{Name: "created_at"},
			{Name: "updated_at"},
		},
		Accessors: map[string]listing.Accessor{
			"get_month_label": func(ctx context.Context, record listing.Record) (any, error) {
				salary, ok := record.(*entity.MonthlySalary)
				if !ok {
					return nil, listing.ErrAccessorUnavailable
				}
				return salary.MonthYear.Format(constant.DisplayMonth), nil
			},
			// get_saved_amount queries the month's expenses, so it has no ordering.
			"get_saved_amount": func(ctx context.Context, record listing.Record) (any, error) {
				salary, ok := record.(*entity.MonthlySalary)
				if !ok {
					return nil, listing.ErrAccessorUnavailable
				}
				uow := uowFactory.NewUnitOfWork(ctx)
				spent, err := uow.ExpenseRepository().SumAmount(ctx, specification.LoggedInMonth{Month: salary.MonthYear})
				if err != nil {
					return nil, err
				}
				return salary.SalaryAmount.Sub(spent).StringFixed(2), nil
			},
		},
		OrderingFor: orderings(map[string]string{
			"get_month_label": "month_year",
		}),
		Load: func(ctx context.Context, id any) (listing.Record, error) {
			key, err := toUUID(id)
			if err != nil {
				return nil, err
			}
			uow := uowFactory.NewUnitOfWork(ctx)
			salary, err := uow.MonthlySalaryRepository().FindOne(ctx, specification.ByID{ID: key})
			if err != nil || salary == nil {
				return nil, err
			}
			return salary, nil
		},
	}

	return e, TableRegistration{
		AllowedAccessors: []string{"get_month_label", "get_saved_amount"},
		DefaultColumns:   []string{"get_month_label", "salary_amount", "get_saved_amount"},
		HiddenColumns:    []string{"id"},
		Controls:         constant.DefaultTableControls(),
		PageLimit:        12,
		DefaultSorting:   "-month_year",
	}
}

func orderings(byAccessor map[string]string) func(string) string {
	return func(accessor string) string {
		return byAccessor[accessor]
	}
}

// toUUID reads a primary key as returned by the driver into a map row.
func toUUID(id any) (uuid.UUID, error) {
	switch v := id.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case [16]byte:
		return uuid.UUID(v), nil
	default:
		return uuid.Nil, fmt.Errorf("unsupported primary key %T", id)
	}
}
