package unitofwork

import (
	"context"

	"expense-log-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BankAccountRepository() contract.BankAccountRepository
	BankTransactionRepository() contract.BankTransactionRepository
	MonthlySalaryRepository() contract.MonthlySalaryRepository
	ExpenseRepository() contract.ExpenseRepository
}
