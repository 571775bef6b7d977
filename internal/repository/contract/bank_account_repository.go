package contract

import (
	"context"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/repository/specification"
)

type BankAccountRepository interface {
	// CreateIfAbsent inserts account unless the singleton row already exists.
	CreateIfAbsent(ctx context.Context, account *entity.BankAccount) error
	Update(ctx context.Context, account *entity.BankAccount) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankAccount, error)
}
