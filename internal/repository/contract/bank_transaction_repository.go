package contract

import (
	"context"
	"time"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/repository/specification"
)

type BankTransactionRepository interface {
	Create(ctx context.Context, tx *entity.BankTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// RecentDates returns up to limit distinct calendar days, newest first.
	RecentDates(ctx context.Context, limit int) ([]time.Time, error)
}
