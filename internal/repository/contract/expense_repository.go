package contract

import (
	"context"
	"time"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Expense, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Expense, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error)
	RecentDates(ctx context.Context, limit int) ([]time.Time, error)
}
