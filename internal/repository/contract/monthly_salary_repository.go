package contract

import (
	"context"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/repository/specification"
)

type MonthlySalaryRepository interface {
	// Upsert inserts or replaces the salary for salary.MonthYear.
	Upsert(ctx context.Context, salary *entity.MonthlySalary) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MonthlySalary, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MonthlySalary, error)
}
