package implementation

import (
	"context"
	"errors"
	"time"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/mapper"
	"expense-log-be/internal/model"
	"expense-log-be/internal/repository/contract"
	"expense-log-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExpenseMapper
}

func NewExpenseRepository(db *gorm.DB) contract.ExpenseRepository {
	return &ExpenseRepositoryImpl{
		db:     db,
		mapper: mapper.NewExpenseMapper(),
	}
}

func (r *ExpenseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ExpenseRepositoryImpl) Create(ctx context.Context, expense *entity.Expense) error {
	m := r.mapper.ToModel(expense)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*expense = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExpenseRepositoryImpl) Update(ctx context.Context, expense *entity.Expense) error {
	m := r.mapper.ToModel(expense)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*expense = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExpenseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, "id = ?", id).Error
}

func (r *ExpenseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Expense, error) {
	var m model.Expense
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ExpenseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Expense, error) {
	var models []*model.Expense
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ExpenseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Expense{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ExpenseRepositoryImpl) SumAmount(ctx context.Context, specs ...specification.Specification) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Expense{}), specs...)
	if err := query.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ExpenseRepositoryImpl) RecentDates(ctx context.Context, limit int) ([]time.Time, error) {
	return recentDates(r.db.WithContext(ctx).Model(&model.Expense{}), limit)
}
