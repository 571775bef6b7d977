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

	"gorm.io/gorm"
)

type BankTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BankTransactionMapper
}

func NewBankTransactionRepository(db *gorm.DB) contract.BankTransactionRepository {
	return &BankTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewBankTransactionMapper(),
	}
}

func (r *BankTransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BankTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.BankTransaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Omit("Account").Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *BankTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankTransaction, error) {
	var m model.BankTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BankTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankTransaction, error) {
	var models []*model.BankTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BankTransactionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BankTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BankTransactionRepositoryImpl) RecentDates(ctx context.Context, limit int) ([]time.Time, error) {
	return recentDates(r.db.WithContext(ctx).Model(&model.BankTransaction{}), limit)
}

// recentDates lists distinct DATE(date_logged) values, newest first.
func recentDates(db *gorm.DB, limit int) ([]time.Time, error) {
	rows, err := db.Select("DATE(date_logged) AS day").
		Group("day").
		Order("day DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
