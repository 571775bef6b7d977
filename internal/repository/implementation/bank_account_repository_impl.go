package implementation

import (
	"context"
	"errors"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/mapper"
	"expense-log-be/internal/model"
	"expense-log-be/internal/repository/contract"
	"expense-log-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BankAccountRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BankAccountMapper
}

func NewBankAccountRepository(db *gorm.DB) contract.BankAccountRepository {
	return &BankAccountRepositoryImpl{
		db:     db,
		mapper: mapper.NewBankAccountMapper(),
	}
}

func (r *BankAccountRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BankAccountRepositoryImpl) CreateIfAbsent(ctx context.Context, account *entity.BankAccount) error {
	m := r.mapper.ToModel(account)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoNothing: true,
		}).
		Create(m).Error
}

func (r *BankAccountRepositoryImpl) Update(ctx context.Context, account *entity.BankAccount) error {
	m := r.mapper.ToModel(account)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*account = *r.mapper.ToEntity(m)
	return nil
}

func (r *BankAccountRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankAccount, error) {
	var m model.BankAccount
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("created_at ASC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
