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

type MonthlySalaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MonthlySalaryMapper
}

func NewMonthlySalaryRepository(db *gorm.DB) contract.MonthlySalaryRepository {
	return &MonthlySalaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMonthlySalaryMapper(),
	}
}

func (r *MonthlySalaryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MonthlySalaryRepositoryImpl) Upsert(ctx context.Context, salary *entity.MonthlySalary) error {
	m := r.mapper.ToModel(salary)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "month_year"}},
			DoUpdates: clause.AssignmentColumns([]string{"salary_amount", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}

	// on conflict the returned id belongs to the existing row
	var stored model.MonthlySalary
	if err := r.db.WithContext(ctx).Where("month_year = ?", m.MonthYear).First(&stored).Error; err != nil {
		return err
	}
	*salary = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *MonthlySalaryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MonthlySalary, error) {
	var m model.MonthlySalary
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MonthlySalaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MonthlySalary, error) {
	var models []*model.MonthlySalary
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
