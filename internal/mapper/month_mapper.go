package mapper

import (
	"time"

	"expense-log-be/internal/entity"
	"expense-log-be/internal/model"

	"gorm.io/datatypes"
)

type MonthlySalaryMapper struct{}

func NewMonthlySalaryMapper() *MonthlySalaryMapper {
	return &MonthlySalaryMapper{}
}

func (m *MonthlySalaryMapper) ToEntity(s *model.MonthlySalary) *entity.MonthlySalary {
	if s == nil {
		return nil
	}
	return &entity.MonthlySalary{
		Id:           s.Id,
		SalaryAmount: s.SalaryAmount,
		MonthYear:    entity.MonthStart(time.Time(s.MonthYear)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *MonthlySalaryMapper) ToModel(s *entity.MonthlySalary) *model.MonthlySalary {
	if s == nil {
		return nil
	}
	return &model.MonthlySalary{
		Id:           s.Id,
		SalaryAmount: s.SalaryAmount,
		MonthYear:    datatypes.Date(entity.MonthStart(s.MonthYear)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (m *MonthlySalaryMapper) ToEntities(salaries []*model.MonthlySalary) []*entity.MonthlySalary {
	entities := make([]*entity.MonthlySalary, len(salaries))
	for i, s := range salaries {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

type ExpenseMapper struct{}

func NewExpenseMapper() *ExpenseMapper {
	return &ExpenseMapper{}
}

func (m *ExpenseMapper) ToEntity(e *model.Expense) *entity.Expense {
	if e == nil {
		return nil
	}
	return &entity.Expense{
		Id:          e.Id,
		Amount:      e.Amount,
		Description: e.Description,
		DateLogged:  e.DateLogged,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *ExpenseMapper) ToModel(e *entity.Expense) *model.Expense {
	if e == nil {
		return nil
	}
	return &model.Expense{
		Id:          e.Id,
		Amount:      e.Amount,
		Description: e.Description,
		DateLogged:  e.DateLogged,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *ExpenseMapper) ToEntities(expenses []*model.Expense) []*entity.Expense {
	entities := make([]*entity.Expense, len(expenses))
	for i, e := range expenses {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
