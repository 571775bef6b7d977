package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MonthlySalary struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	MonthYear    datatypes.Date  `gorm:"not null;uniqueIndex"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (MonthlySalary) TableName() string {
	return "monthly_salaries"
}

type Expense struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	DateLogged  time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
