package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MonthlySalary struct {
	Id           uuid.UUID
	SalaryAmount decimal.Decimal
	MonthYear    time.Time // always the first day of the month
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Expense struct {
	Id          uuid.UUID
	Amount      decimal.Decimal
	Description string
	DateLogged  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MonthStart truncates t to midnight on the first of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayStart truncates t to midnight.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
