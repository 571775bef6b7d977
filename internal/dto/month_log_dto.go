package dto

import (
	"time"

	"expense-log-be/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SetSalaryRequest struct {
	SalaryAmount decimal.Decimal `json:"salary_amount" form:"salary_amount" validate:"gt=0"`
	// MonthYear is YYYY-MM or any YYYY-MM-DD inside the month.
	MonthYear string `json:"month_year" form:"month_year" validate:"required"`
}

type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" form:"amount" validate:"gt=0"`
	Description string          `json:"description" form:"description" validate:"required,max=255"`
	DateLogged  string          `json:"date_logged" form:"date_logged"`
}

// UpdateExpenseRequest only changes the fields that were sent.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount" form:"amount" validate:"omitnil,gt=0"`
	Description *string          `json:"description" form:"description" validate:"omitnil,min=1,max=255"`
	DateLogged  *string          `json:"date_logged" form:"date_logged"`
}

func (r UpdateExpenseRequest) IsEmpty() bool {
	return r.Amount == nil && r.Description == nil && r.DateLogged == nil
}

type ExpenseFilterRequest struct {
	FilterDate      string `json:"filter_date" query:"filter_date" validate:"omitempty,datetime=2006-01-02"`
	FilterMonthYear string `json:"filter_month_year" query:"filter_month_year" validate:"omitempty,datetime=2006-01"`
	SortBy          string `json:"sort_by" query:"sort_by"`
	Page            int    `json:"page" query:"page" validate:"gte=1"`
	PageSize        int    `json:"page_size" query:"page_size" validate:"gte=1,lte=100"`
}

type MonthlySalaryResponse struct {
	Id           uuid.UUID       `json:"id"`
	SalaryAmount decimal.Decimal `json:"salary_amount"`
	MonthYear    time.Time       `json:"month_year"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ExpenseResponse struct {
	Id          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	DateLogged  time.Time       `json:"date_logged"`
	// BalanceAfterThisExpenseInMonth is salary minus everything spent in the
	// month up to and including this expense.
	BalanceAfterThisExpenseInMonth *decimal.Decimal `json:"balance_after_this_expense_in_month"`
	CreatedAt                      time.Time        `json:"created_at"`
	UpdatedAt                      time.Time        `json:"updated_at"`
}

// ExpenseChangeResult carries the outcome message of a write. Warning is set
// when the change stands but needs the user's attention.
type ExpenseChangeResult struct {
	Expense *ExpenseResponse `json:"expense,omitempty"`
	Message string           `json:"message"`
	Warning bool             `json:"warning"`
}

type MonthlyLogContext struct {
	TargetMonth          time.Time              `json:"target_month"`
	CurrentSalary        *MonthlySalaryResponse `json:"current_salary"`
	TotalSpentForPeriod  decimal.Decimal        `json:"total_spent_for_period"`
	SavedAmountForPeriod decimal.Decimal        `json:"saved_amount_for_period"`
	Expenses             []*ExpenseResponse     `json:"expenses"`
	DateFilters          []DateFilterItem       `json:"date_filters"`
	Pagination           listing.Pagination     `json:"pagination"`
	CurrentFilters       ExpenseFilterRequest   `json:"current_filters_applied"`
}
