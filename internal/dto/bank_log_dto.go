package dto

import (
	"time"

	"expense-log-be/pkg/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SetBalanceRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance" form:"initial_balance" validate:"gte=0"`
}

type RecordTransactionRequest struct {
	TransactionType string          `json:"transaction_type" form:"transaction_type" validate:"required,oneof=DEBIT CREDIT"`
	Amount          decimal.Decimal `json:"amount" form:"amount" validate:"gt=0"`
	Description     string          `json:"description" form:"description" validate:"required,max=255"`
	// DateLogged accepts a date, a datetime-local value or RFC 3339. Empty
	// means now.
	DateLogged string `json:"date_logged" form:"date_logged"`
}

type TransactionFilterRequest struct {
	FilterDate      string `json:"filter_date" query:"filter_date" validate:"omitempty,datetime=2006-01-02"`
	FilterMonthYear string `json:"filter_month_year" query:"filter_month_year" validate:"omitempty,datetime=2006-01"`
	TransactionType string `json:"transaction_type" query:"transaction_type" validate:"omitempty,oneof=DEBIT CREDIT"`
	SortBy          string `json:"sort_by" query:"sort_by"`
	Page            int    `json:"page" query:"page" validate:"gte=1"`
	PageSize        int    `json:"page_size" query:"page_size" validate:"gte=1,lte=100"`
}

type BankAccountResponse struct {
	Id             uuid.UUID       `json:"id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	LastUpdated    time.Time       `json:"last_updated"`
	CreatedAt      time.Time       `json:"created_at"`
}

type BankTransactionResponse struct {
	Id                      uuid.UUID       `json:"id"`
	AccountId               uuid.UUID       `json:"account_id"`
	TransactionType         string          `json:"transaction_type"`
	TypeLabel               string          `json:"type_label"`
	Amount                  decimal.Decimal `json:"amount"`
	SignedAmount            decimal.Decimal `json:"signed_amount"`
	Description             string          `json:"description"`
	BalanceAfterTransaction decimal.Decimal `json:"balance_after_transaction"`
	DateLogged              time.Time       `json:"date_logged"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// DateFilterItem is one entry of the "recent dates" quick filter.
type DateFilterItem struct {
	Id          int    `json:"id"`
	DateValue   string `json:"date_value"`
	DisplayText string `json:"display_text"`
}

type BankLogContext struct {
	BankAccount    *BankAccountResponse       `json:"bank_account"`
	Transactions   []*BankTransactionResponse `json:"transactions"`
	DateFilters    []DateFilterItem           `json:"date_filters"`
	Pagination     listing.Pagination         `json:"pagination"`
	CurrentFilters TransactionFilterRequest   `json:"current_filters_applied"`
}
