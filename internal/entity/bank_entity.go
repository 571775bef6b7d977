package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeDebit:
		return "Debit"
	case TransactionTypeCredit:
		return "Credit"
	default:
		return string(t)
	}
}

// Apply moves balance by amount in this type's direction.
func (t TransactionType) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

// BankAccount is the single account every transaction posts against.
type BankAccount struct {
	Id             uuid.UUID
	CurrentBalance decimal.Decimal
	LastUpdated    time.Time
	CreatedAt      time.Time
}

type BankTransaction struct {
	Id                      uuid.UUID
	AccountId               uuid.UUID
	TransactionType         TransactionType
	Amount                  decimal.Decimal
	Description             string
	BalanceAfterTransaction decimal.Decimal
	DateLogged              time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// SignedAmount is negative for debits.
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
