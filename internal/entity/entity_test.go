package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Apply(t *testing.T) {
	balance := decimal.NewFromInt(100)

	assert.True(t, TransactionTypeDebit.Apply(balance, decimal.NewFromInt(30)).Equal(decimal.NewFromInt(70)))
	assert.True(t, TransactionTypeCredit.Apply(balance, decimal.NewFromInt(10)).Equal(decimal.NewFromInt(110)))
	assert.False(t, TransactionType("REFUND").IsValid())
	assert.Equal(t, "Debit", TransactionTypeDebit.Label())
}

func TestBankTransaction_SignedAmount(t *testing.T) {
	debit := &BankTransaction{TransactionType: TransactionTypeDebit, Amount: decimal.RequireFromString("12.50")}
	credit := &BankTransaction{TransactionType: TransactionTypeCredit, Amount: decimal.RequireFromString("12.50")}

	assert.Equal(t, "-12.5", debit.SignedAmount().String())
	assert.Equal(t, "12.5", credit.SignedAmount().String())
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2024, time.February, 29, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), MonthStart(in))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), DayStart(in))
}
