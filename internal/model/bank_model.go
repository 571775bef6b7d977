package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount is a single-row table. Singleton is always true and unique, so
// a second insert conflicts instead of splitting the ledger.
type BankAccount struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Singleton      bool            `gorm:"not null;default:true;uniqueIndex:uniq_bank_accounts_singleton"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	LastUpdated    time.Time       `gorm:"autoUpdateTime"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

type BankTransaction struct {
	Id                      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountId               uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account                 *BankAccount    `gorm:"foreignKey:AccountId;constraint:OnDelete:CASCADE"`
	TransactionType         string          `gorm:"type:varchar(6);not null;index"`
	Amount                  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Description             string          `gorm:"type:varchar(255);not null"`
	BalanceAfterTransaction decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DateLogged              time.Time       `gorm:"not null;index"`
	CreatedAt               time.Time       `gorm:"autoCreateTime"`
	UpdatedAt               time.Time       `gorm:"autoUpdateTime"`
}

func (BankTransaction) TableName() string {
	return "bank_transactions"
}
