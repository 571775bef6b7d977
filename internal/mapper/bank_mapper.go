package mapper

import (
	"expense-log-be/internal/entity"
	"expense-log-be/internal/model"
)

type BankAccountMapper struct{}

func NewBankAccountMapper() *BankAccountMapper {
	return &BankAccountMapper{}
}

func (m *BankAccountMapper) ToEntity(a *model.BankAccount) *entity.BankAccount {
	if a == nil {
		return nil
	}
	return &entity.BankAccount{
		Id:             a.Id,
		CurrentBalance: a.CurrentBalance,
		LastUpdated:    a.LastUpdated,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *BankAccountMapper) ToModel(a *entity.BankAccount) *model.BankAccount {
	if a == nil {
		return nil
	}
	return &model.BankAccount{
		Id:             a.Id,
		Singleton:      true,
		CurrentBalance: a.CurrentBalance,
		LastUpdated:    a.LastUpdated,
		CreatedAt:      a.CreatedAt,
	}
}

type BankTransactionMapper struct{}

func NewBankTransactionMapper() *BankTransactionMapper {
	return &BankTransactionMapper{}
}

func (m *BankTransactionMapper) ToEntity(t *model.BankTransaction) *entity.BankTransaction {
	if t == nil {
		return nil
	}
	return &entity.BankTransaction{
		Id:                      t.Id,
		AccountId:               t.AccountId,
		TransactionType:         entity.TransactionType(t.TransactionType),
		Amount:                  t.Amount,
		Description:             t.Description,
		BalanceAfterTransaction: t.BalanceAfterTransaction,
		DateLogged:              t.DateLogged,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
}

func (m *BankTransactionMapper) ToModel(t *entity.BankTransaction) *model.BankTransaction {
	if t == nil {
		return nil
	}
	return &model.BankTransaction{
		Id:                      t.Id,
		AccountId:               t.AccountId,
		TransactionType:         string(t.TransactionType),
		Amount:                  t.Amount,
		Description:             t.Description,
		BalanceAfterTransaction: t.BalanceAfterTransaction,
		DateLogged:              t.DateLogged,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
}

func (m *BankTransactionMapper) ToEntities(txs []*model.BankTransaction) []*entity.BankTransaction {
	entities := make([]*entity.BankTransaction, len(txs))
	for i, t := range txs {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
