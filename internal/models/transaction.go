package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// 金额以 JSON 数字输出，而不是带引号的字符串
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType 收入或支出
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid 是否为已知的交易类型
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction 是唯一的领域实体，所有读写都按 UserID 过滤
type Transaction struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"size:128;index:idx_transactions_user_date,priority:1;not null" json:"userId"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `gorm:"size:100;not null" json:"description"`
	Category    string          `gorm:"size:64;not null" json:"category"`
	Type        TransactionType `gorm:"size:16;index;not null" json:"type"`
	Date        time.Time       `gorm:"index:idx_transactions_user_date,priority:2;not null" json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate 创建前生成 UUID
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
