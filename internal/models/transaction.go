package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction is an append-only trade record. Rows are never updated or
// deleted; history order is timestamp descending.
type Transaction struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index:idx_transactions_user_ts,priority:1" json:"user_id"`
	Symbol string `gorm:"type:varchar(10);not null;index" json:"symbol"`
	Type   string `gorm:"type:varchar(4);not null" json:"type"`

	Quantity int64           `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	Timestamp time.Time `gorm:"type:timestamptz;not null;index:idx_transactions_user_ts,priority:2,sort:desc" json:"timestamp"`
}

func (Transaction) TableName() string {
	return "transactions"
}
