package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PortfolioSnapshot is a periodic per-user valuation, written by the cron
// snapshot job. Breakdown carries the per-asset detail as JSON.
type PortfolioSnapshot struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index:idx_portfolio_snapshots_user_ts,priority:1" json:"user_id"`

	TotalCash       decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_cash"`
	TotalStockValue decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_stock_value"`
	TotalValue      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total_value"`

	Breakdown datatypes.JSON `gorm:"type:jsonb" json:"breakdown"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index:idx_portfolio_snapshots_user_ts,priority:2,sort:desc" json:"created_at"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
