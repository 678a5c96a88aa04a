package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AssetTypeStock = "stock"
	AssetTypeCash  = "cash"
)

// Asset is a single holding: one row per (user, asset_type, symbol).
// Quantity and AveragePrice are stored with 4 fractional digits and are
// never persisted negative. Cash rows keep AveragePrice pinned to 1.
type Asset struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_assets_user_type_symbol,priority:1" json:"user_id"`
	AssetType string `gorm:"type:varchar(10);not null;uniqueIndex:idx_assets_user_type_symbol,priority:2" json:"asset_type"`
	Symbol    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_assets_user_type_symbol,priority:3" json:"symbol"`

	Quantity     decimal.Decimal `gorm:"type:numeric(15,4);not null;default:0" json:"quantity"`
	AveragePrice decimal.Decimal `gorm:"type:numeric(15,4);not null;default:0" json:"average_price"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}
