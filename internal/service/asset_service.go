package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfolio/internal/ledger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// AssetService handles out-of-band position adjustments: seeding a cash
// balance or recording an existing stock lot without a market trade. These
// never write a transaction record.
type AssetService struct {
	Repo repository.Repository
}

const (
	AssetActionCreated = "created"
	AssetActionUpdated = "updated"
)

type AddAssetResult struct {
	UserID       uint64          `json:"userId"`
	AssetType    string          `json:"asset_type"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"average_price"`
	Action       string          `json:"action"`
}

func (s *AssetService) AddAsset(ctx context.Context, userID uint64, assetType, symbol string, quantity, averagePrice decimal.Decimal) (*AddAssetResult, error) {
	assetType = strings.TrimSpace(assetType)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ledger.ErrInvalidInput)
	}
	if quantity.IsNegative() || averagePrice.IsNegative() {
		return nil, fmt.Errorf("%w: quantity and average_price must not be negative", ledger.ErrInvalidInput)
	}
	switch assetType {
	case models.AssetTypeStock:
	case models.AssetTypeCash:
		// Cash carries a fixed unit price regardless of input.
		averagePrice = decimal.NewFromInt(1)
		if symbol != ledger.CashSymbol {
			return nil, fmt.Errorf("%w: only %s is supported for cash assets", ledger.ErrInvalidInput, ledger.CashSymbol)
		}
	default:
		return nil, fmt.Errorf("%w: asset_type must be either %q or %q", ledger.ErrInvalidInput, models.AssetTypeStock, models.AssetTypeCash)
	}

	var result AddAssetResult
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		existing, err := s.Repo.GetAssetTx(ctx, tx, userID, assetType, symbol, true)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if existing != nil {
			newQty, newAvg, err := ledger.WeightedAverage(assetType, existing.Quantity, existing.AveragePrice, quantity, averagePrice)
			if err != nil {
				return err
			}
			existing.Quantity = newQty
			existing.AveragePrice = newAvg
			existing.UpdatedAt = now
			if err := s.Repo.SaveAssetTx(ctx, tx, existing); err != nil {
				return err
			}
			result = AddAssetResult{
				UserID:       userID,
				AssetType:    assetType,
				Symbol:       symbol,
				Quantity:     newQty,
				AveragePrice: newAvg,
				Action:       AssetActionUpdated,
			}
			return nil
		}

		item := &models.Asset{
			UserID:       userID,
			AssetType:    assetType,
			Symbol:       symbol,
			Quantity:     ledger.RoundQuantity(quantity),
			AveragePrice: ledger.RoundQuantity(averagePrice),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Repo.SaveAssetTx(ctx, tx, item); err != nil {
			return err
		}
		result = AddAssetResult{
			UserID:       userID,
			AssetType:    assetType,
			Symbol:       symbol,
			Quantity:     item.Quantity,
			AveragePrice: item.AveragePrice,
			Action:       AssetActionCreated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
