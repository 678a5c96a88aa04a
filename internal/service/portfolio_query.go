package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"portfolio/internal/ledger"
	"portfolio/internal/models"
	"portfolio/internal/quote"
	"portfolio/internal/repository"
)

// PortfolioQueryService is the read side: stored positions enriched with live
// quotes. A position whose price cannot be resolved contributes zero to
// valuations instead of failing the whole query; the degradation is logged.
type PortfolioQueryService struct {
	Repo   repository.Repository
	Quotes quote.Source
	Logger *zap.Logger
}

type AssetDetail struct {
	AssetType    string          `json:"assetType"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

type TransactionPage struct {
	UserID       uint64               `json:"userId"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"pageSize"`
	Transactions []models.Transaction `json:"transactions"`
}

// TotalCash sums the user's cash positions, 2dp, zero when none exist.
func (s *PortfolioQueryService) TotalCash(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	total, err := s.Repo.SumCashQuantity(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.RoundMoney(total), nil
}

// TotalStockCost sums quantity * average_price over stock positions, 2dp.
func (s *PortfolioQueryService) TotalStockCost(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	assets, err := s.Repo.ListAssetsByType(ctx, userID, models.AssetTypeStock)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, asset := range assets {
		total = total.Add(asset.Quantity.Mul(asset.AveragePrice))
	}
	return ledger.RoundMoney(total), nil
}

// TotalStockValue values stock positions at live prices, 2dp.
func (s *PortfolioQueryService) TotalStockValue(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	assets, err := s.Repo.ListAssetsByType(ctx, userID, models.AssetTypeStock)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, asset := range assets {
		price, err := s.Quotes.GetPrice(ctx, asset.Symbol)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("valuation degraded: price unavailable",
					zap.Uint64("user_id", userID),
					zap.String("symbol", asset.Symbol),
					zap.Error(err),
				)
			}
			continue
		}
		total = total.Add(price.Mul(asset.Quantity))
	}
	return ledger.RoundMoney(total), nil
}

func (s *PortfolioQueryService) detail(ctx context.Context, userID uint64, asset models.Asset) AssetDetail {
	currentPrice := decimal.Zero
	switch asset.AssetType {
	case models.AssetTypeCash:
		currentPrice = decimal.NewFromInt(1)
	case models.AssetTypeStock:
		price, err := s.Quotes.GetPrice(ctx, asset.Symbol)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("asset detail degraded: price unavailable",
					zap.Uint64("user_id", userID),
					zap.String("symbol", asset.Symbol),
					zap.Error(err),
				)
			}
		} else {
			currentPrice = price
		}
	}
	return AssetDetail{
		AssetType:    asset.AssetType,
		Symbol:       asset.Symbol,
		Quantity:     asset.Quantity,
		AveragePrice: asset.AveragePrice,
		CurrentPrice: currentPrice,
		TotalCost:    ledger.RoundMoney(asset.Quantity.Mul(asset.AveragePrice)),
		CurrentValue: ledger.RoundMoney(currentPrice.Mul(asset.Quantity)),
	}
}

// AssetDetails reports every position with live pricing.
func (s *PortfolioQueryService) AssetDetails(ctx context.Context, userID uint64) ([]AssetDetail, error) {
	assets, err := s.Repo.ListAssets(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]AssetDetail, 0, len(assets))
	for _, asset := range assets {
		details = append(details, s.detail(ctx, userID, asset))
	}
	return details, nil
}

// GetAssetDetail reports a single position, or ErrNotFound.
func (s *PortfolioQueryService) GetAssetDetail(ctx context.Context, userID uint64, assetType, symbol string) (*AssetDetail, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	asset, err := s.Repo.GetAsset(ctx, userID, assetType, symbol)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %s/%s", ledger.ErrNotFound, assetType, symbol)
	}
	detail := s.detail(ctx, userID, *asset)
	return &detail, nil
}

// Transactions returns one page of trade history, newest first, with the
// total matching count before pagination.
func (s *PortfolioQueryService) Transactions(ctx context.Context, userID uint64, symbol, txType string, page, pageSize int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	params := repository.ListTransactionsParams{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}
	if symbol = strings.ToUpper(strings.TrimSpace(symbol)); symbol != "" {
		params.Symbol = &symbol
	}
	if txType = strings.ToLower(strings.TrimSpace(txType)); txType == models.TransactionTypeBuy || txType == models.TransactionTypeSell {
		params.Type = &txType
	}

	total, err := s.Repo.CountTransactions(ctx, params)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListTransactions(ctx, params)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Transaction{}
	}
	return &TransactionPage{
		UserID:       userID,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		Transactions: items,
	}, nil
}

// HeldSymbols lists distinct stock symbols with positive quantity, the
// sell-candidate list.
func (s *PortfolioQueryService) HeldSymbols(ctx context.Context, userID uint64) ([]string, error) {
	symbols, err := s.Repo.ListHeldStockSymbols(ctx, userID)
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}
