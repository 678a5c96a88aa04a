package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// InTx snapshots state up front and restores it when the closure fails, so
// atomicity assertions run against the same all-or-nothing contract the gorm
// store provides. failOn injects a store fault into the named method.
type stubRepo struct {
	assets       map[string]models.Asset
	transactions []models.Transaction
	users        map[uint64]models.User
	snapshots    []models.PortfolioSnapshot
	failOn       string
}

var errStubFailure = errors.New("injected store failure")

func newStubRepo() *stubRepo {
	return &stubRepo{
		assets: map[string]models.Asset{},
		users:  map[uint64]models.User{},
	}
}

func assetKey(userID uint64, assetType, symbol string) string {
	return fmt.Sprintf("%d|%s|%s", userID, assetType, symbol)
}

func (s *stubRepo) seedAsset(userID uint64, assetType, symbol, quantity, averagePrice string) {
	s.assets[assetKey(userID, assetType, symbol)] = models.Asset{
		UserID:       userID,
		AssetType:    assetType,
		Symbol:       symbol,
		Quantity:     decimal.RequireFromString(quantity),
		AveragePrice: decimal.RequireFromString(averagePrice),
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	savedAssets := maps.Clone(s.assets)
	savedTransactions := slices.Clone(s.transactions)
	if err := fn(nil); err != nil {
		s.assets = savedAssets
		s.transactions = savedTransactions
		return err
	}
	return nil
}

func (s *stubRepo) GetAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string, lock bool) (*models.Asset, error) {
	if s.failOn == "GetAssetTx" {
		return nil, errStubFailure
	}
	item, ok := s.assets[assetKey(userID, assetType, symbol)]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) SaveAssetTx(ctx context.Context, tx *gorm.DB, item *models.Asset) error {
	if s.failOn == "SaveAssetTx" {
		return errStubFailure
	}
	s.assets[assetKey(item.UserID, item.AssetType, item.Symbol)] = *item
	return nil
}

func (s *stubRepo) DeleteAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string) error {
	if s.failOn == "DeleteAssetTx" {
		return errStubFailure
	}
	delete(s.assets, assetKey(userID, assetType, symbol))
	return nil
}

func (s *stubRepo) InsertTransactionTx(ctx context.Context, tx *gorm.DB, item *models.Transaction) error {
	if s.failOn == "InsertTransactionTx" {
		return errStubFailure
	}
	item.ID = uint64(len(s.transactions) + 1)
	s.transactions = append(s.transactions, *item)
	return nil
}

func (s *stubRepo) GetAsset(ctx context.Context, userID uint64, assetType, symbol string) (*models.Asset, error) {
	return s.GetAssetTx(ctx, nil, userID, assetType, symbol, false)
}

func (s *stubRepo) ListAssets(ctx context.Context, userID uint64) ([]models.Asset, error) {
	var items []models.Asset
	for _, item := range s.assets {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AssetType != items[j].AssetType {
			return items[i].AssetType < items[j].AssetType
		}
		return items[i].Symbol < items[j].Symbol
	})
	return items, nil
}

func (s *stubRepo) ListAssetsByType(ctx context.Context, userID uint64, assetType string) ([]models.Asset, error) {
	all, _ := s.ListAssets(ctx, userID)
	var items []models.Asset
	for _, item := range all {
		if item.AssetType == assetType {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *stubRepo) SumCashQuantity(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range s.assets {
		if item.UserID == userID && item.AssetType == models.AssetTypeCash {
			total = total.Add(item.Quantity)
		}
	}
	return total, nil
}

func (s *stubRepo) ListHeldStockSymbols(ctx context.Context, userID uint64) ([]string, error) {
	var symbols []string
	for _, item := range s.assets {
		if item.UserID == userID && item.AssetType == models.AssetTypeStock && item.Quantity.IsPositive() {
			symbols = append(symbols, item.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *stubRepo) matchTransactions(params repository.ListTransactionsParams) []models.Transaction {
	var items []models.Transaction
	for _, item := range s.transactions {
		if item.UserID != params.UserID {
			continue
		}
		if params.Symbol != nil && !strings.EqualFold(item.Symbol, *params.Symbol) {
			continue
		}
		if params.Type != nil && item.Type != *params.Type {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items
}

func (s *stubRepo) ListTransactions(ctx context.Context, params repository.ListTransactionsParams) ([]models.Transaction, error) {
	items := s.matchTransactions(params)
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil, nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

func (s *stubRepo) CountTransactions(ctx context.Context, params repository.ListTransactionsParams) (int64, error) {
	return int64(len(s.matchTransactions(params))), nil
}

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	item.ID = uint64(len(s.users) + 1)
	s.users[item.ID] = *item
	return nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	item, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, item := range s.users {
		if item.Username == username {
			u := item
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, item := range s.users {
		if item.Username == username || item.Email == email {
			u := item
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListUserIDs(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *stubRepo) InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error {
	item.ID = uint64(len(s.snapshots) + 1)
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) ListPortfolioSnapshots(ctx context.Context, userID uint64, limit int) ([]models.PortfolioSnapshot, error) {
	var items []models.PortfolioSnapshot
	for _, item := range s.snapshots {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *stubRepo) DeletePortfolioSnapshotsBefore(ctx context.Context, userID uint64, keep int) error {
	return nil
}

var _ repository.Repository = (*stubRepo)(nil)

// stubQuotes is a fixed price table; symbols missing from it are unavailable.
type stubQuotes struct {
	prices map[string]decimal.Decimal
	calls  int
}

func (q *stubQuotes) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q.calls++
	price, ok := q.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no price for %s", symbol)
	}
	return price, nil
}
