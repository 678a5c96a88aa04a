package gormrepository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio/internal/models"
	"portfolio/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside a database transaction. gorm commits when fn returns
// nil and rolls back on error or panic, so a valid transaction handle is the
// only thing fn ever sees.
func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Positions, transactional ----------------------------------------------

func (s *Store) GetAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string, lock bool) (*models.Asset, error) {
	query := tx.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.Asset
	err := query.
		Where("user_id = ? AND asset_type = ? AND symbol = ?", userID, assetType, symbol).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveAssetTx(ctx context.Context, tx *gorm.DB, item *models.Asset) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "asset_type"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity",
			"average_price",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) DeleteAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string) error {
	return tx.WithContext(ctx).
		Where("user_id = ? AND asset_type = ? AND symbol = ?", userID, assetType, symbol).
		Delete(&models.Asset{}).Error
}

func (s *Store) InsertTransactionTx(ctx context.Context, tx *gorm.DB, item *models.Transaction) error {
	return tx.WithContext(ctx).Create(item).Error
}

// --- Positions, read-only ---------------------------------------------------

func (s *Store) GetAsset(ctx context.Context, userID uint64, assetType, symbol string) (*models.Asset, error) {
	var item models.Asset
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND asset_type = ? AND symbol = ?", userID, assetType, symbol).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAssets(ctx context.Context, userID uint64) ([]models.Asset, error) {
	var items []models.Asset
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("asset_type, symbol").
		Find(&items).Error
	return items, err
}

func (s *Store) ListAssetsByType(ctx context.Context, userID uint64, assetType string) ([]models.Asset, error) {
	var items []models.Asset
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND asset_type = ?", userID, assetType).
		Order("symbol").
		Find(&items).Error
	return items, err
}

func (s *Store) SumCashQuantity(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Select("SUM(quantity)").
		Where("user_id = ? AND asset_type = ?", userID, models.AssetTypeCash).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (s *Store) ListHeldStockSymbols(ctx context.Context, userID uint64) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("user_id = ? AND asset_type = ? AND quantity > 0", userID, models.AssetTypeStock).
		Order("symbol").
		Pluck("symbol", &symbols).Error
	return symbols, err
}

// --- Trade history ----------------------------------------------------------

func transactionsQuery(db *gorm.DB, params repository.ListTransactionsParams) *gorm.DB {
	query := db.Model(&models.Transaction{}).Where("user_id = ?", params.UserID)
	if params.Symbol != nil && *params.Symbol != "" {
		query = query.Where("symbol = ?", *params.Symbol)
	}
	if params.Type != nil && *params.Type != "" {
		query = query.Where("type = ?", *params.Type)
	}
	return query
}

func (s *Store) ListTransactions(ctx context.Context, params repository.ListTransactionsParams) ([]models.Transaction, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = 10
	}
	var items []models.Transaction
	err := transactionsQuery(s.db.WithContext(ctx), params).
		Order("timestamp DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	return items, err
}

func (s *Store) CountTransactions(ctx context.Context, params repository.ListTransactionsParams) (int64, error) {
	var total int64
	err := transactionsQuery(s.db.WithContext(ctx), params).Count(&total).Error
	return total, err
}

// --- Users ------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var item models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var item models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var item models.User
	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// --- Snapshots --------------------------------------------------------------

func (s *Store) InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListPortfolioSnapshots(ctx context.Context, userID uint64, limit int) ([]models.PortfolioSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	var items []models.PortfolioSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// DeletePortfolioSnapshotsBefore trims a user's snapshot history down to the
// newest keep rows.
func (s *Store) DeletePortfolioSnapshotsBefore(ctx context.Context, userID uint64, keep int) error {
	if keep <= 0 {
		return nil
	}
	sub := s.db.WithContext(ctx).
		Model(&models.PortfolioSnapshot{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(keep)
	return s.db.WithContext(ctx).
		Where("user_id = ? AND id NOT IN (?)", userID, sub).
		Delete(&models.PortfolioSnapshot{}).Error
}

var _ repository.Repository = (*Store)(nil)
