package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfolio/internal/models"
)

// ListTransactionsParams filters and paginates a user's trade history.
// Page is 1-based; the store binds LIMIT/OFFSET as typed parameters.
type ListTransactionsParams struct {
	UserID   uint64
	Symbol   *string
	Type     *string
	Page     int
	PageSize int
}

// Repository is the ledger store. Trade mutations run inside InTx; the *Tx
// methods operate on the transaction handle passed to the closure so a trade's
// read-check-write sequence commits or rolls back as one unit.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Positions, transactional. lock=true takes a FOR UPDATE row lock.
	GetAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string, lock bool) (*models.Asset, error)
	SaveAssetTx(ctx context.Context, tx *gorm.DB, item *models.Asset) error
	DeleteAssetTx(ctx context.Context, tx *gorm.DB, userID uint64, assetType, symbol string) error
	InsertTransactionTx(ctx context.Context, tx *gorm.DB, item *models.Transaction) error

	// Positions, read-only.
	GetAsset(ctx context.Context, userID uint64, assetType, symbol string) (*models.Asset, error)
	ListAssets(ctx context.Context, userID uint64) ([]models.Asset, error)
	ListAssetsByType(ctx context.Context, userID uint64, assetType string) ([]models.Asset, error)
	SumCashQuantity(ctx context.Context, userID uint64) (decimal.Decimal, error)
	ListHeldStockSymbols(ctx context.Context, userID uint64) ([]string, error)

	// Trade history.
	ListTransactions(ctx context.Context, params ListTransactionsParams) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, params ListTransactionsParams) (int64, error)

	// Users.
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	ListUserIDs(ctx context.Context) ([]uint64, error)

	// Snapshots.
	InsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error
	ListPortfolioSnapshots(ctx context.Context, userID uint64, limit int) ([]models.PortfolioSnapshot, error)
	DeletePortfolioSnapshotsBefore(ctx context.Context, userID uint64, keep int) error
}
