package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"portfolio/internal/models"
	"portfolio/internal/repository"
)

// SnapshotService records periodic per-user portfolio valuations. It is
// driven by the cron runner; one degraded user does not stop the sweep.
type SnapshotService struct {
	Repo   repository.Repository
	Query  *PortfolioQueryService
	Logger *zap.Logger
	Keep   int
}

func (s *SnapshotService) SnapshotAll(ctx context.Context) error {
	ids, err := s.Repo.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, userID := range ids {
		if err := s.SnapshotUser(ctx, userID); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("portfolio snapshot failed", zap.Uint64("user_id", userID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *SnapshotService) SnapshotUser(ctx context.Context, userID uint64) error {
	totalCash, err := s.Query.TotalCash(ctx, userID)
	if err != nil {
		return err
	}
	totalStockValue, err := s.Query.TotalStockValue(ctx, userID)
	if err != nil {
		return err
	}
	details, err := s.Query.AssetDetails(ctx, userID)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(details)
	if err != nil {
		return err
	}

	item := &models.PortfolioSnapshot{
		UserID:          userID,
		TotalCash:       totalCash,
		TotalStockValue: totalStockValue,
		TotalValue:      totalCash.Add(totalStockValue),
		Breakdown:       datatypes.JSON(breakdown),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.InsertPortfolioSnapshot(ctx, item); err != nil {
		return err
	}
	if s.Keep > 0 {
		return s.Repo.DeletePortfolioSnapshotsBefore(ctx, userID, s.Keep)
	}
	return nil
}
