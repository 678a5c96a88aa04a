package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"portfolio/internal/ledger"
	"portfolio/internal/models"
)

func TestSnapshotUser(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000", "1")
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	svc := &SnapshotService{
		Repo:  repo,
		Query: newQueryService(repo, map[string]decimal.Decimal{"ACME": dec("80")}),
	}

	if err := svc.SnapshotUser(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.snapshots) != 1 {
		t.Fatalf("snapshots=%d want=1", len(repo.snapshots))
	}

	snap := repo.snapshots[0]
	if snap.TotalCash.Cmp(dec("1000")) != 0 {
		t.Fatalf("totalCash=%s want=1000", snap.TotalCash)
	}
	if snap.TotalStockValue.Cmp(dec("800")) != 0 {
		t.Fatalf("totalStockValue=%s want=800", snap.TotalStockValue)
	}
	if snap.TotalValue.Cmp(dec("1800")) != 0 {
		t.Fatalf("totalValue=%s want=1800", snap.TotalValue)
	}

	var breakdown []AssetDetail
	if err := json.Unmarshal(snap.Breakdown, &breakdown); err != nil {
		t.Fatalf("breakdown is not valid JSON: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("breakdown entries=%d want=2", len(breakdown))
	}
}

func TestSnapshotAll_SkipsFailedUsers(t *testing.T) {
	repo := newStubRepo()
	repo.users[1] = models.User{ID: 1, Username: "alice"}
	repo.users[2] = models.User{ID: 2, Username: "bob"}
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "100", "1")
	repo.seedAsset(2, models.AssetTypeCash, ledger.CashSymbol, "200", "1")
	svc := &SnapshotService{
		Repo:  repo,
		Query: newQueryService(repo, nil),
	}

	if err := svc.SnapshotAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.snapshots) != 2 {
		t.Fatalf("snapshots=%d want=2 (one per user)", len(repo.snapshots))
	}
}
