package service

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/shopspring/decimal"

	"portfolio/internal/ledger"
	"portfolio/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newExecutor(repo *stubRepo, prices map[string]decimal.Decimal) *TradeExecutor {
	return &TradeExecutor{
		Repo:   repo,
		Quotes: &stubQuotes{prices: prices},
	}
}

func assetAt(t *testing.T, repo *stubRepo, userID uint64, assetType, symbol string) models.Asset {
	t.Helper()
	item, ok := repo.assets[assetKey(userID, assetType, symbol)]
	if !ok {
		t.Fatalf("expected %s/%s position for user %d", assetType, symbol, userID)
	}
	return item
}

func TestBuy_CreatesPositionAndDebitsCash(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000", "1")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("50")})

	result, err := exec.Buy(context.Background(), 1, "ACME", dec("10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalCost.Cmp(dec("500")) != 0 {
		t.Fatalf("totalCost=%s want=500", result.TotalCost)
	}

	cash := assetAt(t, repo, 1, models.AssetTypeCash, ledger.CashSymbol)
	if cash.Quantity.Cmp(dec("500")) != 0 {
		t.Fatalf("cash=%s want=500", cash.Quantity)
	}
	stock := assetAt(t, repo, 1, models.AssetTypeStock, "ACME")
	if stock.Quantity.Cmp(dec("10")) != 0 || stock.AveragePrice.Cmp(dec("50")) != 0 {
		t.Fatalf("stock=%s@%s want=10@50", stock.Quantity, stock.AveragePrice)
	}

	// Conservation at trade price: cash + stock value is still 1000.
	value := cash.Quantity.Add(stock.Quantity.Mul(dec("50")))
	if value.Cmp(dec("1000")) != 0 {
		t.Fatalf("account value=%s want=1000", value)
	}

	if len(repo.transactions) != 1 {
		t.Fatalf("transactions=%d want=1", len(repo.transactions))
	}
	tx := repo.transactions[0]
	if tx.Type != models.TransactionTypeBuy || tx.Symbol != "ACME" || tx.Quantity != 10 || tx.Price.Cmp(dec("50")) != 0 {
		t.Fatalf("unexpected transaction record: %+v", tx)
	}
}

func TestBuy_RecomputesWeightedAverage(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "10000", "1")
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("70")})

	if _, err := exec.Buy(context.Background(), 1, "ACME", dec("10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stock := assetAt(t, repo, 1, models.AssetTypeStock, "ACME")
	if stock.Quantity.Cmp(dec("20")) != 0 {
		t.Fatalf("qty=%s want=20", stock.Quantity)
	}
	if stock.AveragePrice.Cmp(dec("60")) != 0 {
		t.Fatalf("avg=%s want=60", stock.AveragePrice)
	}
}

func TestBuy_UppercasesSymbol(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000", "1")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("10")})

	result, err := exec.Buy(context.Background(), 1, "acme", dec("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Symbol != "ACME" {
		t.Fatalf("symbol=%s want=ACME", result.Symbol)
	}
	assetAt(t, repo, 1, models.AssetTypeStock, "ACME")
}

func TestBuy_InsufficientFundsRollsBack(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "100", "1")
	before := maps.Clone(repo.assets)
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("15")})

	_, err := exec.Buy(context.Background(), 1, "ACME", dec("10"))
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	if !maps.Equal(before, repo.assets) {
		t.Fatalf("assets mutated on rejected buy: %+v", repo.assets)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("transaction recorded on rejected buy")
	}
}

func TestBuy_MissingCashPositionMeansZeroBalance(t *testing.T) {
	repo := newStubRepo()
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("15")})

	_, err := exec.Buy(context.Background(), 1, "ACME", dec("1"))
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
}

func TestBuy_PriceUnavailable(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000", "1")
	exec := newExecutor(repo, nil)

	_, err := exec.Buy(context.Background(), 1, "ACME", dec("1"))
	if !errors.Is(err, ledger.ErrPriceUnavailable) {
		t.Fatalf("err=%v want ErrPriceUnavailable", err)
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("transaction recorded without a price")
	}
}

func TestBuy_InvalidInput(t *testing.T) {
	exec := newExecutor(newStubRepo(), nil)
	quotes := exec.Quotes.(*stubQuotes)

	if _, err := exec.Buy(context.Background(), 1, "", dec("1")); !errors.Is(err, ledger.ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput for empty symbol", err)
	}
	if _, err := exec.Buy(context.Background(), 1, "ACME", dec("0")); !errors.Is(err, ledger.ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput for zero quantity", err)
	}
	if _, err := exec.Buy(context.Background(), 1, "ACME", dec("-5")); !errors.Is(err, ledger.ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput for negative quantity", err)
	}
	if quotes.calls != 0 {
		t.Fatalf("quote gateway called for invalid input")
	}
}

func TestBuy_StoreFailureRollsBack(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000", "1")
	repo.failOn = "InsertTransactionTx"
	before := maps.Clone(repo.assets)
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("50")})

	_, err := exec.Buy(context.Background(), 1, "ACME", dec("10"))
	if !errors.Is(err, errStubFailure) {
		t.Fatalf("err=%v want injected store failure", err)
	}
	if !maps.Equal(before, repo.assets) {
		t.Fatalf("assets mutated despite mid-transaction failure")
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("transaction survived a rolled-back trade")
	}
}

func TestSell_FullLiquidationDeletesRow(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "0", "1")
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("80")})

	result, err := exec.Sell(context.Background(), 1, "ACME", dec("10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalRevenue.Cmp(dec("800")) != 0 {
		t.Fatalf("totalRevenue=%s want=800", result.TotalRevenue)
	}

	if _, ok := repo.assets[assetKey(1, models.AssetTypeStock, "ACME")]; ok {
		t.Fatalf("stock row still present after full liquidation")
	}
	cash := assetAt(t, repo, 1, models.AssetTypeCash, ledger.CashSymbol)
	if cash.Quantity.Cmp(dec("800")) != 0 {
		t.Fatalf("cash=%s want=800", cash.Quantity)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("transactions=%d want=1", len(repo.transactions))
	}
	tx := repo.transactions[0]
	if tx.Type != models.TransactionTypeSell || tx.Quantity != 10 || tx.Price.Cmp(dec("80")) != 0 {
		t.Fatalf("unexpected transaction record: %+v", tx)
	}
}

func TestSell_PartialKeepsAveragePrice(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "0", "1")
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("80")})

	if _, err := exec.Sell(context.Background(), 1, "ACME", dec("4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stock := assetAt(t, repo, 1, models.AssetTypeStock, "ACME")
	if stock.Quantity.Cmp(dec("6")) != 0 {
		t.Fatalf("qty=%s want=6", stock.Quantity)
	}
	// Deliberate asymmetry with buys: a sell never touches the cost basis
	// of the remaining shares.
	if stock.AveragePrice.Cmp(dec("50")) != 0 {
		t.Fatalf("avg=%s want=50 (unchanged by sell)", stock.AveragePrice)
	}
}

func TestSell_InsufficientHoldingsRollsBack(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "0", "1")
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	before := maps.Clone(repo.assets)
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("80")})

	_, err := exec.Sell(context.Background(), 1, "ACME", dec("15"))
	if !errors.Is(err, ledger.ErrInsufficientHoldings) {
		t.Fatalf("err=%v want ErrInsufficientHoldings", err)
	}
	if !maps.Equal(before, repo.assets) {
		t.Fatalf("assets mutated on rejected sell")
	}
	if len(repo.transactions) != 0 {
		t.Fatalf("transaction recorded on rejected sell")
	}
}

func TestSell_NoHoldingsAtAll(t *testing.T) {
	repo := newStubRepo()
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("80")})

	_, err := exec.Sell(context.Background(), 1, "ACME", dec("1"))
	if !errors.Is(err, ledger.ErrInsufficientHoldings) {
		t.Fatalf("err=%v want ErrInsufficientHoldings", err)
	}
}

func TestSell_CreatesCashPositionWhenAbsent(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeStock, "ACME", "10", "50")
	exec := newExecutor(repo, map[string]decimal.Decimal{"ACME": dec("80")})

	if _, err := exec.Sell(context.Background(), 1, "ACME", dec("5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cash := assetAt(t, repo, 1, models.AssetTypeCash, ledger.CashSymbol)
	if cash.Quantity.Cmp(dec("400")) != 0 {
		t.Fatalf("cash=%s want=400", cash.Quantity)
	}
	if cash.AveragePrice.Cmp(dec("1")) != 0 {
		t.Fatalf("cash avg=%s want=1", cash.AveragePrice)
	}
}

func TestAveragePriceTracksCostWeightedMean(t *testing.T) {
	repo := newStubRepo()
	repo.seedAsset(1, models.AssetTypeCash, ledger.CashSymbol, "1000000", "1")
	prices := map[string]decimal.Decimal{"ACME": dec("10")}
	exec := newExecutor(repo, prices)

	// Lots: 3@10, 7@21.50, 2@9.99, with a partial sell in between that
	// must not disturb the running mean of the remaining shares.
	lots := []struct{ qty, price string }{
		{"3", "10"},
		{"7", "21.50"},
		{"2", "9.99"},
	}
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for i, lot := range lots {
		prices["ACME"] = dec(lot.price)
		if _, err := exec.Buy(context.Background(), 1, "ACME", dec(lot.qty)); err != nil {
			t.Fatalf("buy %d failed: %v", i, err)
		}
		totalQty = totalQty.Add(dec(lot.qty))
		totalCost = totalCost.Add(dec(lot.qty).Mul(dec(lot.price)))
	}
	if _, err := exec.Sell(context.Background(), 1, "ACME", dec("4")); err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	want := totalCost.Div(totalQty).Round(4)
	stock := assetAt(t, repo, 1, models.AssetTypeStock, "ACME")
	if stock.AveragePrice.Sub(want).Abs().GreaterThan(dec("0.0001")) {
		t.Fatalf("avg=%s want=%s within 0.0001", stock.AveragePrice, want)
	}
}
