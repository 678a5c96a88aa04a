package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio/internal/ledger"
	"portfolio/internal/models"
	"portfolio/internal/quote"
	"portfolio/internal/repository"
)

// TradeExecutor executes buy and sell orders. The price is resolved before
// the store transaction begins so a slow quote call never holds row locks;
// inside the transaction the touched rows are read FOR UPDATE, so two
// concurrent trades for the same user cannot pass their checks against the
// same stale balance.
type TradeExecutor struct {
	Repo   repository.Repository
	Quotes quote.Source
	Logger *zap.Logger
}

type BuyResult struct {
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

type SellResult struct {
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

func normalizeTradeInput(symbol string, quantity decimal.Decimal) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || !quantity.IsPositive() {
		return "", fmt.Errorf("%w: symbol and a positive quantity are required", ledger.ErrInvalidInput)
	}
	return symbol, nil
}

func (e *TradeExecutor) resolvePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := e.Quotes.GetPrice(ctx, symbol)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("price resolution failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return decimal.Zero, fmt.Errorf("%w: %s", ledger.ErrPriceUnavailable, symbol)
	}
	return price, nil
}

func (e *TradeExecutor) Buy(ctx context.Context, userID uint64, symbol string, quantity decimal.Decimal) (*BuyResult, error) {
	symbol, err := normalizeTradeInput(symbol, quantity)
	if err != nil {
		return nil, err
	}
	price, err := e.resolvePrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	totalCost := price.Mul(quantity)

	err = e.Repo.InTx(ctx, func(tx *gorm.DB) error {
		cash, err := e.Repo.GetAssetTx(ctx, tx, userID, models.AssetTypeCash, ledger.CashSymbol, true)
		if err != nil {
			return err
		}
		balance := decimal.Zero
		if cash != nil {
			balance = cash.Quantity
		}
		if !ledger.SufficientCash(balance, totalCost) {
			return ledger.ErrInsufficientFunds
		}

		stock, err := e.Repo.GetAssetTx(ctx, tx, userID, models.AssetTypeStock, symbol, true)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if stock != nil {
			newQty, newAvg, err := ledger.WeightedAverage(models.AssetTypeStock, stock.Quantity, stock.AveragePrice, quantity, price)
			if err != nil {
				return err
			}
			stock.Quantity = newQty
			stock.AveragePrice = newAvg
			stock.UpdatedAt = now
			if err := e.Repo.SaveAssetTx(ctx, tx, stock); err != nil {
				return err
			}
		} else {
			if err := e.Repo.SaveAssetTx(ctx, tx, &models.Asset{
				UserID:       userID,
				AssetType:    models.AssetTypeStock,
				Symbol:       symbol,
				Quantity:     ledger.RoundQuantity(quantity),
				AveragePrice: ledger.RoundQuantity(price),
				CreatedAt:    now,
				UpdatedAt:    now,
			}); err != nil {
				return err
			}
		}

		// Step 5 guarantees balance >= totalCost under the row lock; going
		// negative here is a consistency fault, not a user error.
		cash.Quantity = ledger.RoundQuantity(cash.Quantity.Sub(totalCost))
		if cash.Quantity.IsNegative() {
			return fmt.Errorf("cash balance for user %d went negative after debit", userID)
		}
		cash.UpdatedAt = now
		if err := e.Repo.SaveAssetTx(ctx, tx, cash); err != nil {
			return err
		}

		return e.Repo.InsertTransactionTx(ctx, tx, &models.Transaction{
			UserID:    userID,
			Symbol:    symbol,
			Type:      models.TransactionTypeBuy,
			Quantity:  quantity.Round(0).IntPart(),
			Price:     ledger.RoundMoney(price),
			Timestamp: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if e.Logger != nil {
		e.Logger.Info("buy executed",
			zap.Uint64("user_id", userID),
			zap.String("symbol", symbol),
			zap.String("quantity", quantity.String()),
			zap.String("price", price.String()),
		)
	}
	return &BuyResult{
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		TotalCost: ledger.RoundMoney(totalCost),
	}, nil
}

func (e *TradeExecutor) Sell(ctx context.Context, userID uint64, symbol string, quantity decimal.Decimal) (*SellResult, error) {
	symbol, err := normalizeTradeInput(symbol, quantity)
	if err != nil {
		return nil, err
	}
	price, err := e.resolvePrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	totalRevenue := price.Mul(quantity)

	err = e.Repo.InTx(ctx, func(tx *gorm.DB) error {
		stock, err := e.Repo.GetAssetTx(ctx, tx, userID, models.AssetTypeStock, symbol, true)
		if err != nil {
			return err
		}
		held := decimal.Zero
		if stock != nil {
			held = stock.Quantity
		}
		if !ledger.SufficientHoldings(held, quantity) {
			return ledger.ErrInsufficientHoldings
		}

		now := time.Now().UTC()
		if held.Equal(quantity) {
			// Full liquidation removes the row.
			if err := e.Repo.DeleteAssetTx(ctx, tx, userID, models.AssetTypeStock, symbol); err != nil {
				return err
			}
		} else {
			// Average price stays put on partial sells: it tracks the cost
			// basis of the remaining shares.
			stock.Quantity = ledger.RoundQuantity(held.Sub(quantity))
			stock.UpdatedAt = now
			if err := e.Repo.SaveAssetTx(ctx, tx, stock); err != nil {
				return err
			}
		}

		cash, err := e.Repo.GetAssetTx(ctx, tx, userID, models.AssetTypeCash, ledger.CashSymbol, true)
		if err != nil {
			return err
		}
		if cash != nil {
			cash.Quantity = ledger.RoundQuantity(cash.Quantity.Add(totalRevenue))
			cash.UpdatedAt = now
		} else {
			cash = &models.Asset{
				UserID:       userID,
				AssetType:    models.AssetTypeCash,
				Symbol:       ledger.CashSymbol,
				Quantity:     ledger.RoundQuantity(totalRevenue),
				AveragePrice: decimal.NewFromInt(1),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
		}
		if err := e.Repo.SaveAssetTx(ctx, tx, cash); err != nil {
			return err
		}

		return e.Repo.InsertTransactionTx(ctx, tx, &models.Transaction{
			UserID:    userID,
			Symbol:    symbol,
			Type:      models.TransactionTypeSell,
			Quantity:  quantity.Round(0).IntPart(),
			Price:     ledger.RoundMoney(price),
			Timestamp: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if e.Logger != nil {
		e.Logger.Info("sell executed",
			zap.Uint64("user_id", userID),
			zap.String("symbol", symbol),
			zap.String("quantity", quantity.String()),
			zap.String("price", price.String()),
		)
	}
	return &SellResult{
		Symbol:       symbol,
		Quantity:     quantity,
		Price:        price,
		TotalRevenue: ledger.RoundMoney(totalRevenue),
	}, nil
}
