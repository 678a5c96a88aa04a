package quote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CachedSource caches resolved prices in redis with a TTL. Cache misses and
// redis failures fall through to the wrapped source; only the source's own
// failure makes a price unavailable.
type CachedSource struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedSource(source Source, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSource{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func priceKey(symbol string) string {
	return "quote:" + symbol + ":price"
}

func (c *CachedSource) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if cached, err := c.rdb.Get(ctx, priceKey(symbol)).Result(); err == nil {
		if price, err := decimal.NewFromString(cached); err == nil && price.IsPositive() {
			return price, nil
		}
	}

	price, err := c.source.GetPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.rdb.Set(ctx, priceKey(symbol), price.String(), c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("price cache write failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return price, nil
}

var _ Source = (*CachedSource)(nil)
