package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/market"
)

const (
	// priceHistoryTTL bounds staleness of the reconstructed price series
	priceHistoryTTL = 60 * time.Second
	// orderBookTTL keeps the book near real time while absorbing bursts
	orderBookTTL = 5 * time.Second
)

// MarketCache caches the expensive market read paths as JSON blobs with
// short TTLs. Lookups that find nothing return domain.ErrCacheMiss.
//
// Key schema:
//
//	pricehist:{questionID}:{timeframe} - price-history series, 60s TTL
//	orderbook:{questionID}             - aggregated order book, 5s TTL
type MarketCache struct {
	rdb *redis.Client
}

// NewMarketCache creates a MarketCache backed by the given Client
func NewMarketCache(c *Client) *MarketCache {
	return &MarketCache{rdb: c.Underlying()}
}

func priceHistoryKey(questionID string, timeframe domain.Timeframe) string {
	return fmt.Sprintf("pricehist:%s:%s", questionID, timeframe)
}

func orderBookKey(questionID string) string {
	return "orderbook:" + questionID
}

// GetPriceHistory retrieves a cached price series for one question and
// timeframe
func (mc *MarketCache) GetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe) ([]market.PricePoint, error) {
	var points []market.PricePoint
	if err := mc.getJSON(ctx, priceHistoryKey(questionID, timeframe), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// SetPriceHistory caches a price series for one question and timeframe
func (mc *MarketCache) SetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe, points []market.PricePoint) error {
	return mc.setJSON(ctx, priceHistoryKey(questionID, timeframe), points, priceHistoryTTL)
}

// GetOrderBook retrieves a cached order book for one question
func (mc *MarketCache) GetOrderBook(ctx context.Context, questionID string) (*market.OrderBook, error) {
	var book market.OrderBook
	if err := mc.getJSON(ctx, orderBookKey(questionID), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// SetOrderBook caches an order book for one question
func (mc *MarketCache) SetOrderBook(ctx context.Context, questionID string, book *market.OrderBook) error {
	return mc.setJSON(ctx, orderBookKey(questionID), book, orderBookTTL)
}

func (mc *MarketCache) getJSON(ctx context.Context, key string, dest any) error {
	raw, err := mc.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes
		// and overwrites it
		return domain.ErrCacheMiss
	}
	return nil
}

func (mc *MarketCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := mc.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
