// Package executor holds the read-path orchestration between the REST
// handlers, the store, the cache, and the market computations.
package executor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/openpredict/market-api/internal/api/rest/dto"
	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/market"
	"github.com/openpredict/market-api/internal/store"
)

// MarketCache caches the expensive market read paths. Implementations
// return domain.ErrCacheMiss when nothing is cached.
type MarketCache interface {
	GetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe) ([]market.PricePoint, error)
	SetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe, points []market.PricePoint) error
	GetOrderBook(ctx context.Context, questionID string) (*market.OrderBook, error)
	SetOrderBook(ctx context.Context, questionID string, book *market.OrderBook) error
}

// Executor is the interface for the API executor
type Executor interface {
	// ListQuestions retrieves a page of markets with pagination metadata
	ListQuestions(ctx context.Context, filter store.QuestionFilter) (*dto.QuestionListData, error)

	// GetQuestion retrieves one market with holdings, resolution and
	// derived statistics. Returns domain.ErrQuestionNotFound when absent.
	GetQuestion(ctx context.Context, id string) (*dto.QuestionDetailData, error)

	// GetPriceHistory reconstructs the YES/NO price series for one market
	// over the given timeframe. The interval is echoed only.
	GetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe, interval string) (*dto.PriceHistoryData, error)

	// GetOrderBook aggregates pending orders into the per-side ladders
	GetOrderBook(ctx context.Context, questionID string) (*market.OrderBook, error)

	// GetCurrentUser retrieves the synced user for a provider user id.
	// Returns domain.ErrUserNotFound when absent.
	GetCurrentUser(ctx context.Context, providerUserID string) (*dto.UserResponse, error)
}

type apiExecutor struct {
	store store.Store
	cache MarketCache
	now   func() time.Time
}

// NewExecutor creates the API executor. The cache may be nil, in which case
// every read goes to the store.
func NewExecutor(s store.Store, cache MarketCache) Executor {
	return &apiExecutor{
		store: s,
		cache: cache,
		now:   time.Now,
	}
}

func (e *apiExecutor) ListQuestions(ctx context.Context, filter store.QuestionFilter) (*dto.QuestionListData, error) {
	rows, total, err := e.store.ListQuestions(ctx, filter)
	if err != nil {
		return nil, err
	}

	questions := make([]dto.QuestionSummary, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, dto.MapQuestionSummary(row))
	}

	return &dto.QuestionListData{
		Questions:  questions,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (e *apiExecutor) GetQuestion(ctx context.Context, id string) (*dto.QuestionDetailData, error) {
	question, err := e.store.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.QuestionDetailData{
		Question:    dto.MapQuestionDetail(question),
		MarketStats: market.ComputeStats(question),
	}, nil
}

func (e *apiExecutor) GetPriceHistory(ctx context.Context, questionID string, timeframe domain.Timeframe, interval string) (*dto.PriceHistoryData, error) {
	if e.cache != nil {
		points, err := e.cache.GetPriceHistory(ctx, questionID, timeframe)
		if err == nil {
			return &dto.PriceHistoryData{PriceHistory: points, Timeframe: timeframe, Interval: interval}, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.WarnCtx(ctx, "Price-history cache read failed",
				zap.Error(err),
				zap.String("question_id", questionID))
		}
	}

	since := e.now().Add(-timeframe.Duration())
	transactions, err := e.store.GetBuyTransactionsSince(ctx, questionID, since)
	if err != nil {
		return nil, err
	}

	points := market.BuildPriceHistory(transactions)

	if e.cache != nil {
		if err := e.cache.SetPriceHistory(ctx, questionID, timeframe, points); err != nil {
			logger.WarnCtx(ctx, "Price-history cache write failed",
				zap.Error(err),
				zap.String("question_id", questionID))
		}
	}

	return &dto.PriceHistoryData{PriceHistory: points, Timeframe: timeframe, Interval: interval}, nil
}

func (e *apiExecutor) GetOrderBook(ctx context.Context, questionID string) (*market.OrderBook, error) {
	if e.cache != nil {
		book, err := e.cache.GetOrderBook(ctx, questionID)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.WarnCtx(ctx, "Order-book cache read failed",
				zap.Error(err),
				zap.String("question_id", questionID))
		}
	}

	orders, err := e.store.GetPendingOrders(ctx, questionID)
	if err != nil {
		return nil, err
	}

	book := market.BuildOrderBook(orders)

	if e.cache != nil {
		if err := e.cache.SetOrderBook(ctx, questionID, &book); err != nil {
			logger.WarnCtx(ctx, "Order-book cache write failed",
				zap.Error(err),
				zap.String("question_id", questionID))
		}
	}

	return &book, nil
}

func (e *apiExecutor) GetCurrentUser(ctx context.Context, providerUserID string) (*dto.UserResponse, error) {
	user, err := e.store.GetUserByProviderID(ctx, providerUserID)
	if err != nil {
		return nil, err
	}
	return dto.MapUser(user), nil
}
