package executor

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/market"
	"github.com/openpredict/market-api/internal/store"
	"github.com/openpredict/market-api/internal/store/schema"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeStore struct {
	store.Store

	listRows     []*store.QuestionWithHolderCounts
	listTotal    int64
	listFilter   store.QuestionFilter
	question     *schema.Question
	transactions []schema.Transaction
	txSince      time.Time
	orders       []schema.P2POrder
	user         *schema.User
	err          error

	txCalls    int
	orderCalls int
}

func (f *fakeStore) ListQuestions(_ context.Context, filter store.QuestionFilter) ([]*store.QuestionWithHolderCounts, int64, error) {
	f.listFilter = filter
	return f.listRows, f.listTotal, f.err
}

func (f *fakeStore) GetQuestionByID(_ context.Context, id string) (*schema.Question, error) {
	if f.question == nil {
		return nil, domain.ErrQuestionNotFound
	}
	return f.question, f.err
}

func (f *fakeStore) GetBuyTransactionsSince(_ context.Context, _ string, since time.Time) ([]schema.Transaction, error) {
	f.txCalls++
	f.txSince = since
	return f.transactions, f.err
}

func (f *fakeStore) GetPendingOrders(_ context.Context, _ string) ([]schema.P2POrder, error) {
	f.orderCalls++
	return f.orders, f.err
}

func (f *fakeStore) GetUserByProviderID(_ context.Context, _ string) (*schema.User, error) {
	if f.user == nil {
		return nil, domain.ErrUserNotFound
	}
	return f.user, nil
}

// fakeCache is an in-memory MarketCache
type fakeCache struct {
	history map[string][]market.PricePoint
	books   map[string]*market.OrderBook
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		history: map[string][]market.PricePoint{},
		books:   map[string]*market.OrderBook{},
	}
}

func (f *fakeCache) GetPriceHistory(_ context.Context, questionID string, timeframe domain.Timeframe) ([]market.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	points, ok := f.history[questionID+":"+string(timeframe)]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return points, nil
}

func (f *fakeCache) SetPriceHistory(_ context.Context, questionID string, timeframe domain.Timeframe, points []market.PricePoint) error {
	if f.err != nil {
		return f.err
	}
	f.history[questionID+":"+string(timeframe)] = points
	return nil
}

func (f *fakeCache) GetOrderBook(_ context.Context, questionID string) (*market.OrderBook, error) {
	if f.err != nil {
		return nil, f.err
	}
	book, ok := f.books[questionID]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return book, nil
}

func (f *fakeCache) SetOrderBook(_ context.Context, questionID string, book *market.OrderBook) error {
	if f.err != nil {
		return f.err
	}
	f.books[questionID] = book
	return nil
}

func activeQuestionRow(id string, yesHolders, noHolders int64) *store.QuestionWithHolderCounts {
	return &store.QuestionWithHolderCounts{
		Question: &schema.Question{
			ID:             id,
			Title:          "q " + id,
			Status:         domain.QuestionStatusActive,
			TotalYesTokens: 8000,
			TotalNoTokens:  5000,
			YesToken:       &schema.YesToken{CurrentPrice: decimal.RequireFromString("1.25")},
			NoToken:        &schema.NoToken{CurrentPrice: decimal.RequireFromString("2")},
		},
		YesHolders: yesHolders,
		NoHolders:  noHolders,
	}
}

func TestListQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("maps rows and pagination", func(t *testing.T) {
		fs := &fakeStore{
			listRows:  []*store.QuestionWithHolderCounts{activeQuestionRow("q1", 3, 1)},
			listTotal: 25,
		}
		e := NewExecutor(fs, nil)

		data, err := e.ListQuestions(ctx, store.QuestionFilter{Page: 2, Limit: 10})
		require.NoError(t, err)

		require.Len(t, data.Questions, 1)
		assert.Equal(t, "q1", data.Questions[0].ID)
		assert.Equal(t, int64(3), data.Questions[0].Count.YesTokenHoldings)

		assert.Equal(t, 2, data.Pagination.Page)
		assert.Equal(t, int64(25), data.Pagination.Total)
		assert.Equal(t, 3, data.Pagination.TotalPages)
		assert.True(t, data.Pagination.HasNext)
		assert.True(t, data.Pagination.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		fs := &fakeStore{listTotal: 30}
		e := NewExecutor(fs, nil)

		data, err := e.ListQuestions(ctx, store.QuestionFilter{Page: 3, Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, 3, data.Pagination.TotalPages)
		assert.False(t, data.Pagination.HasNext)
		assert.True(t, data.Pagination.HasPrev)
		assert.NotNil(t, data.Questions)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		fs := &fakeStore{err: errors.New("connection refused")}
		e := NewExecutor(fs, nil)

		_, err := e.ListQuestions(ctx, store.QuestionFilter{Page: 1, Limit: 10})
		assert.Error(t, err)
	})
}

func TestGetQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("computes stats alongside the detail", func(t *testing.T) {
		fs := &fakeStore{question: &schema.Question{
			ID:               "q1",
			TotalYesTokens:   8000,
			TotalNoTokens:    5000,
			YesToken:         &schema.YesToken{TotalVolume: decimal.RequireFromString("100")},
			NoToken:          &schema.NoToken{TotalVolume: decimal.RequireFromString("50")},
			YesTokenHoldings: []schema.YesTokenHolding{{ID: "h1"}},
		}}
		e := NewExecutor(fs, nil)

		data, err := e.GetQuestion(ctx, "q1")
		require.NoError(t, err)

		assert.Equal(t, "q1", data.Question.ID)
		assert.Equal(t, 1, data.MarketStats.TotalParticipants)
		assert.Equal(t, "61.54", data.MarketStats.YesPercentage)
		assert.True(t, data.MarketStats.TotalVolume.Equal(decimal.RequireFromString("150")))
	})

	t.Run("missing question surfaces the sentinel", func(t *testing.T) {
		e := NewExecutor(&fakeStore{}, nil)

		_, err := e.GetQuestion(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})
}

func TestGetPriceHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	newExec := func(fs *fakeStore, cache MarketCache) *apiExecutor {
		e := NewExecutor(fs, cache).(*apiExecutor)
		e.now = func() time.Time { return now }
		return e
	}

	t.Run("window lower bound follows the timeframe", func(t *testing.T) {
		fs := &fakeStore{}
		e := newExec(fs, nil)

		_, err := e.GetPriceHistory(ctx, "q1", domain.TimeframeDay, "1h")
		require.NoError(t, err)
		assert.Equal(t, now.Add(-24*time.Hour), fs.txSince)
	})

	t.Run("echoes timeframe and interval", func(t *testing.T) {
		e := newExec(&fakeStore{}, nil)

		data, err := e.GetPriceHistory(ctx, "q1", domain.TimeframeHour, "5m")
		require.NoError(t, err)
		assert.Equal(t, domain.TimeframeHour, data.Timeframe)
		assert.Equal(t, "5m", data.Interval)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		fs := &fakeStore{transactions: []schema.Transaction{{
			TokenType:     domain.TokenTypeYes,
			PricePerToken: decimal.RequireFromString("1.20"),
			CreatedAt:     now.Add(-time.Hour),
		}}}
		cache := newFakeCache()
		e := newExec(fs, cache)

		first, err := e.GetPriceHistory(ctx, "q1", domain.TimeframeWeek, "1h")
		require.NoError(t, err)
		assert.Equal(t, 1, fs.txCalls)

		second, err := e.GetPriceHistory(ctx, "q1", domain.TimeframeWeek, "1h")
		require.NoError(t, err)
		assert.Equal(t, 1, fs.txCalls)
		assert.Equal(t, first.PriceHistory, second.PriceHistory)
	})

	t.Run("cache failure degrades to the store", func(t *testing.T) {
		fs := &fakeStore{}
		e := newExec(fs, &fakeCache{err: errors.New("redis down")})

		_, err := e.GetPriceHistory(ctx, "q1", domain.TimeframeWeek, "1h")
		require.NoError(t, err)
		assert.Equal(t, 1, fs.txCalls)
	})
}

func TestGetOrderBook(t *testing.T) {
	ctx := context.Background()

	t.Run("builds ladders from pending orders", func(t *testing.T) {
		fs := &fakeStore{orders: []schema.P2POrder{
			{
				ID: "o1", OrderType: domain.OrderTypeSell, TokenType: domain.TokenTypeYes,
				PricePerToken: decimal.RequireFromString("1.30"), RemainingQuantity: 100,
			},
			{
				ID: "o2", OrderType: domain.OrderTypeSell, TokenType: domain.TokenTypeYes,
				PricePerToken: decimal.RequireFromString("1.20"), RemainingQuantity: 50,
			},
		}}
		e := NewExecutor(fs, nil)

		book, err := e.GetOrderBook(ctx, "q1")
		require.NoError(t, err)
		require.Len(t, book.YesOrders.Sells, 2)
		assert.Equal(t, "o2", book.YesOrders.Sells[0].ID)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		fs := &fakeStore{}
		cache := newFakeCache()
		e := NewExecutor(fs, cache)

		_, err := e.GetOrderBook(ctx, "q1")
		require.NoError(t, err)
		_, err = e.GetOrderBook(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, 1, fs.orderCalls)
	})
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the synced user", func(t *testing.T) {
		fs := &fakeStore{user: &schema.User{ID: "u1", ProviderUserID: "user_abc", Email: "a@b.c"}}
		e := NewExecutor(fs, nil)

		user, err := e.GetCurrentUser(ctx, "user_abc")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "user_abc", user.ProviderUserID)
	})

	t.Run("unknown subject surfaces the sentinel", func(t *testing.T) {
		e := NewExecutor(&fakeStore{}, nil)

		_, err := e.GetCurrentUser(ctx, "user_missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
