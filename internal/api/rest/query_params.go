package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store"
)

const (
	MAX_PAGE_SIZE = 100

	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Desc() bool {
	return o == OrderDesc
}

func (o Order) Asc() bool {
	return o == OrderAsc
}

// sortFields is the allow-list of API-level sort fields for the listing
var sortFields = map[string]bool{
	"createdAt":      true,
	"resolutionDate": true,
	"title":          true,
	"category":       true,
}

// ParseListQuestionsQuery parses query parameters for GET /questions.
// Every parameter is textual; out-of-range, non-numeric or unrecognized
// values deterministically fall back to the documented defaults instead
// of failing the request.
func ParseListQuestionsQuery(c *gin.Context) store.QuestionFilter {
	filter := store.QuestionFilter{
		Page:     parsePositiveInt(c.Query("page"), DEFAULT_PAGE),
		Limit:    parsePositiveInt(c.Query("limit"), DEFAULT_LIMIT),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	if filter.Limit > MAX_PAGE_SIZE {
		filter.Limit = MAX_PAGE_SIZE
	}

	status := domain.QuestionStatus(c.DefaultQuery("status", string(domain.QuestionStatusActive)))
	if !status.Valid() {
		status = domain.QuestionStatusActive
	}
	filter.Status = status

	sortBy := c.DefaultQuery("sortBy", "createdAt")
	if !sortFields[sortBy] {
		sortBy = "createdAt"
	}
	filter.SortBy = sortBy

	order := Order(c.DefaultQuery("sortOrder", string(OrderDesc)))
	if !order.Asc() && !order.Desc() {
		order = OrderDesc
	}
	filter.SortDesc = order.Desc()

	return filter
}

// PriceHistoryQueryParams holds query parameters for
// GET /questions/:id/price-history
type PriceHistoryQueryParams struct {
	Timeframe domain.Timeframe
	// Interval is accepted and echoed; bucketing is always per minute
	Interval string
}

// ParsePriceHistoryQuery parses query parameters for the price-history
// endpoint. Unrecognized timeframes fall back to the default window.
func ParsePriceHistoryQuery(c *gin.Context) PriceHistoryQueryParams {
	return PriceHistoryQueryParams{
		Timeframe: domain.ParseTimeframe(c.DefaultQuery("timeframe", string(domain.DefaultTimeframe))),
		Interval:  c.DefaultQuery("interval", "1h"),
	}
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
