package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store/schema"
)

// PricePoint is one minute bucket of the reconstructed price series. A nil
// side means no transaction of that side has occurred yet within the window.
type PricePoint struct {
	Timestamp time.Time        `json:"timestamp"`
	YesPrice  *decimal.Decimal `json:"yesPrice"`
	NoPrice   *decimal.Decimal `json:"noPrice"`
}

// BuildPriceHistory reconstructs a YES/NO price series from BUY transactions.
// Transactions are bucketed by truncating their timestamp to the minute; the
// latest price seen per side wins within a bucket. Buckets are then sorted
// chronologically and forward-filled: a bucket missing a side inherits the
// most recent earlier observation of that side. The fold is deterministic
// for a given transaction set.
func BuildPriceHistory(transactions []schema.Transaction) []PricePoint {
	buckets := make(map[time.Time]*PricePoint)
	for i := range transactions {
		tx := &transactions[i]
		key := tx.CreatedAt.Truncate(time.Minute)

		point, ok := buckets[key]
		if !ok {
			// The bucket keeps the first transaction's full timestamp
			point = &PricePoint{Timestamp: tx.CreatedAt}
			buckets[key] = point
		}

		price := tx.PricePerToken
		if tx.TokenType == domain.TokenTypeYes {
			point.YesPrice = &price
		} else {
			point.NoPrice = &price
		}
	}

	points := make([]PricePoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	// Forward fill: carry the last observed price of each side into
	// buckets that lack it
	var lastYes, lastNo *decimal.Decimal
	for i := range points {
		if points[i].YesPrice != nil {
			lastYes = points[i].YesPrice
		} else {
			points[i].YesPrice = lastYes
		}
		if points[i].NoPrice != nil {
			lastNo = points[i].NoPrice
		} else {
			points[i].NoPrice = lastNo
		}
	}

	return points
}
