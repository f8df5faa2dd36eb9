package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store/schema"
)

// OrderEntry is one resting order as exposed on the book
type OrderEntry struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	// UserName is the orderer's display name; empty name parts are dropped
	UserName string `json:"userName"`
	// Quantity is the unfilled portion of the order
	Quantity int64 `json:"quantity"`
	// PricePerToken is the limit price
	PricePerToken decimal.Decimal `json:"pricePerToken"`
	// TotalAmount is PricePerToken times the remaining quantity
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
}

// Ladder holds one token side's resting orders, split by direction
type Ladder struct {
	Buys  []OrderEntry `json:"buys"`
	Sells []OrderEntry `json:"sells"`
}

// OrderBook is the aggregated book for one market: a ladder per token side
type OrderBook struct {
	YesOrders Ladder `json:"yesOrders"`
	NoOrders  Ladder `json:"noOrders"`
}

// BuildOrderBook aggregates pending orders into per-side ladders and imposes
// the standard book ordering: buys by price descending (best bid first),
// sells by price ascending (best ask first). Any server-side ordering on the
// input is advisory only. Ladders are always non-nil, empty when no orders
// rest on them.
func BuildOrderBook(orders []schema.P2POrder) OrderBook {
	book := OrderBook{
		YesOrders: Ladder{Buys: []OrderEntry{}, Sells: []OrderEntry{}},
		NoOrders:  Ladder{Buys: []OrderEntry{}, Sells: []OrderEntry{}},
	}

	for i := range orders {
		order := &orders[i]

		entry := OrderEntry{
			ID:            order.ID,
			UserID:        order.UserID,
			Quantity:      order.RemainingQuantity,
			PricePerToken: order.PricePerToken,
			TotalAmount:   order.PricePerToken.Mul(decimal.NewFromInt(order.RemainingQuantity)),
			CreatedAt:     order.CreatedAt,
			ExpiresAt:     order.ExpiresAt,
		}
		if order.User != nil {
			entry.UserName = order.User.DisplayName()
		}

		ladder := &book.NoOrders
		if order.TokenType == domain.TokenTypeYes {
			ladder = &book.YesOrders
		}

		if order.OrderType == domain.OrderTypeBuy {
			ladder.Buys = append(ladder.Buys, entry)
		} else {
			ladder.Sells = append(ladder.Sells, entry)
		}
	}

	sortBuys(book.YesOrders.Buys)
	sortSells(book.YesOrders.Sells)
	sortBuys(book.NoOrders.Buys)
	sortSells(book.NoOrders.Sells)

	return book
}

func sortBuys(entries []OrderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PricePerToken.GreaterThan(entries[j].PricePerToken)
	})
}

func sortSells(entries []OrderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PricePerToken.LessThan(entries[j].PricePerToken)
	})
}
