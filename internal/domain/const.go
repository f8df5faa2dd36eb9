package domain

import "time"

// QuestionStatus represents the lifecycle state of a market question
type QuestionStatus string

const (
	// QuestionStatusActive means the market is open for trading
	QuestionStatusActive QuestionStatus = "ACTIVE"
	// QuestionStatusPaused means trading is temporarily suspended
	QuestionStatusPaused QuestionStatus = "PAUSED"
	// QuestionStatusResolved means the market outcome has been decided
	QuestionStatusResolved QuestionStatus = "RESOLVED"
	// QuestionStatusCancelled means the market was cancelled before resolution
	QuestionStatusCancelled QuestionStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known question states
func (s QuestionStatus) Valid() bool {
	switch s {
	case QuestionStatusActive, QuestionStatusPaused, QuestionStatusResolved, QuestionStatusCancelled:
		return true
	}
	return false
}

// TokenType identifies which side of a binary market a token belongs to
type TokenType string

const (
	// TokenTypeYes represents the YES side of a market
	TokenTypeYes TokenType = "YES"
	// TokenTypeNo represents the NO side of a market
	TokenTypeNo TokenType = "NO"
)

// OrderType represents the direction of a peer-to-peer order
type OrderType string

const (
	// OrderTypeBuy is a resting offer to buy tokens
	OrderTypeBuy OrderType = "BUY"
	// OrderTypeSell is a resting offer to sell tokens
	OrderTypeSell OrderType = "SELL"
)

// OrderStatus represents the lifecycle state of a peer-to-peer order.
// Fill mechanics are owned by an external matching process; this service
// only reads PENDING orders.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

// TransactionType represents the direction of a transaction log entry
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// TransactionSource identifies where a transaction originated
type TransactionSource string

const (
	// TransactionSourcePlatformMint is a purchase minted directly by the platform
	TransactionSourcePlatformMint TransactionSource = "PLATFORM_MINT"
	// TransactionSourceP2P is a trade settled between two users
	TransactionSourceP2P TransactionSource = "P2P"
)

// Timeframe selects the lookback window for price-history queries
type Timeframe string

const (
	TimeframeHour  Timeframe = "1h"
	TimeframeDay   Timeframe = "1d"
	TimeframeWeek  Timeframe = "7d"
	TimeframeMonth Timeframe = "30d"

	// DefaultTimeframe is used when the client omits or sends an
	// unrecognized timeframe value
	DefaultTimeframe = TimeframeWeek
)

// ParseTimeframe maps a raw query value onto a known timeframe,
// falling back to DefaultTimeframe for anything unrecognized
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case TimeframeHour, TimeframeDay, TimeframeWeek, TimeframeMonth:
		return Timeframe(s)
	}
	return DefaultTimeframe
}

// Duration returns the lookback window covered by the timeframe
func (t Timeframe) Duration() time.Duration {
	switch t {
	case TimeframeHour:
		return time.Hour
	case TimeframeDay:
		return 24 * time.Hour
	case TimeframeMonth:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}
