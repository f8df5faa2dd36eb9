package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// YesToken represents the yes_tokens table - the YES side of a market's
// token pair. Exactly one row exists per question.
type YesToken struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// QuestionID references the owning market
	QuestionID string `gorm:"column:question_id;not null;uniqueIndex;type:uuid"`
	// CurrentPrice is the latest YES token price
	CurrentPrice decimal.Decimal `gorm:"column:current_price;not null;type:decimal(32,18)"`
	// AvailableSupply is the unissued token count remaining from the initial supply
	AvailableSupply int64 `gorm:"column:available_supply;not null"`
	// CirculatingSupply is the token count held by users
	CirculatingSupply int64 `gorm:"column:circulating_supply;not null"`
	// TotalVolume is the cumulative traded value on this side
	TotalVolume decimal.Decimal `gorm:"column:total_volume;not null;type:decimal(32,18)"`
	// CreatedAt is when the token pair was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the token row was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the YesToken model
func (YesToken) TableName() string {
	return "yes_tokens"
}

// NoToken represents the no_tokens table - the NO side of a market's
// token pair. Exactly one row exists per question.
type NoToken struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// QuestionID references the owning market
	QuestionID string `gorm:"column:question_id;not null;uniqueIndex;type:uuid"`
	// CurrentPrice is the latest NO token price
	CurrentPrice decimal.Decimal `gorm:"column:current_price;not null;type:decimal(32,18)"`
	// AvailableSupply is the unissued token count remaining from the initial supply
	AvailableSupply int64 `gorm:"column:available_supply;not null"`
	// CirculatingSupply is the token count held by users
	CirculatingSupply int64 `gorm:"column:circulating_supply;not null"`
	// TotalVolume is the cumulative traded value on this side
	TotalVolume decimal.Decimal `gorm:"column:total_volume;not null;type:decimal(32,18)"`
	// CreatedAt is when the token pair was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the token row was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NoToken model
func (NoToken) TableName() string {
	return "no_tokens"
}
