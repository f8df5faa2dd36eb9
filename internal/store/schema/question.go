package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
)

// Question represents the questions table - a binary-outcome prediction market.
// Prices follow a constant-product-style inverse relationship at creation time:
// current price = ConstantValue / circulating tokens per side. The relationship
// is not re-enforced on read; persisted values are trusted.
type Question struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Title is the market question shown to users
	Title string `gorm:"column:title;not null;type:text"`
	// Description explains the resolution criteria
	Description string `gorm:"column:description;not null;type:text"`
	// Category groups markets for browsing (e.g. "crypto", "politics")
	Category string `gorm:"column:category;not null;type:text;index"`
	// ImageURL is an optional illustration for the market
	ImageURL *string `gorm:"column:image_url;type:text"`
	// ResolutionDate is when the market is scheduled to resolve
	ResolutionDate time.Time `gorm:"column:resolution_date;not null;type:timestamptz"`
	// ConstantValue is the fixed numerator C used to derive side prices
	ConstantValue decimal.Decimal `gorm:"column:constant_value;not null;type:decimal(32,18)"`
	// TotalYesTokens is the circulating YES token count
	TotalYesTokens int64 `gorm:"column:total_yes_tokens;not null"`
	// TotalNoTokens is the circulating NO token count
	TotalNoTokens int64 `gorm:"column:total_no_tokens;not null"`
	// CurrentYesPrice is the persisted YES price (C / TotalYesTokens at creation)
	CurrentYesPrice decimal.Decimal `gorm:"column:current_yes_price;not null;type:decimal(32,18)"`
	// CurrentNoPrice is the persisted NO price (C / TotalNoTokens at creation)
	CurrentNoPrice decimal.Decimal `gorm:"column:current_no_price;not null;type:decimal(32,18)"`
	// InitialTokenSupply is the per-side supply the market launched with
	InitialTokenSupply int64 `gorm:"column:initial_token_supply;not null"`
	// InitialTokenPrice is the launch price per token
	InitialTokenPrice decimal.Decimal `gorm:"column:initial_token_price;not null;type:decimal(32,18)"`
	// Status is the market lifecycle state
	Status domain.QuestionStatus `gorm:"column:status;not null;type:text;index"`
	// CreatedByID references the user who created the market
	CreatedByID string `gorm:"column:created_by_id;not null;type:uuid"`
	// CreatedAt is when the market was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the market was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Creator          *User             `gorm:"foreignKey:CreatedByID"`
	YesToken         *YesToken         `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	NoToken          *NoToken          `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	YesTokenHoldings []YesTokenHolding `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	NoTokenHoldings  []NoTokenHolding  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	MarketResolution *MarketResolution `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Question model
func (Question) TableName() string {
	return "questions"
}
