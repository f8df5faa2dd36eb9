package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// YesTokenHolding represents the yes_token_holdings table - a user's
// accumulated YES position in one market. One row per (user, question).
type YesTokenHolding struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID references the holder
	UserID string `gorm:"column:user_id;not null;type:uuid;uniqueIndex:idx_yes_holdings_user_question,priority:1"`
	// QuestionID references the market
	QuestionID string `gorm:"column:question_id;not null;type:uuid;uniqueIndex:idx_yes_holdings_user_question,priority:2"`
	// Quantity is the number of tokens held
	Quantity int64 `gorm:"column:quantity;not null"`
	// AverageBuyPrice is the volume-weighted acquisition price
	AverageBuyPrice decimal.Decimal `gorm:"column:average_buy_price;not null;type:decimal(32,18)"`
	// TotalInvested is the cumulative amount spent building the position
	TotalInvested decimal.Decimal `gorm:"column:total_invested;not null;type:decimal(32,18)"`
	// AvailableForSale is the quantity not locked in resting orders
	AvailableForSale int64 `gorm:"column:available_for_sale;not null"`
	// CreatedAt is when the position was opened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the position was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the YesTokenHolding model
func (YesTokenHolding) TableName() string {
	return "yes_token_holdings"
}

// NoTokenHolding represents the no_token_holdings table - a user's
// accumulated NO position in one market. One row per (user, question).
type NoTokenHolding struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID references the holder
	UserID string `gorm:"column:user_id;not null;type:uuid;uniqueIndex:idx_no_holdings_user_question,priority:1"`
	// QuestionID references the market
	QuestionID string `gorm:"column:question_id;not null;type:uuid;uniqueIndex:idx_no_holdings_user_question,priority:2"`
	// Quantity is the number of tokens held
	Quantity int64 `gorm:"column:quantity;not null"`
	// AverageBuyPrice is the volume-weighted acquisition price
	AverageBuyPrice decimal.Decimal `gorm:"column:average_buy_price;not null;type:decimal(32,18)"`
	// TotalInvested is the cumulative amount spent building the position
	TotalInvested decimal.Decimal `gorm:"column:total_invested;not null;type:decimal(32,18)"`
	// AvailableForSale is the quantity not locked in resting orders
	AvailableForSale int64 `gorm:"column:available_for_sale;not null"`
	// CreatedAt is when the position was opened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the position was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the NoTokenHolding model
func (NoTokenHolding) TableName() string {
	return "no_token_holdings"
}
