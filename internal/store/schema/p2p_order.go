package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
)

// P2POrder represents the p2p_orders table - a resting peer-to-peer offer to
// buy or sell one side's tokens at a fixed price. RemainingQuantity decreases
// as an external matching process fills the order; this service only reads
// PENDING rows with remaining quantity.
type P2POrder struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID references the order owner
	UserID string `gorm:"column:user_id;not null;type:uuid;index"`
	// QuestionID references the market
	QuestionID string `gorm:"column:question_id;not null;type:uuid;index:idx_p2p_orders_question_status,priority:1"`
	// OrderType is the order direction (BUY or SELL)
	OrderType domain.OrderType `gorm:"column:order_type;not null;type:text"`
	// TokenType is the market side (YES or NO)
	TokenType domain.TokenType `gorm:"column:token_type;not null;type:text"`
	// Quantity is the original order size
	Quantity int64 `gorm:"column:quantity;not null"`
	// PricePerToken is the limit price
	PricePerToken decimal.Decimal `gorm:"column:price_per_token;not null;type:decimal(32,18)"`
	// TotalAmount is the original order value (PricePerToken * Quantity)
	TotalAmount decimal.Decimal `gorm:"column:total_amount;not null;type:decimal(32,18)"`
	// RemainingQuantity is the unfilled portion of the order
	RemainingQuantity int64 `gorm:"column:remaining_quantity;not null"`
	// Status is the order lifecycle state, owned by the matching process
	Status domain.OrderStatus `gorm:"column:status;not null;type:text;index:idx_p2p_orders_question_status,priority:2"`
	// ExpiresAt is when the order lapses, if an expiry was set
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	// CreatedAt is when the order was placed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the order was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the P2POrder model
func (P2POrder) TableName() string {
	return "p2p_orders"
}
