package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
)

// Transaction represents the transactions table - the append-only trade log.
// Rows are never updated or deleted by this service.
type Transaction struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID references the trading user
	UserID string `gorm:"column:user_id;not null;type:uuid;index"`
	// QuestionID references the market traded
	QuestionID string `gorm:"column:question_id;not null;type:uuid;index:idx_transactions_question_created,priority:1"`
	// Type is the trade direction (BUY or SELL)
	Type domain.TransactionType `gorm:"column:type;not null;type:text"`
	// Source identifies platform mints vs. peer-to-peer settlements
	Source domain.TransactionSource `gorm:"column:source;not null;type:text"`
	// TokenType is the market side traded (YES or NO)
	TokenType domain.TokenType `gorm:"column:token_type;not null;type:text"`
	// Quantity is the number of tokens traded
	Quantity int64 `gorm:"column:quantity;not null"`
	// PricePerToken is the execution price
	PricePerToken decimal.Decimal `gorm:"column:price_per_token;not null;type:decimal(32,18)"`
	// TotalAmount is the total trade value
	TotalAmount decimal.Decimal `gorm:"column:total_amount;not null;type:decimal(32,18)"`
	// CreatedAt is the execution timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index:idx_transactions_question_created,priority:2"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
