package schema

import (
	"time"

	"github.com/openpredict/market-api/internal/domain"
)

// MarketResolution represents the market_resolutions table - the recorded
// outcome of a resolved market. At most one row exists per question.
type MarketResolution struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// QuestionID references the resolved market
	QuestionID string `gorm:"column:question_id;not null;uniqueIndex;type:uuid"`
	// Outcome is the winning side (YES or NO)
	Outcome domain.TokenType `gorm:"column:outcome;not null;type:text"`
	// ResolvedByID references the user who resolved the market
	ResolvedByID string `gorm:"column:resolved_by_id;not null;type:uuid"`
	// Notes optionally explains the resolution evidence
	Notes *string `gorm:"column:notes;type:text"`
	// ResolvedAt is when the outcome was decided
	ResolvedAt time.Time `gorm:"column:resolved_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the MarketResolution model
func (MarketResolution) TableName() string {
	return "market_resolutions"
}
