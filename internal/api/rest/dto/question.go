package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/market"
	"github.com/openpredict/market-api/internal/store"
	"github.com/openpredict/market-api/internal/store/schema"
)

// TokenSummary is the compact per-side token projection used in listings
type TokenSummary struct {
	CurrentPrice      decimal.Decimal `json:"currentPrice"`
	CirculatingSupply int64           `json:"circulatingSupply"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
}

// HoldingCounts carries per-side holder counts. The field names follow the
// relation-count shape clients already consume.
type HoldingCounts struct {
	YesTokenHoldings int64 `json:"yesTokenHoldings"`
	NoTokenHoldings  int64 `json:"noTokenHoldings"`
}

// QuestionSummary is one market in the paginated listing
type QuestionSummary struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Category           string                `json:"category"`
	ImageURL           *string               `json:"imageUrl"`
	ResolutionDate     time.Time             `json:"resolutionDate"`
	ConstantValue      decimal.Decimal       `json:"constantValue"`
	TotalYesTokens     int64                 `json:"totalYesTokens"`
	TotalNoTokens      int64                 `json:"totalNoTokens"`
	CurrentYesPrice    decimal.Decimal       `json:"currentYesPrice"`
	CurrentNoPrice     decimal.Decimal       `json:"currentNoPrice"`
	InitialTokenSupply int64                 `json:"initialTokenSupply"`
	InitialTokenPrice  decimal.Decimal       `json:"initialTokenPrice"`
	Status             domain.QuestionStatus `json:"status"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	Creator            *UserSummary          `json:"creator"`
	YesToken           *TokenSummary         `json:"yesToken"`
	NoToken            *TokenSummary         `json:"noToken"`
	Count              HoldingCounts         `json:"_count"`
}

// TokenDetail is the full per-side token row in the detail view
type TokenDetail struct {
	ID                string          `json:"id"`
	QuestionID        string          `json:"questionId"`
	CurrentPrice      decimal.Decimal `json:"currentPrice"`
	AvailableSupply   int64           `json:"availableSupply"`
	CirculatingSupply int64           `json:"circulatingSupply"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// HoldingEntry is one holder's position in the detail view
type HoldingEntry struct {
	Quantity        int64           `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"averageBuyPrice"`
	User            *UserSummary    `json:"user"`
}

// ResolutionDetail is the recorded outcome of a resolved market
type ResolutionDetail struct {
	ID           string           `json:"id"`
	QuestionID   string           `json:"questionId"`
	Outcome      domain.TokenType `json:"outcome"`
	ResolvedByID string           `json:"resolvedById"`
	Notes        *string          `json:"notes"`
	ResolvedAt   time.Time        `json:"resolvedAt"`
}

// QuestionDetail is the full market in the detail view
type QuestionDetail struct {
	QuestionSummary

	YesToken         *TokenDetail      `json:"yesToken"`
	NoToken          *TokenDetail      `json:"noToken"`
	YesTokenHoldings []HoldingEntry    `json:"yesTokenHoldings"`
	NoTokenHoldings  []HoldingEntry    `json:"noTokenHoldings"`
	MarketResolution *ResolutionDetail `json:"marketResolution"`
}

// Pagination is the listing page metadata
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives the page metadata from the matched total. Page and
// limit are clamped so callers bypassing the query parser cannot divide by
// zero.
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// QuestionListData is the payload of the market listing endpoint
type QuestionListData struct {
	Questions  []QuestionSummary `json:"questions"`
	Pagination Pagination        `json:"pagination"`
}

// QuestionDetailData is the payload of the market detail endpoint
type QuestionDetailData struct {
	Question    QuestionDetail `json:"question"`
	MarketStats market.Stats   `json:"marketStats"`
}

// PriceHistoryData is the payload of the price-history endpoint
type PriceHistoryData struct {
	PriceHistory []market.PricePoint `json:"priceHistory"`
	Timeframe    domain.Timeframe    `json:"timeframe"`
	Interval     string              `json:"interval"`
}

func mapQuestionFields(question *schema.Question) QuestionSummary {
	return QuestionSummary{
		ID:                 question.ID,
		Title:              question.Title,
		Description:        question.Description,
		Category:           question.Category,
		ImageURL:           question.ImageURL,
		ResolutionDate:     question.ResolutionDate,
		ConstantValue:      question.ConstantValue,
		TotalYesTokens:     question.TotalYesTokens,
		TotalNoTokens:      question.TotalNoTokens,
		CurrentYesPrice:    question.CurrentYesPrice,
		CurrentNoPrice:     question.CurrentNoPrice,
		InitialTokenSupply: question.InitialTokenSupply,
		InitialTokenPrice:  question.InitialTokenPrice,
		Status:             question.Status,
		CreatedAt:          question.CreatedAt,
		UpdatedAt:          question.UpdatedAt,
		Creator:            MapUserSummary(question.Creator),
	}
}

// MapQuestionSummary maps a listed question row with its holder counts onto
// the listing projection
func MapQuestionSummary(row *store.QuestionWithHolderCounts) QuestionSummary {
	summary := mapQuestionFields(row.Question)
	summary.Count = HoldingCounts{
		YesTokenHoldings: row.YesHolders,
		NoTokenHoldings:  row.NoHolders,
	}

	if token := row.Question.YesToken; token != nil {
		summary.YesToken = &TokenSummary{
			CurrentPrice:      token.CurrentPrice,
			CirculatingSupply: token.CirculatingSupply,
			TotalVolume:       token.TotalVolume,
		}
	}
	if token := row.Question.NoToken; token != nil {
		summary.NoToken = &TokenSummary{
			CurrentPrice:      token.CurrentPrice,
			CirculatingSupply: token.CirculatingSupply,
			TotalVolume:       token.TotalVolume,
		}
	}

	return summary
}

// MapQuestionDetail maps a fully loaded question row onto the detail
// projection, including holdings and any resolution
func MapQuestionDetail(question *schema.Question) QuestionDetail {
	detail := QuestionDetail{
		QuestionSummary:  mapQuestionFields(question),
		YesTokenHoldings: mapYesHoldings(question.YesTokenHoldings),
		NoTokenHoldings:  mapNoHoldings(question.NoTokenHoldings),
	}
	detail.Count = HoldingCounts{
		YesTokenHoldings: int64(len(question.YesTokenHoldings)),
		NoTokenHoldings:  int64(len(question.NoTokenHoldings)),
	}

	if token := question.YesToken; token != nil {
		detail.YesToken = &TokenDetail{
			ID:                token.ID,
			QuestionID:        token.QuestionID,
			CurrentPrice:      token.CurrentPrice,
			AvailableSupply:   token.AvailableSupply,
			CirculatingSupply: token.CirculatingSupply,
			TotalVolume:       token.TotalVolume,
			CreatedAt:         token.CreatedAt,
			UpdatedAt:         token.UpdatedAt,
		}
	}
	if token := question.NoToken; token != nil {
		detail.NoToken = &TokenDetail{
			ID:                token.ID,
			QuestionID:        token.QuestionID,
			CurrentPrice:      token.CurrentPrice,
			AvailableSupply:   token.AvailableSupply,
			CirculatingSupply: token.CirculatingSupply,
			TotalVolume:       token.TotalVolume,
			CreatedAt:         token.CreatedAt,
			UpdatedAt:         token.UpdatedAt,
		}
	}

	if res := question.MarketResolution; res != nil {
		detail.MarketResolution = &ResolutionDetail{
			ID:           res.ID,
			QuestionID:   res.QuestionID,
			Outcome:      res.Outcome,
			ResolvedByID: res.ResolvedByID,
			Notes:        res.Notes,
			ResolvedAt:   res.ResolvedAt,
		}
	}

	return detail
}

func mapYesHoldings(holdings []schema.YesTokenHolding) []HoldingEntry {
	entries := make([]HoldingEntry, 0, len(holdings))
	for i := range holdings {
		entries = append(entries, HoldingEntry{
			Quantity:        holdings[i].Quantity,
			AverageBuyPrice: holdings[i].AverageBuyPrice,
			User:            MapUserSummary(holdings[i].User),
		})
	}
	return entries
}

func mapNoHoldings(holdings []schema.NoTokenHolding) []HoldingEntry {
	entries := make([]HoldingEntry, 0, len(holdings))
	for i := range holdings {
		entries = append(entries, HoldingEntry{
			Quantity:        holdings[i].Quantity,
			AverageBuyPrice: holdings[i].AverageBuyPrice,
			User:            MapUserSummary(holdings[i].User),
		})
	}
	return entries
}
