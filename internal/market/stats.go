// Package market holds the pure market computations: derived statistics,
// price-history reconstruction from the trade log, and order-book
// aggregation. Nothing here touches the store; callers pass in rows.
package market

import (
	"github.com/shopspring/decimal"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store/schema"
)

// Stats are the derived statistics for a single market
type Stats struct {
	// TotalParticipants is the count of YES holdings plus NO holdings
	TotalParticipants int `json:"totalParticipants"`
	// TotalVolume is the sum of both sides' cumulative traded value
	TotalVolume decimal.Decimal `json:"totalVolume"`
	// YesHolders is the count of YES positions
	YesHolders int `json:"yesHolders"`
	// NoHolders is the count of NO positions
	NoHolders int `json:"noHolders"`
	// TotalYesTokens is the circulating YES supply
	TotalYesTokens int64 `json:"totalYesTokens"`
	// TotalNoTokens is the circulating NO supply
	TotalNoTokens int64 `json:"totalNoTokens"`
	// YesPercentage is the YES share of circulating tokens, two decimal
	// places, or "0" when no YES tokens circulate
	YesPercentage string `json:"yesPercentage"`
	// NoPercentage is the symmetric NO share
	NoPercentage string `json:"noPercentage"`
}

// ComputeStats derives market statistics from a fully loaded question
// (tokens and holdings preloaded). Missing token rows count as zero volume.
func ComputeStats(question *schema.Question) Stats {
	volume := decimal.Zero
	if question.YesToken != nil {
		volume = volume.Add(question.YesToken.TotalVolume)
	}
	if question.NoToken != nil {
		volume = volume.Add(question.NoToken.TotalVolume)
	}

	return Stats{
		TotalParticipants: len(question.YesTokenHoldings) + len(question.NoTokenHoldings),
		TotalVolume:       volume,
		YesHolders:        len(question.YesTokenHoldings),
		NoHolders:         len(question.NoTokenHoldings),
		TotalYesTokens:    question.TotalYesTokens,
		TotalNoTokens:     question.TotalNoTokens,
		YesPercentage:     domain.SharePercentage(question.TotalYesTokens, question.TotalNoTokens),
		NoPercentage:      domain.SharePercentage(question.TotalNoTokens, question.TotalYesTokens),
	}
}
