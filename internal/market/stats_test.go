package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/openpredict/market-api/internal/store/schema"
)

func TestComputeStats(t *testing.T) {
	t.Run("full question", func(t *testing.T) {
		question := &schema.Question{
			TotalYesTokens: 8000,
			TotalNoTokens:  5000,
			YesToken:       &schema.YesToken{TotalVolume: decimal.RequireFromString("1200.50")},
			NoToken:        &schema.NoToken{TotalVolume: decimal.RequireFromString("799.50")},
			YesTokenHoldings: []schema.YesTokenHolding{
				{ID: "h1"}, {ID: "h2"}, {ID: "h3"},
			},
			NoTokenHoldings: []schema.NoTokenHolding{
				{ID: "h4"},
			},
		}

		stats := ComputeStats(question)

		assert.Equal(t, 4, stats.TotalParticipants)
		assert.Equal(t, 3, stats.YesHolders)
		assert.Equal(t, 1, stats.NoHolders)
		assert.Equal(t, int64(8000), stats.TotalYesTokens)
		assert.Equal(t, int64(5000), stats.TotalNoTokens)
		assert.True(t, stats.TotalVolume.Equal(decimal.RequireFromString("2000")))
		assert.Equal(t, "61.54", stats.YesPercentage)
		assert.Equal(t, "38.46", stats.NoPercentage)
	})

	t.Run("missing token rows count as zero volume", func(t *testing.T) {
		stats := ComputeStats(&schema.Question{})

		assert.Equal(t, 0, stats.TotalParticipants)
		assert.True(t, stats.TotalVolume.IsZero())
		assert.Equal(t, "0", stats.YesPercentage)
		assert.Equal(t, "0", stats.NoPercentage)
	})
}
