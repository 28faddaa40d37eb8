package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestAnalyzeCompetitionSaturatedMarket(t *testing.T) {
	market := model.MarketSnapshot{
		AdsCount:     5,
		OrganicCount: 10,
		MapsCount:    20,
		Names:        []string{"Jim's Mowing Brisbane", "Fantastic Services", "Ultra Tune Annerley"},
	}

	got := AnalyzeCompetition(market)

	// 100 - 30 ads - 20 organic - 15 maps - 25 franchises = 10
	assert.Equal(t, 10, got.Score)
	assert.Equal(t, SaturationSaturated, got.Saturation)
	assert.True(t, got.HasMajorFranchise)
	assert.Equal(t, []string{"Jim's Group", "Fantastic Services", "Ultra Tune"}, got.Franchises)
	assert.Contains(t, got.Notes, "Heavy ads (5)")
}

func TestAnalyzeCompetitionOpenMarket(t *testing.T) {
	market := model.MarketSnapshot{
		OrganicCount: 2,
		MapsCount:    3,
		Names:        []string{"Local Mower Guy", "Backyard Blitz Lawns"},
	}

	got := AnalyzeCompetition(market)

	// 100 + 5 thin organic + 5 sparse maps = 100 (clamped)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, SaturationLow, got.Saturation)
	assert.False(t, got.HasMajorFranchise)
	assert.Contains(t, got.Notes, "No ads")
	assert.Contains(t, got.Notes, "Thin organic - ranking opportunity")
}

func TestAnalyzeCompetitionModerate(t *testing.T) {
	market := model.MarketSnapshot{
		AdsCount:     2,
		OrganicCount: 8,
		MapsCount:    12,
		Names:        []string{"Ray White Paddington"},
	}

	got := AnalyzeCompetition(market)

	// 100 - 20 ads - 15 organic - 10 maps - 15 franchise = 40
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, SaturationHigh, got.Saturation)
	assert.Equal(t, []string{"Ray White"}, got.Franchises)
}

func TestAnalyzeCompetitionEmptySnapshotUsesDefault(t *testing.T) {
	got := AnalyzeCompetition(model.MarketSnapshot{})

	assert.Equal(t, 50, got.Score)
	assert.Equal(t, SaturationMedium, got.Saturation)
	assert.Equal(t, []string{"No search context - using default"}, got.Notes)
}

func TestDetectFranchisesDeduplicates(t *testing.T) {
	names := []string{"Jim's Mowing North", "Jim's Mowing South", "Anytime Fitness CBD"}
	got := detectFranchises(names)
	assert.Equal(t, []string{"Jim's Group", "Anytime Fitness"}, got)
}

func TestCompetitionNotesRendering(t *testing.T) {
	analysis := AnalyzeCompetition(model.MarketSnapshot{
		AdsCount:     4,
		OrganicCount: 10,
		MapsCount:    20,
		Names:        []string{"Jim's Mowing"},
	})

	notes := CompetitionNotes(analysis)
	require.NotEmpty(t, notes)
	assert.Contains(t, notes, "difficult to compete")
	// Only the saturation line plus the top three detail notes.
	assert.Contains(t, notes, "Heavy ads (4)")
}

func TestSaturationTiers(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, SaturationLow},
		{76, SaturationLow},
		{75, SaturationMedium},
		{51, SaturationMedium},
		{50, SaturationHigh},
		{26, SaturationHigh},
		{25, SaturationSaturated},
		{0, SaturationSaturated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, saturationTier(tt.score), "score %d", tt.score)
	}
}
