package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestFormatProspects(t *testing.T) {
	prospects := []model.Prospect{
		{
			Candidate:        model.Candidate{Name: "Acme Plumbing", Domain: "acmeplumbing.com.au"},
			PriorityScore:    62.5,
			FitScore:         80,
			OpportunityScore: 70,
			CompetitionScore: 50,
			IndustryCategory: "commoditised",
			OpportunityNotes: "No analytics detected - they can't measure marketing ROI",
		},
		{
			Candidate:        model.Candidate{Name: "Old School Plumbing"},
			PriorityScore:    58.0,
			FitScore:         40,
			OpportunityScore: 95,
			CompetitionScore: 50,
			Degraded:         true,
		},
	}

	var b strings.Builder
	formatProspects(&b, prospects)
	out := b.String()

	assert.Contains(t, out, "Acme Plumbing")
	assert.Contains(t, out, "62.5")
	assert.Contains(t, out, "(no website)")
	assert.Contains(t, out, "[degraded]")
}

func TestFormatSummary(t *testing.T) {
	s := model.RunSummary{
		RunID:          "run-1",
		Searched:       12,
		Deduplicated:   8,
		EnrichedOK:     6,
		EnrichedFailed: 2,
		APICalls:       5,
		Duration:       1500 * time.Millisecond,
		ChannelErrors:  map[model.Channel]string{model.ChannelMaps: "timeout after retries"},
		CrawlErrors:    map[model.CrawlErrorKind]int{model.CrawlErrorNetwork: 2},
		StoreError:     "disk full",
	}

	var b strings.Builder
	formatSummary(&b, s)
	out := b.String()

	assert.Contains(t, out, "Searched:")
	assert.Contains(t, out, "6 ok, 2 failed")
	assert.Contains(t, out, "Channel maps:")
	assert.Contains(t, out, "Crawl network:")
	assert.Contains(t, out, "disk full")
}

func TestParseChannels(t *testing.T) {
	got, err := parseChannels([]string{"ads", "Organic"})
	require.NoError(t, err)
	assert.Equal(t, []model.Channel{model.ChannelAds, model.ChannelOrganic}, got)

	_, err = parseChannels([]string{"video"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel")

	got, err = parseChannels(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
