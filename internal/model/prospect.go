package model

import "time"

// ScoreComponent is one term of a weighted score: raw value in [0,1],
// weight after renormalization, contribution = raw * weight * 100.
type ScoreComponent struct {
	Name         string  `json:"name"`
	Raw          float64 `json:"raw"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown is the ordered component list behind a score, kept for
// explainability and test assertions.
type ScoreBreakdown []ScoreComponent

// Total sums the contributions.
func (b ScoreBreakdown) Total() float64 {
	var sum float64
	for _, c := range b {
		sum += c.Contribution
	}
	return sum
}

// Prospect is the final output unit: a scored, ranked candidate.
// Read-only once created by the scoring engine.
type Prospect struct {
	Candidate Candidate       `json:"candidate"`
	Signals   *WebsiteSignals `json:"signals,omitempty"`

	FitScore         int     `json:"fit_score"`
	OpportunityScore int     `json:"opportunity_score"`
	CompetitionScore int     `json:"competition_score"`
	PriorityScore    float64 `json:"priority_score"`

	FitBreakdown         ScoreBreakdown `json:"fit_breakdown,omitempty"`
	OpportunityBreakdown ScoreBreakdown `json:"opportunity_breakdown,omitempty"`

	IndustryCategory   string  `json:"industry_category"`
	IndustryMultiplier float64 `json:"industry_multiplier"`

	MarketSaturation     string `json:"market_saturation"`
	FranchiseCompetition bool   `json:"franchise_competition"`

	OpportunityNotes string `json:"opportunity_notes"`
	CompetitionNotes string `json:"competition_notes,omitempty"`
	Summary          string `json:"summary"`

	// Degraded marks prospects scored without website signals
	// (crawl failure or skip-enrichment).
	Degraded bool `json:"degraded,omitempty"`

	ScoredAt time.Time `json:"scored_at"`
}

// RunSummary reports per-run counts for the caller.
type RunSummary struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	RunID    string `json:"run_id"`

	Searched       int `json:"searched"`
	Deduplicated   int `json:"deduplicated"`
	EnrichedOK     int `json:"enriched_ok"`
	EnrichedFailed int `json:"enriched_failed"`

	// ChannelErrors maps a channel to the failure that emptied it.
	ChannelErrors map[Channel]string `json:"channel_errors,omitempty"`

	// CrawlErrors counts enrichment failures per kind.
	CrawlErrors map[CrawlErrorKind]int `json:"crawl_errors,omitempty"`

	APICalls   int           `json:"api_calls"`
	Duration   time.Duration `json:"duration"`
	StoreError string        `json:"store_error,omitempty"`
}

// ProgressEvent is emitted at stage boundaries for a best-effort
// progress sink.
type ProgressEvent struct {
	Stage     string    `json:"stage"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
