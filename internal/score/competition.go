package score

import (
	"fmt"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Market saturation tiers, highest score first. Higher competition
// score means less competition.
const (
	SaturationLow       = "low"
	SaturationMedium    = "medium"
	SaturationHigh      = "high"
	SaturationSaturated = "saturated"
)

// CompetitionAnalysis is the market-side scoring result, shared by
// every prospect in a run.
type CompetitionAnalysis struct {
	Score      int
	Saturation string

	AdsCount     int
	OrganicCount int
	MapsCount    int

	Franchises        []string
	HasMajorFranchise bool

	Notes []string
}

// franchisePatterns maps a lowercase name fragment to the franchise it
// indicates. Kept as an ordered slice so detection output is stable.
var franchisePatterns = []struct {
	pattern string
	name    string
}{
	// Home services
	{"jim's", "Jim's Group"},
	{"hire a hubby", "Hire A Hubby"},
	{"fantastic", "Fantastic Services"},
	{"dyno", "Dyno"},
	{"metropolitan plumbing", "Metropolitan Plumbing"},
	{"fallon", "Fallon Solutions"},
	{"mr splash", "Mr Splash Plumbing"},
	{"same day", "Same Day"},
	{"service today", "Service Today"},

	// Real estate
	{"mcgrath", "McGrath"},
	{"ray white", "Ray White"},
	{"lj hooker", "LJ Hooker"},
	{"harcourts", "Harcourts"},
	{"century 21", "Century 21"},
	{"belle property", "Belle Property"},
	{"raine & horne", "Raine & Horne"},
	{"barry plant", "Barry Plant"},
	{"jellis craig", "Jellis Craig"},

	// Cleaning
	{"merry maids", "Merry Maids"},
	{"molly maid", "Molly Maid"},
	{"absolute domestics", "Absolute Domestics"},
	{"home clean heroes", "Home Clean Heroes"},

	// Automotive
	{"ultra tune", "Ultra Tune"},
	{"midas", "Midas"},
	{"kmart tyre", "Kmart Tyre & Auto"},
	{"beaurepaires", "Beaurepaires"},
	{"jax", "JAX Tyres"},
	{"mycar", "mycar"},

	// Fitness and other service franchises
	{"snap fitness", "Snap Fitness"},
	{"anytime fitness", "Anytime Fitness"},
	{"f45", "F45 Training"},
}

// AnalyzeCompetition scores market saturation from the first-page
// snapshot: start at 100 and subtract for each competition signal.
// An empty snapshot yields the medium default rather than a misleading
// perfect score.
func AnalyzeCompetition(market model.MarketSnapshot) CompetitionAnalysis {
	if market.Empty() {
		return DefaultCompetition()
	}

	franchises := detectFranchises(market.Names)

	score := 100
	var notes []string

	// Ads are the strongest commercial-competition signal.
	switch {
	case market.AdsCount >= 4:
		score -= 30
		notes = append(notes, fmt.Sprintf("Heavy ads (%d)", market.AdsCount))
	case market.AdsCount >= 2:
		score -= 20
		notes = append(notes, fmt.Sprintf("Moderate ads (%d)", market.AdsCount))
	case market.AdsCount == 1:
		score -= 10
		notes = append(notes, "Some ad competition")
	default:
		notes = append(notes, "No ads")
	}

	switch {
	case market.OrganicCount >= 10:
		score -= 20
		notes = append(notes, "Full organic results")
	case market.OrganicCount >= 7:
		score -= 15
	case market.OrganicCount >= 4:
		score -= 10
	case market.OrganicCount < 3:
		score += 5
		notes = append(notes, "Thin organic - ranking opportunity")
	}

	switch {
	case market.MapsCount >= 20:
		score -= 15
		notes = append(notes, "Crowded maps")
	case market.MapsCount >= 10:
		score -= 10
	case market.MapsCount < 5:
		score += 5
		notes = append(notes, "Few maps listings")
	}

	switch {
	case len(franchises) >= 3:
		score -= 25
		notes = append(notes, "Multiple franchises: "+strings.Join(franchises[:2], ", "))
	case len(franchises) >= 1:
		score -= 15
		notes = append(notes, "Franchise: "+franchises[0])
	}

	score = clamp(float64(score))

	return CompetitionAnalysis{
		Score:             score,
		Saturation:        saturationTier(score),
		AdsCount:          market.AdsCount,
		OrganicCount:      market.OrganicCount,
		MapsCount:         market.MapsCount,
		Franchises:        franchises,
		HasMajorFranchise: len(franchises) > 0,
		Notes:             notes,
	}
}

// DefaultCompetition is the medium-competition assumption used when no
// search context is available.
func DefaultCompetition() CompetitionAnalysis {
	return CompetitionAnalysis{
		Score:      50,
		Saturation: SaturationMedium,
		Notes:      []string{"No search context - using default"},
	}
}

func detectFranchises(names []string) []string {
	haystack := strings.ToLower(strings.Join(names, " | "))

	var found []string
	seen := map[string]bool{}
	for _, fp := range franchisePatterns {
		if strings.Contains(haystack, fp.pattern) && !seen[fp.name] {
			seen[fp.name] = true
			found = append(found, fp.name)
		}
	}
	return found
}

func saturationTier(score int) string {
	switch {
	case score >= 76:
		return SaturationLow
	case score >= 51:
		return SaturationMedium
	case score >= 26:
		return SaturationHigh
	default:
		return SaturationSaturated
	}
}

// CompetitionNotes renders the human-readable market summary.
func CompetitionNotes(analysis CompetitionAnalysis) string {
	saturationText := map[string]string{
		SaturationLow:       "Low competition market - excellent opportunity",
		SaturationMedium:    "Moderate competition - good potential",
		SaturationHigh:      "Competitive market - need strong differentiation",
		SaturationSaturated: "Highly saturated market - difficult to compete",
	}

	parts := []string{saturationText[analysis.Saturation]}
	notes := analysis.Notes
	if len(notes) > 3 {
		notes = notes[:3]
	}
	parts = append(parts, notes...)

	return strings.Join(parts, "; ")
}
