package score

import "github.com/sells-group/prospect-cli/internal/model"

// Fit component names.
const (
	FitWebsite      = "website"
	FitPhone        = "phone"
	FitContactEmail = "contact_email"
	FitMapsPresence = "maps_presence"
	FitGoodRating   = "good_rating"
	FitReviewCount  = "review_count"
	FitAdsPresence  = "ads_presence"
	FitOrganicTop10 = "organic_top10"
)

const (
	goodRatingFloor  = 4.0
	reviewCountFloor = 10
	organicTopCutoff = 10
)

// defaultFitWeights sums to 1. Ordering in fitOrder drives breakdown
// and notes ordering.
var defaultFitWeights = map[string]float64{
	FitWebsite:      0.15,
	FitPhone:        0.15,
	FitContactEmail: 0.10,
	FitMapsPresence: 0.15,
	FitGoodRating:   0.10,
	FitReviewCount:  0.10,
	FitAdsPresence:  0.10,
	FitOrganicTop10: 0.15,
}

var fitOrder = []string{
	FitWebsite, FitPhone, FitContactEmail, FitMapsPresence,
	FitGoodRating, FitReviewCount, FitAdsPresence, FitOrganicTop10,
}

// fitTerms builds the fit component list. The contact-email term is the
// only website-derived one; when enrichment failed or was skipped it is
// unknown and its weight is redistributed across the search-derived
// terms.
func fitTerms(cand *model.Candidate, signals *model.WebsiteSignals, weights map[string]float64) []term {
	enriched := cand.Website != "" && !signals.Failed()

	terms := make([]term, 0, len(fitOrder))
	for _, name := range fitOrder {
		t := term{name: name, weight: weights[name], known: true}
		switch name {
		case FitWebsite:
			t.value = boolSignal(cand.Website != "")
		case FitPhone:
			t.value = boolSignal(cand.Phone != "")
		case FitContactEmail:
			if !enriched {
				t.known = false
				break
			}
			t.value = boolSignal(len(signals.Emails) > 0)
		case FitMapsPresence:
			t.value = boolSignal(cand.HasChannel(model.ChannelMaps))
		case FitGoodRating:
			t.value = boolSignal(cand.Rating != nil && *cand.Rating >= goodRatingFloor)
		case FitReviewCount:
			t.value = boolSignal(cand.ReviewCount != nil && *cand.ReviewCount >= reviewCountFloor)
		case FitAdsPresence:
			t.value = boolSignal(cand.HasChannel(model.ChannelAds))
		case FitOrganicTop10:
			t.value = boolSignal(cand.HasChannel(model.ChannelOrganic) &&
				cand.OrganicPosition != nil && *cand.OrganicPosition <= organicTopCutoff)
		}
		terms = append(terms, t)
	}
	return terms
}

func boolSignal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
