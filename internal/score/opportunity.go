package score

import (
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Opportunity component names. Gap components carry positive weight,
// penalty components negative.
const (
	OppNoWebsite      = "no_website"
	OppNoAnalytics    = "no_analytics"
	OppNoPixel        = "no_pixel"
	OppNoBooking      = "no_booking"
	OppNoContactEmail = "no_contact_email"
	OppWeakCMS        = "weak_cms"
	OppSlowSite       = "slow_site"
	OppRunningAds     = "running_ads"
	OppGoodTracking   = "good_tracking"
	OppPoorMaps       = "poor_maps"
	OppPoorOrganic    = "poor_organic"
	OppGBPBoost       = "gbp_website_missing"
)

// A candidate with no website at all is the strongest opportunity
// there is; it gets a fixed score instead of a component sum.
const noWebsiteOpportunity = 80

const poorOrganicCutoff = 5

// defaultOpportunityWeights: positive weights sum to 1, so a candidate
// missing every marketing capability scores 100 before penalties.
var defaultOpportunityWeights = map[string]float64{
	OppNoAnalytics:    0.15,
	OppNoPixel:        0.10,
	OppNoBooking:      0.15,
	OppNoContactEmail: 0.10,
	OppWeakCMS:        0.10,
	OppSlowSite:       0.10,
	OppRunningAds:     -0.10,
	OppGoodTracking:   -0.10,
	OppPoorMaps:       0.10,
	OppPoorOrganic:    0.20,
}

var opportunityOrder = []string{
	OppNoAnalytics, OppNoPixel, OppNoBooking, OppNoContactEmail,
	OppWeakCMS, OppSlowSite, OppRunningAds, OppGoodTracking,
	OppPoorMaps, OppPoorOrganic,
}

// opportunityTerms builds the component list for a candidate that has
// a website. Website-derived terms are unknown when enrichment failed
// or was skipped; their weight shifts onto the search-derived ranking
// terms, which are always observable.
func opportunityTerms(cand *model.Candidate, signals *model.WebsiteSignals, slowLoadMS int, weights map[string]float64) []term {
	enriched := !signals.Failed()

	terms := make([]term, 0, len(opportunityOrder))
	for _, name := range opportunityOrder {
		t := term{name: name, weight: weights[name], known: true}
		switch name {
		case OppNoAnalytics:
			t.value, t.known = trackingGap(signals, enriched, enrich.TrackGoogleAnalytics)
		case OppNoPixel:
			t.value, t.known = trackingGap(signals, enriched, enrich.TrackFacebookPixel)
		case OppNoBooking:
			if !enriched || signals.HasBooking == nil {
				t.known = false
				break
			}
			t.value = boolSignal(!*signals.HasBooking)
		case OppNoContactEmail:
			if !enriched {
				t.known = false
				break
			}
			t.value = boolSignal(len(signals.Emails) == 0)
		case OppWeakCMS:
			if !enriched {
				t.known = false
				break
			}
			t.value = boolSignal(signals.CMS != nil && enrich.WeakCMSPlatforms[*signals.CMS])
		case OppSlowSite:
			if !enriched || signals.LoadTimeMS == nil {
				t.known = false
				break
			}
			t.value = boolSignal(*signals.LoadTimeMS > slowLoadMS)
		case OppRunningAds:
			t.value = boolSignal(cand.HasChannel(model.ChannelAds))
		case OppGoodTracking:
			ga, gaKnown := signals.HasTracking(enrich.TrackGoogleAnalytics)
			px, pxKnown := signals.HasTracking(enrich.TrackFacebookPixel)
			if !enriched || !gaKnown || !pxKnown {
				t.known = false
				break
			}
			t.value = boolSignal(ga && px)
		case OppPoorMaps:
			t.value = boolSignal(cand.HasChannel(model.ChannelMaps) &&
				cand.MapsPosition != nil && *cand.MapsPosition > 1)
		case OppPoorOrganic:
			t.value = boolSignal(poorOrganic(cand))
		}
		terms = append(terms, t)
	}
	return terms
}

// trackingGap is the tristate gap signal: a confirmed-absent tag is an
// opportunity, a confirmed-present tag is not, an unchecked tag is
// unknown.
func trackingGap(signals *model.WebsiteSignals, enriched bool, provider string) (float64, bool) {
	if !enriched {
		return 0, false
	}
	present, known := signals.HasTracking(provider)
	if !known {
		return 0, false
	}
	return boolSignal(!present), true
}

func poorOrganic(cand *model.Candidate) bool {
	if !cand.HasChannel(model.ChannelOrganic) {
		return true
	}
	return cand.OrganicPosition != nil && *cand.OrganicPosition > poorOrganicCutoff
}
