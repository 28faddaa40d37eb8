package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
)

// maxOpportunityNotes caps how many gap sentences make it into the
// rendered notes.
const maxOpportunityNotes = 3

// opportunityTemplates renders one sentence per gap component. Penalty
// components never produce notes; they lower the score silently.
var opportunityTemplates = map[string]func(*model.WebsiteSignals) string{
	OppNoAnalytics: func(*model.WebsiteSignals) string {
		return "No analytics detected - they can't measure marketing ROI"
	},
	OppNoPixel: func(*model.WebsiteSignals) string {
		return "No Facebook pixel - no retargeting in place"
	},
	OppNoBooking: func(*model.WebsiteSignals) string {
		return "No online booking system"
	},
	OppNoContactEmail: func(*model.WebsiteSignals) string {
		return "No contact email published on site"
	},
	OppWeakCMS: func(s *model.WebsiteSignals) string {
		if s != nil && s.CMS != nil {
			return fmt.Sprintf("DIY website builder (%s)", *s.CMS)
		}
		return "DIY website builder"
	},
	OppSlowSite: func(s *model.WebsiteSignals) string {
		if s != nil && s.LoadTimeMS != nil {
			return fmt.Sprintf("Slow site (%dms load time)", *s.LoadTimeMS)
		}
		return "Slow site"
	},
	OppPoorMaps: func(*model.WebsiteSignals) string {
		return "Not the top map-pack result"
	},
	OppPoorOrganic: func(*model.WebsiteSignals) string {
		return "Weak organic ranking for their own service"
	},
}

// crawlErrorText describes why website signals are missing, per error
// kind. Degraded prospects report the absence of data; they never
// claim a gap that was not observed.
var crawlErrorText = map[model.CrawlErrorKind]string{
	model.CrawlErrorNetwork:   "site unreachable",
	model.CrawlErrorTimeout:   "site too slow to analyse",
	model.CrawlErrorCancelled: "analysis cancelled",
	model.CrawlErrorParse:     "site markup could not be parsed",
	model.CrawlErrorBlocked:   "site blocks automated analysis",
}

// OpportunityNotes renders the human-readable explanation of an
// opportunity score. Output is deterministic for identical input:
// components are ordered by contribution, ties broken by canonical
// component order.
func OpportunityNotes(cand *model.Candidate, signals *model.WebsiteSignals, breakdown model.ScoreBreakdown) string {
	var parts []string

	if len(cand.GBPNotes) > 0 {
		parts = append(parts, "GBP: "+strings.Join(cand.GBPNotes, "; "))
	}

	switch {
	case cand.Website == "":
		parts = append(parts, "No website - prime candidate for a web presence")
	case signals.Failed():
		reason := "Website signals unavailable"
		if signals != nil && signals.CrawlErr != nil {
			if text, ok := crawlErrorText[signals.CrawlErr.Kind]; ok {
				reason += " (" + text + ")"
			}
		}
		parts = append(parts, reason, "Scored from search presence only")
		parts = append(parts, topGapNotes(signals, breakdown)...)
	default:
		parts = append(parts, topGapNotes(signals, breakdown)...)
	}

	return strings.Join(parts, "; ")
}

// topGapNotes picks the highest-contributing gap components and
// renders their sentences.
func topGapNotes(signals *model.WebsiteSignals, breakdown model.ScoreBreakdown) []string {
	type ranked struct {
		component model.ScoreComponent
		order     int
	}

	var gaps []ranked
	for i, c := range breakdown {
		if c.Contribution <= 0 {
			continue
		}
		if _, ok := opportunityTemplates[c.Name]; !ok {
			continue
		}
		gaps = append(gaps, ranked{component: c, order: i})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].component.Contribution != gaps[j].component.Contribution {
			return gaps[i].component.Contribution > gaps[j].component.Contribution
		}
		return gaps[i].order < gaps[j].order
	})

	if len(gaps) > maxOpportunityNotes {
		gaps = gaps[:maxOpportunityNotes]
	}

	notes := make([]string, 0, len(gaps))
	for _, g := range gaps {
		notes = append(notes, opportunityTemplates[g.component.Name](signals))
	}
	return notes
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Summary renders the one-line triage label for a prospect.
func Summary(priority int, cand *model.Candidate, signals *model.WebsiteSignals, comp CompetitionAnalysis, ind IndustryClassification) string {
	var parts []string

	switch {
	case priority >= 80:
		parts = append(parts, "HOT PROSPECT")
	case priority >= 60:
		parts = append(parts, "High priority")
	case priority >= 40:
		parts = append(parts, "Worth pursuing")
	default:
		parts = append(parts, "Lower priority")
	}

	if cand.GBPWebsiteMissing {
		parts = append(parts, "Easy win: no website on GBP")
	}

	switch comp.Saturation {
	case SaturationLow:
		parts = append(parts, "Low competition")
	case SaturationSaturated:
		parts = append(parts, "Saturated market")
	}

	switch ind.Category {
	case IndustryNiche, IndustrySpecialist, IndustryCommoditised:
		parts = append(parts, fmt.Sprintf("%s (%gx)", titleCase(ind.Category), ind.Multiplier))
	}

	if !signals.Failed() {
		if present, known := signals.HasTracking(enrich.TrackGoogleAnalytics); known && !present {
			parts = append(parts, "No analytics")
		}
		if present, known := signals.HasTracking(enrich.TrackFacebookPixel); known && !present {
			parts = append(parts, "No pixel")
		}
	}

	return strings.Join(parts, "; ")
}
