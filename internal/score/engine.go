package score

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Engine computes prospect scores. Construction validates the
// configured weights; scoring itself cannot fail.
type Engine struct {
	fitWeight         float64
	opportunityWeight float64
	competitionWeight float64
	slowLoadMS        int

	fitWeights map[string]float64
	oppWeights map[string]float64
}

// NewEngine builds a scoring engine from configuration. Weight
// problems fail here, before any network work has been spent.
func NewEngine(cfg config.ScoreConfig) (*Engine, error) {
	e := &Engine{
		fitWeight:         cfg.FitWeight,
		opportunityWeight: cfg.OpportunityWeight,
		competitionWeight: cfg.CompetitionWeight,
		slowLoadMS:        cfg.SlowLoadMS,
	}
	if e.slowLoadMS <= 0 {
		e.slowLoadMS = 3000
	}

	sum := e.fitWeight + e.opportunityWeight + e.competitionWeight
	if e.fitWeight < 0 || e.opportunityWeight < 0 || e.competitionWeight < 0 || sum <= 0 {
		return nil, eris.Errorf("score: invalid priority weights fit=%g opportunity=%g competition=%g",
			e.fitWeight, e.opportunityWeight, e.competitionWeight)
	}
	// Renormalize rather than silently distorting the 0-100 scale.
	e.fitWeight /= sum
	e.opportunityWeight /= sum
	e.competitionWeight /= sum

	var err error
	if e.fitWeights, err = mergeWeights(defaultFitWeights, cfg.FitComponents, "fit"); err != nil {
		return nil, err
	}
	if e.oppWeights, err = mergeWeights(defaultOpportunityWeights, cfg.OpportunityComponents, "opportunity"); err != nil {
		return nil, err
	}

	return e, nil
}

// mergeWeights overlays configured component weights onto the
// defaults. Unknown component names are a configuration error.
func mergeWeights(defaults, overrides map[string]float64, kind string) (map[string]float64, error) {
	merged := make(map[string]float64, len(defaults))
	for name, w := range defaults {
		merged[name] = w
	}
	for name, w := range overrides {
		base, ok := merged[name]
		if !ok {
			return nil, eris.Errorf("score: unknown %s component %q", kind, name)
		}
		// A gap component must stay a gap and a penalty a penalty.
		if base > 0 && w < 0 || base < 0 && w > 0 {
			return nil, eris.Errorf("score: %s component %q weight %g flips sign", kind, name, w)
		}
		merged[name] = w
	}

	var positive float64
	for _, w := range merged {
		if w > 0 {
			positive += w
		}
	}
	if positive <= 0 {
		return nil, eris.Errorf("score: %s weights leave no positive components", kind)
	}
	return merged, nil
}

// Score computes one prospect from a candidate and its enrichment
// signals. Competition and industry context are per-run inputs shared
// across candidates.
func (e *Engine) Score(cand model.Candidate, signals *model.WebsiteSignals, comp CompetitionAnalysis, query string) model.Prospect {
	fitBreakdown, fitScore := resolve(fitTerms(&cand, signals, e.fitWeights))
	oppBreakdown, oppScore := e.opportunity(&cand, signals)

	ind := ClassifyIndustry(query, cand.Name)

	raw := float64(fitScore)*e.fitWeight +
		float64(oppScore)*e.opportunityWeight +
		float64(comp.Score)*e.competitionWeight
	priority := raw * ind.Multiplier
	if priority < 0 {
		priority = 0
	}
	if priority > 100 {
		priority = 100
	}

	degraded := cand.Website != "" && signals.Failed()

	p := model.Prospect{
		Candidate: cand,
		Signals:   signals,

		FitScore:         fitScore,
		OpportunityScore: oppScore,
		CompetitionScore: comp.Score,
		PriorityScore:    priority,

		FitBreakdown:         fitBreakdown,
		OpportunityBreakdown: oppBreakdown,

		IndustryCategory:   ind.Category,
		IndustryMultiplier: ind.Multiplier,

		MarketSaturation:     comp.Saturation,
		FranchiseCompetition: comp.HasMajorFranchise,

		OpportunityNotes: OpportunityNotes(&cand, signals, oppBreakdown),
		CompetitionNotes: CompetitionNotes(comp),
		Summary:          Summary(int(priority), &cand, signals, comp, ind),

		Degraded: degraded,
		ScoredAt: time.Now().UTC(),
	}
	return p
}

// opportunity handles the two fixed paths (no website, GBP boost)
// around the component sum.
func (e *Engine) opportunity(cand *model.Candidate, signals *model.WebsiteSignals) (model.ScoreBreakdown, int) {
	var breakdown model.ScoreBreakdown
	var score int

	if cand.Website == "" {
		breakdown = model.ScoreBreakdown{{
			Name:         OppNoWebsite,
			Raw:          1,
			Weight:       float64(noWebsiteOpportunity) / 100,
			Contribution: noWebsiteOpportunity,
		}}
		score = noWebsiteOpportunity
	} else {
		breakdown, score = resolve(opportunityTerms(cand, signals, e.slowLoadMS, e.oppWeights))
	}

	if cand.GBPOpportunityBoost > 0 {
		boost := cand.GBPOpportunityBoost
		if score+boost > 100 {
			boost = 100 - score
		}
		if boost > 0 {
			breakdown = append(breakdown, model.ScoreComponent{
				Name:         OppGBPBoost,
				Raw:          1,
				Weight:       float64(boost) / 100,
				Contribution: float64(boost),
			})
			score += boost
		}
	}

	return breakdown, score
}

// ScoreAll scores every candidate against a shared market snapshot and
// returns prospects sorted by priority, highest first. Ties keep input
// order so identical inputs always rank identically.
func (e *Engine) ScoreAll(candidates []model.Candidate, signals []*model.WebsiteSignals, market model.MarketSnapshot, query string) ([]model.Prospect, error) {
	if len(signals) != 0 && len(signals) != len(candidates) {
		return nil, eris.Errorf("score: %d candidates but %d signal records", len(candidates), len(signals))
	}

	comp := AnalyzeCompetition(market)

	prospects := make([]model.Prospect, 0, len(candidates))
	for i, cand := range candidates {
		var sig *model.WebsiteSignals
		if i < len(signals) {
			sig = signals[i]
		}
		prospects = append(prospects, e.Score(cand, sig, comp, query))
	}

	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].PriorityScore > prospects[j].PriorityScore
	})

	zap.L().Debug("scored candidates",
		zap.Int("count", len(prospects)),
		zap.Int("competition", comp.Score),
		zap.String("saturation", comp.Saturation),
	)

	return prospects, nil
}
