// Package score ranks enriched candidates. Fit measures whether a
// business is reachable and established; Opportunity measures whether
// it needs marketing help; Competition measures how crowded the market
// is. Priority combines the three, weighted by industry value.
package score

import (
	"math"

	"github.com/sells-group/prospect-cli/internal/model"
)

// term is one weighted component of a score. Weight is signed: gap
// components carry positive weight, penalty components negative. Value
// is the raw signal in [0,1]. Terms whose underlying data was never
// observed are marked unknown and excluded before weights are
// normalized, so missing data never reads as a zero signal.
type term struct {
	name   string
	weight float64
	value  float64
	known  bool
}

// resolve turns a term list into a breakdown and a clamped score.
// Weights of known terms are renormalized so the positive weights sum
// to 1; a score computed without some terms therefore equals the score
// computed by omitting them and renormalizing the rest.
func resolve(terms []term) (model.ScoreBreakdown, int) {
	var denom float64
	for _, t := range terms {
		if t.known && t.weight > 0 {
			denom += t.weight
		}
	}
	if denom == 0 {
		return nil, 0
	}

	breakdown := make(model.ScoreBreakdown, 0, len(terms))
	var sum float64
	for _, t := range terms {
		if !t.known {
			continue
		}
		w := t.weight / denom
		contribution := t.value * w * 100
		sum += contribution
		breakdown = append(breakdown, model.ScoreComponent{
			Name:         t.name,
			Raw:          t.value,
			Weight:       w,
			Contribution: contribution,
		})
	}

	return breakdown, clamp(sum)
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
