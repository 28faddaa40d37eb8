package search

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serp"
)

// Depth selects a search preset trading coverage against API cost.
type Depth string

const (
	DepthQuick      Depth = "quick"
	DepthStandard   Depth = "standard"
	DepthDeep       Depth = "deep"
	DepthExhaustive Depth = "exhaustive"
)

// ParseDepth validates a depth name.
func ParseDepth(s string) (Depth, error) {
	switch Depth(s) {
	case DepthQuick, DepthStandard, DepthDeep, DepthExhaustive:
		return Depth(s), nil
	}
	return "", eris.Errorf("search: unknown depth %q", s)
}

// preset is the knob set behind one depth tier.
type preset struct {
	OrganicPages      int
	MapsPages         int
	QueryVariations   []string
	LocationExpansion bool
	ExpansionRadiusKM float64
	MaxLocations      int
	MaxAPICalls       int
}

var presets = map[Depth]preset{
	DepthQuick: {
		OrganicPages: 1,
		MapsPages:    1,
		MaxLocations: 1,
		MaxAPICalls:  3,
	},
	DepthStandard: {
		OrganicPages: 2,
		MapsPages:    1,
		QueryVariations: []string{
			"{business_type} services",
			"{business_type} near me",
		},
		MaxLocations: 1,
		MaxAPICalls:  8,
	},
	DepthDeep: {
		OrganicPages: 3,
		MapsPages:    2,
		QueryVariations: []string{
			"{business_type} services",
			"{business_type} near me",
			"best {business_type}",
			"local {business_type}",
		},
		LocationExpansion: true,
		ExpansionRadiusKM: 10,
		MaxLocations:      5,
		MaxAPICalls:       20,
	},
	DepthExhaustive: {
		OrganicPages: 5,
		MapsPages:    3,
		QueryVariations: []string{
			"{business_type} services",
			"{business_type} near me",
			"best {business_type}",
			"local {business_type}",
			"emergency {business_type}",
			"cheap {business_type}",
			"24 hour {business_type}",
			"{business_type} company",
		},
		LocationExpansion: true,
		ExpansionRadiusKM: 25,
		MaxLocations:      10,
		MaxAPICalls:       50,
	},
}

// Plan is the concrete set of provider requests for one run. Requests
// are ordered primary-query-first so the API-call cap trims expansion
// coverage before core coverage.
type Plan struct {
	Depth       Depth
	Queries     []string
	Locations   []string
	Requests    []serp.Request
	MaxAPICalls int
}

// BuildPlan expands query and location per the depth preset and lays
// out one request per (query, location, channel, page), capped at the
// preset's API-call budget.
func BuildPlan(query, location string, channels []model.Channel, depth Depth) (*Plan, error) {
	p, ok := presets[depth]
	if !ok {
		return nil, eris.Errorf("search: unknown depth %q", depth)
	}
	if len(channels) == 0 {
		return nil, eris.New("search: at least one channel is required")
	}

	queries := ExpandQueryVariations(query, p.QueryVariations)

	locations := []string{location}
	if p.LocationExpansion {
		locations = NearbySuburbs(location, p.ExpansionRadiusKM, p.MaxLocations)
	}

	pagesFor := func(ch model.Channel) int {
		switch ch {
		case model.ChannelOrganic:
			return p.OrganicPages
		case model.ChannelMaps:
			return p.MapsPages
		default:
			return 1
		}
	}

	plan := &Plan{
		Depth:       depth,
		Queries:     queries,
		Locations:   locations,
		MaxAPICalls: p.MaxAPICalls,
	}

	// Primary query and location come first at every page depth, so
	// the cap degrades expansion coverage before core coverage.
	for _, loc := range locations {
		for _, q := range queries {
			for _, ch := range channels {
				for page := 1; page <= pagesFor(ch); page++ {
					if len(plan.Requests) >= p.MaxAPICalls {
						return plan, nil
					}
					plan.Requests = append(plan.Requests, serp.Request{
						Query:    q,
						Location: loc,
						Channel:  serp.Channel(ch),
						Page:     page,
					})
				}
			}
		}
	}

	return plan, nil
}
