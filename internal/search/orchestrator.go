// Package search turns one free-text query into provider requests
// across result channels and converts the hits into candidate
// business records.
package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serp"
)

// Options configures the orchestrator.
type Options struct {
	// RatePerSecond caps provider calls across all channels.
	RatePerSecond float64
	// DirectoryDomains augments the built-in aggregator blocklist.
	DirectoryDomains []string
	// StrictRelevance requires a positive query-type match.
	StrictRelevance bool
}

// Orchestrator fans a search plan out across channels and merges the
// hits into candidates.
type Orchestrator struct {
	client  serp.Client
	limiter *rate.Limiter
	filter  RelevanceFilter
}

// NewOrchestrator creates an Orchestrator with the given provider
// client.
func NewOrchestrator(client serp.Client, opts Options) *Orchestrator {
	rateLimit := opts.RatePerSecond
	if rateLimit <= 0 {
		rateLimit = 2
	}
	return &Orchestrator{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		filter: RelevanceFilter{
			Strict:           opts.StrictRelevance,
			ExtraDirectories: opts.DirectoryDomains,
		},
	}
}

// Result is the discovery outcome for one run.
type Result struct {
	Candidates []model.Candidate
	Market     model.MarketSnapshot
	// ChannelErrors maps a degraded channel to the failure that
	// stopped it. Channels with partial results still appear here.
	ChannelErrors map[model.Channel]string
	APICalls      int
	FilteredOut   int
	Queries       []string
	Locations     []string
}

// Execute runs the search plan for the query. One channel exhausting
// its retries degrades that channel to whatever it collected; auth and
// quota failures abort the run since no channel can proceed.
func (o *Orchestrator) Execute(ctx context.Context, query, location string, channels []model.Channel, depth Depth) (*Result, error) {
	plan, err := BuildPlan(query, location, channels, depth)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("query", query),
		zap.String("location", location),
		zap.String("depth", string(depth)),
	)
	log.Info("search plan built",
		zap.Int("requests", len(plan.Requests)),
		zap.Int("queries", len(plan.Queries)),
		zap.Int("locations", len(plan.Locations)),
	)

	// Requests are partitioned by channel; each channel walks its
	// share sequentially while channels run concurrently. Results
	// land at their request index so assembly order is deterministic.
	byChannel := make(map[model.Channel][]int)
	for i, req := range plan.Requests {
		ch := model.Channel(req.Channel)
		byChannel[ch] = append(byChannel[ch], i)
	}

	results := make([]*serp.Results, len(plan.Requests))
	channelErrs := make(map[model.Channel]string)
	var errMu sync.Mutex
	var apiCalls atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range model.AllChannels {
		indices := byChannel[ch]
		if len(indices) == 0 {
			continue
		}
		g.Go(func() error {
			for _, i := range indices {
				if err := o.limiter.Wait(gctx); err != nil {
					return err
				}
				apiCalls.Add(1)

				res, err := o.client.Search(gctx, plan.Requests[i])
				if err != nil {
					if serp.IsTerminal(err) {
						return eris.Wrapf(err, "search: channel %s", ch)
					}
					log.Warn("channel degraded",
						zap.String("channel", string(ch)),
						zap.Error(err),
					)
					errMu.Lock()
					channelErrs[ch] = err.Error()
					errMu.Unlock()
					return nil
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		ChannelErrors: channelErrs,
		APICalls:      int(apiCalls.Load()),
		Queries:       plan.Queries,
		Locations:     plan.Locations,
	}

	now := time.Now()
	for i, res := range results {
		if res == nil {
			continue
		}
		req := plan.Requests[i]
		if req.Query == query && req.Location == location && req.Page == 1 {
			o.snapshotMarket(&out.Market, res)
		}
		out.Candidates = append(out.Candidates, o.convert(res, query, now, &out.FilteredOut)...)
	}

	log.Info("search complete",
		zap.Int("candidates", len(out.Candidates)),
		zap.Int("filtered", out.FilteredOut),
		zap.Int("api_calls", out.APICalls),
		zap.Int("channel_errors", len(channelErrs)),
	)
	return out, nil
}

// snapshotMarket records first-page density for the primary query.
func (o *Orchestrator) snapshotMarket(m *model.MarketSnapshot, res *serp.Results) {
	switch res.Channel {
	case serp.ChannelAds:
		m.AdsCount += len(res.Ads)
		for _, a := range res.Ads {
			m.Names = append(m.Names, a.Headline)
		}
	case serp.ChannelMaps:
		m.MapsCount += len(res.Places)
		for _, p := range res.Places {
			m.Names = append(m.Names, p.Name)
		}
	case serp.ChannelOrganic:
		for _, r := range res.Organic {
			if IsAggregator(r.Domain) {
				continue
			}
			m.OrganicCount++
			m.Names = append(m.Names, r.Title)
		}
	}
}

func (o *Orchestrator) convert(res *serp.Results, query string, now time.Time, filtered *int) []model.Candidate {
	var out []model.Candidate

	keep := func(c model.Candidate, category string) {
		ok, reason := o.filter.Check(c.Name, c.Domain, category, query)
		if !ok {
			zap.L().Debug("candidate filtered",
				zap.String("name", c.Name),
				zap.String("reason", reason),
			)
			*filtered++
			return
		}
		out = append(out, c)
	}

	switch res.Channel {
	case serp.ChannelAds:
		for _, ad := range res.Ads {
			pos := ad.Position
			c := model.Candidate{Name: ad.Headline, FoundAt: now}
			c.AddChannel(model.ChannelAds)
			c.AdPosition = &pos
			c.SetWebsite(ad.DestinationURL)
			keep(c, "")
		}
	case serp.ChannelMaps:
		for _, place := range res.Places {
			pos := place.Position
			c := model.Candidate{
				Name:     place.Name,
				Phone:    place.Phone,
				Address:  place.Address,
				Category: place.Category,
				Rating:   place.Rating,
				FoundAt:  now,
			}
			c.AddChannel(model.ChannelMaps)
			c.MapsPosition = &pos
			c.ReviewCount = place.ReviewCount
			applyProfileSignals(&c, place)
			keep(c, place.Category)
		}
	case serp.ChannelOrganic:
		for _, hit := range res.Organic {
			pos := hit.Position
			c := model.Candidate{Name: hit.Title, FoundAt: now}
			c.AddChannel(model.ChannelOrganic)
			c.OrganicPosition = &pos
			c.SetWebsite(hit.URL)
			keep(c, "")
		}
	}

	return out
}

// applyProfileSignals interprets the business-profile listing: a
// well-reviewed listing with no website is the easiest win the whole
// pipeline can surface, so it gets an opportunity boost up front.
func applyProfileSignals(c *model.Candidate, place serp.PlaceResult) {
	if place.Website != "" {
		has := true
		c.GBPHasWebsite = &has
		c.SetWebsite(place.Website)
		return
	}

	has := false
	c.GBPHasWebsite = &has

	goodRating := place.Rating != nil && *place.Rating >= 4.0
	established := place.ReviewCount != nil && *place.ReviewCount >= 5
	if goodRating && established {
		c.GBPWebsiteMissing = true
		c.GBPOpportunityBoost = 15
		c.GBPNotes = append(c.GBPNotes, "No website on Google Business Profile despite strong reviews")
	}
}
