// Package pipeline sequences the prospecting stages: search, dedupe,
// enrich, score, persist. Channel and crawl failures degrade the run;
// only provider-terminal and configuration errors abort it.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/dedupe"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/score"
	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/internal/store"
)

// Searcher runs the discovery stage. *search.Orchestrator is the
// production implementation.
type Searcher interface {
	Execute(ctx context.Context, query, location string, channels []model.Channel, depth search.Depth) (*search.Result, error)
}

// Enricher runs the website-crawl stage. *enrich.Crawler is the
// production implementation.
type Enricher interface {
	EnrichAll(ctx context.Context, candidates []model.Candidate) []*model.WebsiteSignals
}

// Pipeline wires the stages together. All dependencies are injected;
// the pipeline holds no global state and is safe to discard after a
// run.
type Pipeline struct {
	searcher Searcher
	enricher Enricher
	engine   *score.Engine
	store    store.Store
	progress ProgressFunc
}

// New creates a Pipeline. store and progress may be nil; persistence
// and progress events are then skipped.
func New(searcher Searcher, enricher Enricher, engine *score.Engine, st store.Store, progress ProgressFunc) *Pipeline {
	return &Pipeline{
		searcher: searcher,
		enricher: enricher,
		engine:   engine,
		store:    st,
		progress: progress,
	}
}

// Request describes one prospecting run.
type Request struct {
	Query    string
	Location string
	Channels []model.Channel
	Depth    search.Depth

	// SkipEnrichment short-circuits the crawl stage; scores are then
	// computed from search-derived signals with weight redistribution.
	SkipEnrichment bool

	// Limit caps how many prospects are returned and persisted.
	// Zero means no cap.
	Limit int
}

func (r *Request) validate() error {
	if r.Query == "" {
		return eris.New("pipeline: query is required")
	}
	if r.Location == "" {
		return eris.New("pipeline: location is required")
	}
	if len(r.Channels) == 0 {
		r.Channels = model.AllChannels
	}
	if r.Depth == "" {
		r.Depth = search.DepthStandard
	}
	return nil
}

// Result is a completed run: ranked prospects plus the run summary.
type Result struct {
	Prospects []model.Prospect
	Summary   model.RunSummary
}

// Run executes the full pipeline. A run that partially fails still
// returns every prospect it could produce; the summary carries the
// failure counts.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	summary := model.RunSummary{
		Query:    req.Query,
		Location: req.Location,
		RunID:    uuid.New().String(),
	}
	log := zap.L().With(
		zap.String("run_id", summary.RunID),
		zap.String("query", req.Query),
		zap.String("location", req.Location),
	)
	log.Info("pipeline: starting run",
		zap.String("depth", string(req.Depth)),
		zap.Bool("skip_enrichment", req.SkipEnrichment),
	)

	// ===== Stage 1: Search =====
	searchResult, err := p.searcher.Execute(ctx, req.Query, req.Location, req.Channels, req.Depth)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: search")
	}
	summary.Searched = len(searchResult.Candidates)
	summary.APICalls = searchResult.APICalls
	summary.ChannelErrors = searchResult.ChannelErrors
	p.emit(StageSearch, summary.Searched, summary.Searched)

	// ===== Stage 2: Dedupe =====
	candidates := dedupe.Dedupe(searchResult.Candidates)
	summary.Deduplicated = len(candidates)
	p.emit(StageDedupe, summary.Deduplicated, summary.Searched)

	// ===== Stage 3: Enrich =====
	var signals []*model.WebsiteSignals
	if req.SkipEnrichment {
		log.Info("pipeline: enrichment skipped")
	} else {
		signals = p.enricher.EnrichAll(ctx, candidates)
		for i, sig := range signals {
			if candidates[i].Website == "" {
				continue
			}
			if sig.Failed() {
				summary.EnrichedFailed++
				if sig != nil && sig.CrawlErr != nil {
					if summary.CrawlErrors == nil {
						summary.CrawlErrors = map[model.CrawlErrorKind]int{}
					}
					summary.CrawlErrors[sig.CrawlErr.Kind]++
				}
			} else {
				summary.EnrichedOK++
			}
		}
	}
	p.emit(StageEnrich, summary.EnrichedOK+summary.EnrichedFailed, summary.Deduplicated)

	// ===== Stage 4: Score =====
	prospects, err := p.engine.ScoreAll(candidates, signals, searchResult.Market, req.Query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: score")
	}
	if req.Limit > 0 && len(prospects) > req.Limit {
		prospects = prospects[:req.Limit]
	}
	p.emit(StageScore, len(prospects), len(prospects))

	// ===== Stage 5: Persist (best-effort) =====
	summary.Duration = time.Since(start)
	if p.store != nil {
		// Persist even when the run was cancelled mid-enrichment; the
		// partial output is still useful.
		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if saveErr := p.store.SaveRun(persistCtx, &summary, prospects); saveErr != nil {
			summary.StoreError = saveErr.Error()
			log.Warn("pipeline: failed to persist run", zap.Error(saveErr))
		}
	}
	p.emit(StagePersist, len(prospects), len(prospects))

	log.Info("pipeline: run complete",
		zap.Int("searched", summary.Searched),
		zap.Int("deduplicated", summary.Deduplicated),
		zap.Int("enriched_ok", summary.EnrichedOK),
		zap.Int("enriched_failed", summary.EnrichedFailed),
		zap.Int("prospects", len(prospects)),
		zap.Duration("duration", summary.Duration),
	)

	return &Result{Prospects: prospects, Summary: summary}, nil
}
