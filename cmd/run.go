package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/score"
	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/serp"
)

var (
	runLocation   string
	runChannels   []string
	runDepth      string
	runSkipEnrich bool
	runLimit      int
	runNoStore    bool
	runJSON       bool
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run a prospecting search for a business type",
	Long:  "Searches ads, maps and organic channels for the query, dedupes the hits, crawls their websites, and prints the ranked prospects.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		channels, err := parseChannels(runChannels)
		if err != nil {
			return err
		}

		depthName := runDepth
		if depthName == "" {
			depthName = cfg.Search.Depth
		}
		depth, err := search.ParseDepth(depthName)
		if err != nil {
			return err
		}

		var st store.Store
		if !runNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		retry := resilience.DefaultRetryConfig()
		if cfg.Serp.Retries > 0 {
			retry.MaxAttempts = cfg.Serp.Retries
		}
		serpClient := serp.NewClient(cfg.Serp.Key,
			serp.WithBaseURL(cfg.Serp.BaseURL),
			serp.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Serp.TimeoutSecs) * time.Second}),
			serp.WithRetryConfig(retry),
		)

		orchestrator := search.NewOrchestrator(serpClient, search.Options{
			RatePerSecond:    cfg.Serp.RatePerSecond,
			DirectoryDomains: cfg.Search.DirectoryDomains,
		})

		var catalog *enrich.Catalog
		if cfg.Signatures.CatalogPath != "" {
			catalog, err = enrich.LoadCatalog(cfg.Signatures.CatalogPath)
			if err != nil {
				return err
			}
		}
		crawler := enrich.NewCrawler(enrich.Options{
			Concurrency:   cfg.Crawl.Concurrency,
			Timeout:       time.Duration(cfg.Crawl.TimeoutSecs) * time.Second,
			MaxRedirects:  cfg.Crawl.MaxRedirects,
			FetchContact:  cfg.Crawl.FetchContact,
			RespectRobots: cfg.Crawl.RespectRobots,
			MaxBodyBytes:  int64(cfg.Crawl.MaxBodyKB) * 1024,
			Catalog:       catalog,
		})

		engine, err := score.NewEngine(cfg.Score)
		if err != nil {
			return err
		}

		p := pipeline.New(orchestrator, crawler, engine, st, stderrProgress)

		result, err := p.Run(ctx, pipeline.Request{
			Query:          args[0],
			Location:       runLocation,
			Channels:       channels,
			Depth:          depth,
			SkipEnrichment: runSkipEnrich,
			Limit:          runLimit,
		})
		if err != nil {
			return eris.Wrap(err, "run")
		}

		zap.L().Info("run complete",
			zap.String("query", args[0]),
			zap.Int("prospects", len(result.Prospects)),
		)

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		formatProspects(os.Stdout, result.Prospects)
		formatSummary(os.Stdout, result.Summary)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runLocation, "location", "", "target location, e.g. \"Brisbane, QLD\" (required)")
	runCmd.Flags().StringSliceVar(&runChannels, "channels", nil, "channels to search: ads, maps, organic (default all)")
	runCmd.Flags().StringVar(&runDepth, "depth", "", "search depth: quick, standard, deep, exhaustive")
	runCmd.Flags().BoolVar(&runSkipEnrich, "skip-enrichment", false, "score from search presence only, without crawling websites")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "cap on returned prospects (0 = no cap)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "do not persist the run")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full result as JSON")
	_ = runCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(runCmd)
}

func parseChannels(names []string) ([]model.Channel, error) {
	var out []model.Channel
	for _, name := range names {
		ch, ok := model.ParseChannel(name)
		if !ok {
			return nil, eris.Errorf("unknown channel %q (want ads, maps or organic)", name)
		}
		out = append(out, ch)
	}
	return out, nil
}

// stderrProgress keeps stage progress off stdout so piped output stays
// clean.
func stderrProgress(ev model.ProgressEvent) error {
	_, err := fmt.Fprintf(os.Stderr, "  %-8s %d/%d\n", ev.Stage, ev.Processed, ev.Total)
	return err
}
