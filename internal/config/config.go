package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Serp       SerpConfig       `yaml:"serp" mapstructure:"serp"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Crawl      CrawlConfig      `yaml:"crawl" mapstructure:"crawl"`
	Score      ScoreConfig      `yaml:"score" mapstructure:"score"`
	Signatures SignaturesConfig `yaml:"signatures" mapstructure:"signatures"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerpConfig holds SERP provider credentials and endpoint.
type SerpConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// RatePerSecond caps outbound provider calls across all channels.
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries       int     `yaml:"retries" mapstructure:"retries"`
}

// SearchConfig configures the discovery phase.
type SearchConfig struct {
	Depth string `yaml:"depth" mapstructure:"depth"`
	// DirectoryDomains are aggregator sites whose organic hits are not
	// real businesses and get filtered out.
	DirectoryDomains []string `yaml:"directory_domains" mapstructure:"directory_domains"`
	MaxOrganicPages  int      `yaml:"max_organic_pages" mapstructure:"max_organic_pages"`
}

// CrawlConfig configures the enrichment phase.
type CrawlConfig struct {
	Concurrency   int  `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs   int  `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRedirects  int  `yaml:"max_redirects" mapstructure:"max_redirects"`
	FetchContact  bool `yaml:"fetch_contact" mapstructure:"fetch_contact"`
	RespectRobots bool `yaml:"respect_robots" mapstructure:"respect_robots"`
	MaxBodyKB     int  `yaml:"max_body_kb" mapstructure:"max_body_kb"`
}

// ScoreConfig configures the scoring phase. Component weights beyond
// the built-in defaults are validated at engine construction.
type ScoreConfig struct {
	FitWeight         float64 `yaml:"fit_weight" mapstructure:"fit_weight"`
	OpportunityWeight float64 `yaml:"opportunity_weight" mapstructure:"opportunity_weight"`
	CompetitionWeight float64 `yaml:"competition_weight" mapstructure:"competition_weight"`
	SlowLoadMS        int     `yaml:"slow_load_ms" mapstructure:"slow_load_ms"`

	// Per-component weight overrides, keyed by component name. Empty
	// maps keep the built-in defaults; unknown names fail at engine
	// construction.
	FitComponents         map[string]float64 `yaml:"fit_components" mapstructure:"fit_components"`
	OpportunityComponents map[string]float64 `yaml:"opportunity_components" mapstructure:"opportunity_components"`
}

// SignaturesConfig points at an optional technology-signature catalog
// file that overrides the built-in catalog.
type SignaturesConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the configuration can run a prospecting run.
// Scoring weight problems are caught here rather than surfacing as a
// partially-scored run.
func (c *Config) Validate() error {
	var problems []string

	if c.Serp.Key == "" {
		problems = append(problems, "serp.key is required")
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	if c.Crawl.Concurrency < 1 || c.Crawl.Concurrency > 64 {
		problems = append(problems, "crawl.concurrency must be between 1 and 64")
	}
	if c.Serp.RatePerSecond <= 0 {
		problems = append(problems, "serp.rate_per_second must be > 0")
	}

	for _, w := range []struct {
		name string
		val  float64
	}{
		{"score.fit_weight", c.Score.FitWeight},
		{"score.opportunity_weight", c.Score.OpportunityWeight},
		{"score.competition_weight", c.Score.CompetitionWeight},
	} {
		if w.val < 0 || w.val > 1 {
			problems = append(problems, w.name+" must be in [0, 1]")
		}
	}
	sum := c.Score.FitWeight + c.Score.OpportunityWeight + c.Score.CompetitionWeight
	if sum < 0.999 || sum > 1.001 {
		problems = append(problems, "score weights must sum to 1.0")
	}

	if len(problems) > 0 {
		return eris.New("config: invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospects.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serp.base_url", "https://serpapi.com/search")
	v.SetDefault("serp.rate_per_second", 2.0)
	v.SetDefault("serp.timeout_secs", 15)
	v.SetDefault("serp.retries", 4)
	v.SetDefault("search.depth", "standard")
	v.SetDefault("search.max_organic_pages", 1)
	v.SetDefault("search.directory_domains", []string{
		"yelp.com", "yellowpages.com", "yellowpages.com.au", "truelocal.com.au",
		"localsearch.com.au", "hotfrog.com.au", "startlocal.com.au", "wordofmouth.com.au",
		"oneflare.com.au", "hipages.com.au", "airtasker.com", "serviceseeking.com.au",
		"facebook.com", "instagram.com", "linkedin.com", "tripadvisor.com",
		"gumtree.com.au", "productreview.com.au", "whitepages.com.au", "wikipedia.org",
	})
	v.SetDefault("crawl.concurrency", 8)
	v.SetDefault("crawl.timeout_secs", 20)
	v.SetDefault("crawl.max_redirects", 5)
	v.SetDefault("crawl.fetch_contact", true)
	v.SetDefault("crawl.respect_robots", true)
	v.SetDefault("crawl.max_body_kb", 2048)
	v.SetDefault("score.fit_weight", 0.30)
	v.SetDefault("score.opportunity_weight", 0.50)
	v.SetDefault("score.competition_weight", 0.20)
	v.SetDefault("score.slow_load_ms", 3000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
