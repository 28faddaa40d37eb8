// Package enrich fetches candidate websites and extracts the signals
// scoring runs on: platform, tracking, booking, contact data,
// performance. Failures are data, not errors; every candidate gets a
// signal record.
package enrich

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; ProspectBot/1.0)"

// Options configures the crawler.
type Options struct {
	// Concurrency bounds how many candidates are fetched at once.
	Concurrency int
	// Timeout is the per-candidate budget covering every fetch and
	// the analysis.
	Timeout time.Duration
	// MaxRedirects bounds redirect chains per fetch.
	MaxRedirects int
	// FetchContact enables one secondary contact-page fetch when the
	// homepage yields no emails.
	FetchContact bool
	// RespectRobots gates the secondary fetch on robots.txt.
	RespectRobots bool
	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes int64
	// Catalog overrides the built-in signature catalog.
	Catalog *Catalog
	// OnFetch is invoked at the start of every page fetch. Used by
	// tests to observe concurrency; nil in production.
	OnFetch func(url string)
}

// Crawler enriches candidates from their live websites. The HTTP
// client is shared across the whole run.
type Crawler struct {
	http    *http.Client
	opts    Options
	catalog *Catalog
}

// NewCrawler creates a Crawler with a long-lived HTTP client.
func NewCrawler(opts Options) *Crawler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 * 1024 * 1024
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	return &Crawler{
		http: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= opts.MaxRedirects {
					return eris.Errorf("enrich: stopped after %d redirects", opts.MaxRedirects)
				}
				return nil
			},
		},
		opts:    opts,
		catalog: catalog,
	}
}

// EnrichAll enriches candidates concurrently, bounded by the
// configured limit. Results are returned in input order regardless of
// completion order. Candidates without a website get a nil entry;
// scoring treats that as the no-website path.
func (c *Crawler) EnrichAll(ctx context.Context, candidates []model.Candidate) []*model.WebsiteSignals {
	results := make([]*model.WebsiteSignals, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, cand := range candidates {
		if cand.Website == "" {
			continue
		}
		g.Go(func() error {
			results[i] = c.Enrich(gctx, cand.Website)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return results
}

// Enrich fetches and analyzes one site. It never fails: every error
// becomes a crawl-error kind inside the returned signals.
func (c *Crawler) Enrich(ctx context.Context, siteURL string) *model.WebsiteSignals {
	if siteURL == "" {
		return model.ErrorSignals(siteURL, model.CrawlErrorNetwork, "no website url")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, body, err := c.fetch(ctx, siteURL)
	loadMS := int(time.Since(start).Milliseconds())
	if err != nil {
		kind, msg := classifyFetchError(ctx, err)
		return model.ErrorSignals(siteURL, kind, msg)
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return model.ErrorSignals(siteURL, model.CrawlErrorBlocked, string(blockType))
	}
	if resp.StatusCode >= 400 {
		return model.ErrorSignals(siteURL, model.CrawlErrorNetwork, "http status "+resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return model.ErrorSignals(siteURL, model.CrawlErrorParse, err.Error())
	}

	html := string(body)
	content := ParsePage(doc)

	signals := &model.WebsiteSignals{
		URL:             resp.Request.URL.String(),
		Reachable:       true,
		HasSSL:          resp.Request.URL.Scheme == "https",
		CMS:             c.catalog.DetectCMS(html),
		Tracking:        c.catalog.DetectTracking(html),
		Emails:          ExtractEmails(html),
		Phones:          ExtractPhones(html),
		SocialLinks:     content.SocialLinks,
		Title:           content.Title,
		MetaDescription: content.MetaDescription,
		LoadTimeMS:      &loadMS,
		PagesFetched:    1,
	}
	booking := c.catalog.DetectBooking(html)
	signals.HasBooking = &booking

	if c.opts.FetchContact && len(signals.Emails) == 0 {
		if err := c.fetchContactPage(ctx, signals, content.Links); err != nil {
			// Budget exhaustion voids the whole result: a signal set
			// cut off mid-crawl must not pass for a complete one.
			kind, msg := classifyFetchError(ctx, err)
			if kind == model.CrawlErrorTimeout || kind == model.CrawlErrorCancelled {
				return model.ErrorSignals(siteURL, kind, msg)
			}
			zap.L().Debug("contact page fetch failed",
				zap.String("url", siteURL),
				zap.Error(err),
			)
		}
	}

	return signals
}

// fetchContactPage tries one secondary page to improve contact
// extraction recall. Non-budget failures are ignored.
func (c *Crawler) fetchContactPage(ctx context.Context, signals *model.WebsiteSignals, links []string) error {
	contact := FindContactPage(links)
	if contact == "" {
		return nil
	}

	base, err := url.Parse(signals.URL)
	if err != nil {
		return nil
	}
	ref, err := url.Parse(contact)
	if err != nil {
		return nil
	}
	target := base.ResolveReference(ref)
	if target.Host != base.Host {
		return nil
	}

	if c.opts.RespectRobots && !c.allowedByRobots(ctx, base, target.Path) {
		return nil
	}

	_, body, err := c.fetch(ctx, target.String())
	if err != nil {
		return err
	}
	signals.PagesFetched++

	html := string(body)
	for _, email := range ExtractEmails(html) {
		if len(signals.Emails) >= maxEmails {
			break
		}
		if !contains(signals.Emails, email) {
			signals.Emails = append(signals.Emails, email)
		}
	}
	for _, phone := range ExtractPhones(html) {
		if !contains(signals.Phones, phone) {
			signals.Phones = append(signals.Phones, phone)
		}
	}
	return nil
}

// allowedByRobots fetches robots.txt once for the secondary page.
// Unreachable or malformed robots.txt permits the fetch, matching
// crawler convention.
func (c *Crawler) allowedByRobots(ctx context.Context, base *url.URL, path string) bool {
	robotsURL := base.Scheme + "://" + base.Host + "/robots.txt"

	_, body, err := c.fetch(ctx, robotsURL)
	if err != nil {
		return true
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return true
	}
	return robots.TestAgent(path, "ProspectBot")
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) (*http.Response, []byte, error) {
	if c.opts.OnFetch != nil {
		c.opts.OnFetch(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	resp.Body.Close() //nolint:errcheck
	if err != nil {
		return nil, nil, err
	}

	return resp, body, nil
}

// classifyFetchError maps a transport failure onto the crawl-error
// taxonomy. Cancellation of the parent run and expiry of the
// per-candidate budget are distinguished so the summary can report
// them separately.
func classifyFetchError(ctx context.Context, err error) (model.CrawlErrorKind, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return model.CrawlErrorCancelled, "run cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		if ctx.Err() == context.DeadlineExceeded {
			return model.CrawlErrorTimeout, "fetch budget exceeded"
		}
		return model.CrawlErrorTimeout, err.Error()
	default:
		return model.CrawlErrorNetwork, err.Error()
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
