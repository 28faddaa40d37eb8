package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

const homepageHTML = `<html>
<head>
	<title>Acme Plumbing Brisbane</title>
	<meta name="description" content="24/7 plumbers in Brisbane">
	<link rel="stylesheet" href="/wp-content/themes/acme/style.css">
	<script src="https://www.googletagmanager.com/gtag/js?id=G-XXXX"></script>
</head>
<body>
	<a href="https://calendly.com/acme/quote">Book a quote</a>
	<a href="https://facebook.com/acmeplumbing">Facebook</a>
	<a href="/contact-us">Contact</a>
	Call us on (07) 3555 0000 or email info@acmeplumbing.com.au
</body>
</html>`

func newTestCrawler(opts Options) *Crawler {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	return NewCrawler(opts)
}

func TestEnrichExtractsSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(homepageHTML))
	}))
	defer srv.Close()

	c := newTestCrawler(Options{})
	signals := c.Enrich(context.Background(), srv.URL)

	require.False(t, signals.Failed())
	assert.True(t, signals.Reachable)
	require.NotNil(t, signals.CMS)
	assert.Equal(t, "WordPress", *signals.CMS)

	present, known := signals.HasTracking(TrackGoogleAnalytics)
	assert.True(t, known)
	assert.True(t, present)
	present, known = signals.HasTracking(TrackFacebookPixel)
	assert.True(t, known)
	assert.False(t, present)

	require.NotNil(t, signals.HasBooking)
	assert.True(t, *signals.HasBooking)
	assert.Contains(t, signals.Emails, "info@acmeplumbing.com.au")
	assert.Contains(t, signals.Phones, "07 3555 0000")
	assert.Equal(t, "Acme Plumbing Brisbane", signals.Title)
	assert.Contains(t, signals.SocialLinks, "facebook")
	require.NotNil(t, signals.LoadTimeMS)
	assert.GreaterOrEqual(t, *signals.LoadTimeMS, 0)
}

func TestEnrichUnreachableHost(t *testing.T) {
	c := newTestCrawler(Options{Timeout: 2 * time.Second})
	signals := c.Enrich(context.Background(), "http://127.0.0.1:1")

	require.True(t, signals.Failed())
	assert.Equal(t, model.CrawlErrorNetwork, signals.CrawlErr.Kind)
	// Failed crawls carry no partial signals
	assert.False(t, signals.Reachable)
	assert.Empty(t, signals.Emails)
	assert.Nil(t, signals.CMS)
	assert.Nil(t, signals.Tracking)
}

func TestEnrichServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestCrawler(Options{})
	signals := c.Enrich(context.Background(), srv.URL)

	require.True(t, signals.Failed())
	assert.Equal(t, model.CrawlErrorNetwork, signals.CrawlErr.Kind)
	assert.Contains(t, signals.CrawlErr.Message, "500")
}

func TestEnrichTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestCrawler(Options{Timeout: 100 * time.Millisecond})
	signals := c.Enrich(context.Background(), srv.URL)

	require.True(t, signals.Failed())
	assert.Equal(t, model.CrawlErrorTimeout, signals.CrawlErr.Kind)
}

func TestEnrichCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	c := newTestCrawler(Options{Timeout: 10 * time.Second})
	signals := c.Enrich(ctx, srv.URL)

	require.True(t, signals.Failed())
	assert.Equal(t, model.CrawlErrorCancelled, signals.CrawlErr.Kind)
}

func TestEnrichBlockedSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>Please complete the reCAPTCHA challenge to continue</html>"))
	}))
	defer srv.Close()

	c := newTestCrawler(Options{})
	signals := c.Enrich(context.Background(), srv.URL)

	require.True(t, signals.Failed())
	assert.Equal(t, model.CrawlErrorBlocked, signals.CrawlErr.Kind)
}

func TestEnrichContactPageImprovesRecall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/contact-us">Contact</a>No email here</body></html>`))
	})
	mux.HandleFunc("/contact-us", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Email info@acme.com.au</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(Options{FetchContact: true})
	signals := c.Enrich(context.Background(), srv.URL)

	require.False(t, signals.Failed())
	assert.Equal(t, 2, signals.PagesFetched)
	assert.Equal(t, []string{"info@acme.com.au"}, signals.Emails)
}

func TestEnrichRespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/contact-us">Contact</a></body></html>`))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /contact-us\n"))
	})
	var contactHit bool
	mux.HandleFunc("/contact-us", func(w http.ResponseWriter, r *http.Request) {
		contactHit = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(Options{FetchContact: true, RespectRobots: true})
	signals := c.Enrich(context.Background(), srv.URL)

	require.False(t, signals.Failed())
	assert.Equal(t, 1, signals.PagesFetched)
	assert.False(t, contactHit)
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	const limit = 3

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	candidates := make([]model.Candidate, 20)
	for i := range candidates {
		candidates[i] = model.Candidate{Name: "Biz", Website: srv.URL}
	}

	c := newTestCrawler(Options{Concurrency: limit})
	results := c.EnrichAll(context.Background(), candidates)

	require.Len(t, results, 20)
	assert.LessOrEqual(t, maxInFlight, limit)
	assert.GreaterOrEqual(t, maxInFlight, 2)
}

func TestEnrichAllPreservesOrderAndSkipsNoWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><title>" + r.URL.Query().Get("n") + "</title></html>"))
	}))
	defer srv.Close()

	candidates := []model.Candidate{
		{Name: "A", Website: srv.URL + "?n=first"},
		{Name: "B"},
		{Name: "C", Website: srv.URL + "?n=third"},
	}

	c := newTestCrawler(Options{Concurrency: 2})
	results := c.EnrichAll(context.Background(), candidates)

	require.Len(t, results, 3)
	require.NotNil(t, results[0])
	assert.Equal(t, "first", results[0].Title)
	assert.Nil(t, results[1])
	require.NotNil(t, results[2])
	assert.Equal(t, "third", results[2].Title)
}
