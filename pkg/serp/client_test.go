package serp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	}
}

const organicBody = `{
	"organic_results": [
		{"position": 1, "title": "Acme Plumbing", "link": "https://acmeplumbing.com.au/", "displayed_link": "acmeplumbing.com.au", "snippet": "24/7 plumbers"},
		{"position": 2, "title": "Yellow Pages", "link": "https://yellowpages.com.au/plumbers", "displayed_link": "yellowpages.com.au", "snippet": "Find a plumber"},
		{"position": "not-a-number", "title": "Broken entry"}
	]
}`

func TestSearchOrganicParsesAndDropsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "plumber", r.URL.Query().Get("q"))
		assert.Equal(t, "Sydney, New South Wales, Australia", r.URL.Query().Get("location"))
		_, _ = w.Write([]byte(organicBody))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	res, err := c.Search(context.Background(), Request{
		Query:    "plumber",
		Location: "Sydney, New South Wales, Australia",
		Channel:  ChannelOrganic,
	})

	require.NoError(t, err)
	require.Len(t, res.Organic, 2)
	assert.Equal(t, "Acme Plumbing", res.Organic[0].Title)
	assert.Equal(t, 2, res.Organic[1].Position)
	assert.Empty(t, res.Ads)
	assert.Empty(t, res.Places)
}

func TestSearchMapsUsesMapsEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_maps", r.URL.Query().Get("engine"))
		_, _ = w.Write([]byte(`{
			"local_results": {"places": [
				{"position": 1, "title": "Acme Plumbing", "rating": 4.8, "reviews": 120,
				 "type": "Plumber", "address": "1 Pipe St, Sydney", "phone": "(02) 9555 1234",
				 "website": "https://www.acmeplumbing.com.au"}
			]}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	res, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: ChannelMaps})

	require.NoError(t, err)
	require.Len(t, res.Places, 1)
	p := res.Places[0]
	assert.Equal(t, "Acme Plumbing", p.Name)
	require.NotNil(t, p.Rating)
	assert.InDelta(t, 4.8, *p.Rating, 0.001)
	require.NotNil(t, p.ReviewCount)
	assert.Equal(t, 120, *p.ReviewCount)
}

func TestSearchAdsBlockPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"ads": [
				{"position": 1, "title": "Plumber Sydney", "displayed_link": "acme.com.au",
				 "link": "https://acme.com.au/landing", "description": "Call now", "block_position": "top"},
				{"position": 2, "title": "Cheap Plumbing", "displayed_link": "cheap.com.au",
				 "link": "https://cheap.com.au", "description": "", "block_position": "bottom"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	res, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: ChannelAds})

	require.NoError(t, err)
	require.Len(t, res.Ads, 2)
	assert.True(t, res.Ads[0].IsTop())
	assert.False(t, res.Ads[1].IsTop())
}

func TestSearchRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	_, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: ChannelOrganic})

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchAuthFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`invalid api key`))
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	_, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: ChannelOrganic})

	require.Error(t, err)
	assert.True(t, IsTerminal(err))
	assert.Equal(t, int32(1), calls.Load(), "auth errors must not be retried")
}

func TestSearchQuotaIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`out of searches`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	_, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: ChannelOrganic})

	require.Error(t, err)
	assert.True(t, IsTerminal(err))
}

func TestSearchProviderErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "unsupported location"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	_, err := c.Search(context.Background(), Request{Query: "plumber", Location: "Nowhere", Channel: ChannelOrganic})

	require.Error(t, err)
	assert.False(t, IsTerminal(err))
}

func TestSearchValidatesInput(t *testing.T) {
	c := NewClient("test-key")

	_, err := c.Search(context.Background(), Request{Location: "Sydney", Channel: ChannelOrganic})
	assert.Error(t, err)

	_, err = c.Search(context.Background(), Request{Query: "plumber", Channel: ChannelOrganic})
	assert.Error(t, err)

	_, err = c.Search(context.Background(), Request{Query: "plumber", Location: "Sydney", Channel: "video"})
	assert.Error(t, err)
}
