package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serp"
)

// fakeSerp returns canned results keyed by channel and records every
// request it receives.
type fakeSerp struct {
	mu       sync.Mutex
	requests []serp.Request
	organic  []serp.OrganicResult
	places   []serp.PlaceResult
	ads      []serp.AdResult
	errFor   map[serp.Channel]error
}

func (f *fakeSerp) Search(ctx context.Context, req serp.Request) (*serp.Results, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := f.errFor[req.Channel]; err != nil {
		return nil, err
	}

	res := &serp.Results{Query: req.Query, Location: req.Location, Channel: req.Channel}
	if req.Page == 1 {
		switch req.Channel {
		case serp.ChannelOrganic:
			res.Organic = f.organic
		case serp.ChannelMaps:
			res.Places = f.places
		case serp.ChannelAds:
			res.Ads = f.ads
		}
	}
	return res, nil
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestExecuteConvertsAndFilters(t *testing.T) {
	client := &fakeSerp{
		organic: []serp.OrganicResult{
			{Position: 1, Title: "Acme Plumbing", URL: "https://www.acmeplumbing.com.au/", Domain: "acmeplumbing.com.au"},
			{Position: 2, Title: "Yellow Pages - Plumbers", URL: "https://yellowpages.com.au/plumbers", Domain: "yellowpages.com.au"},
			{Position: 3, Title: "Brisbane Plumbing Co", URL: "https://brisplumb.com.au", Domain: "brisplumb.com.au"},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	res, err := o.Execute(context.Background(), "plumber", "Brisbane", []model.Channel{model.ChannelOrganic}, DepthQuick)
	require.NoError(t, err)

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Acme Plumbing", res.Candidates[0].Name)
	assert.Equal(t, "acmeplumbing.com.au", res.Candidates[0].Domain)
	assert.Equal(t, 1, *res.Candidates[0].OrganicPosition)
	assert.True(t, res.Candidates[0].HasChannel(model.ChannelOrganic))
	assert.Equal(t, 1, res.FilteredOut)
	assert.Empty(t, res.ChannelErrors)
}

func TestExecuteChannelFailureIsolated(t *testing.T) {
	client := &fakeSerp{
		organic: []serp.OrganicResult{
			{Position: 1, Title: "Acme Plumbing", URL: "https://acmeplumbing.com.au", Domain: "acmeplumbing.com.au"},
		},
		errFor: map[serp.Channel]error{
			serp.ChannelMaps: &serp.ProviderError{Kind: serp.ErrInvalid, StatusCode: 400, Message: "bad request"},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	res, err := o.Execute(context.Background(), "plumber", "Brisbane",
		[]model.Channel{model.ChannelOrganic, model.ChannelMaps}, DepthQuick)
	require.NoError(t, err)

	assert.Len(t, res.Candidates, 1)
	assert.Contains(t, res.ChannelErrors, model.ChannelMaps)
	assert.NotContains(t, res.ChannelErrors, model.ChannelOrganic)
}

func TestExecuteTerminalErrorAborts(t *testing.T) {
	client := &fakeSerp{
		errFor: map[serp.Channel]error{
			serp.ChannelOrganic: &serp.ProviderError{Kind: serp.ErrAuth, StatusCode: 401, Message: "bad key"},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	_, err := o.Execute(context.Background(), "plumber", "Brisbane",
		[]model.Channel{model.ChannelOrganic}, DepthQuick)
	require.Error(t, err)
	assert.True(t, serp.IsTerminal(err))
}

func TestExecuteProfileWithoutWebsite(t *testing.T) {
	client := &fakeSerp{
		places: []serp.PlaceResult{
			{Position: 1, Name: "Acme Plumbing", Rating: floatp(4.7), ReviewCount: intp(83), Phone: "(07) 3555 0000"},
			{Position: 2, Name: "Budget Plumbing", Rating: floatp(3.1), ReviewCount: intp(2)},
			{Position: 3, Name: "Webbed Plumbing", Website: "https://webbed.com.au", Rating: floatp(4.9), ReviewCount: intp(40)},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	res, err := o.Execute(context.Background(), "plumber", "Brisbane",
		[]model.Channel{model.ChannelMaps}, DepthQuick)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 3)

	strong := res.Candidates[0]
	require.NotNil(t, strong.GBPHasWebsite)
	assert.False(t, *strong.GBPHasWebsite)
	assert.True(t, strong.GBPWebsiteMissing)
	assert.Equal(t, 15, strong.GBPOpportunityBoost)
	assert.NotEmpty(t, strong.GBPNotes)

	weak := res.Candidates[1]
	assert.False(t, weak.GBPWebsiteMissing)
	assert.Zero(t, weak.GBPOpportunityBoost)

	webbed := res.Candidates[2]
	require.NotNil(t, webbed.GBPHasWebsite)
	assert.True(t, *webbed.GBPHasWebsite)
	assert.Equal(t, "webbed.com.au", webbed.Domain)
	assert.False(t, webbed.GBPWebsiteMissing)
}

func TestExecuteMarketSnapshot(t *testing.T) {
	client := &fakeSerp{
		ads: []serp.AdResult{
			{Position: 1, Headline: "Jim's Plumbing", DestinationURL: "https://jims.com.au"},
		},
		organic: []serp.OrganicResult{
			{Position: 1, Title: "Acme Plumbing", URL: "https://acmeplumbing.com.au", Domain: "acmeplumbing.com.au"},
			{Position: 2, Title: "Yellow Pages", URL: "https://yellowpages.com.au", Domain: "yellowpages.com.au"},
		},
		places: []serp.PlaceResult{
			{Position: 1, Name: "Acme Plumbing"},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	res, err := o.Execute(context.Background(), "plumber", "Brisbane",
		[]model.Channel{model.ChannelAds, model.ChannelMaps, model.ChannelOrganic}, DepthQuick)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Market.AdsCount)
	assert.Equal(t, 1, res.Market.MapsCount)
	// Directory hit excluded from organic density
	assert.Equal(t, 1, res.Market.OrganicCount)
	assert.Contains(t, res.Market.Names, "Jim's Plumbing")
}

func TestExecuteDeterministicOrder(t *testing.T) {
	client := &fakeSerp{
		ads: []serp.AdResult{
			{Position: 1, Headline: "Ad Plumbing", DestinationURL: "https://adplumb.com.au"},
		},
		organic: []serp.OrganicResult{
			{Position: 1, Title: "Organic Plumbing", URL: "https://organicplumb.com.au", Domain: "organicplumb.com.au"},
		},
	}
	o := NewOrchestrator(client, Options{RatePerSecond: 1000})

	var first []string
	for run := 0; run < 5; run++ {
		res, err := o.Execute(context.Background(), "plumber", "Brisbane",
			[]model.Channel{model.ChannelAds, model.ChannelOrganic}, DepthQuick)
		require.NoError(t, err)

		var names []string
		for _, c := range res.Candidates {
			names = append(names, c.Name)
		}
		if first == nil {
			first = names
		} else {
			assert.Equal(t, first, names)
		}
	}
}
