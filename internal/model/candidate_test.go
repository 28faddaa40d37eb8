package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url", "https://www.acmeplumbing.com.au/services", "acmeplumbing.com.au"},
		{"http scheme", "http://acmeplumbing.com.au", "acmeplumbing.com.au"},
		{"bare host", "acmeplumbing.com.au", "acmeplumbing.com.au"},
		{"uppercase", "HTTPS://WWW.Acme.COM", "acme.com"},
		{"with port", "https://acme.com:8443/", "acme.com"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"garbage", "://///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDomain(tt.in))
		})
	}
}

func TestCandidateChannels(t *testing.T) {
	var c Candidate
	c.AddChannel(ChannelOrganic)
	c.AddChannel(ChannelAds)
	c.AddChannel(ChannelOrganic) // duplicate ignored

	assert.Equal(t, []Channel{ChannelOrganic, ChannelAds}, c.Channels)
	assert.True(t, c.HasChannel(ChannelAds))
	assert.False(t, c.HasChannel(ChannelMaps))
}

func TestSetWebsiteNormalizesDomain(t *testing.T) {
	var c Candidate
	c.SetWebsite("https://www.Example.com/about")

	assert.Equal(t, "https://www.Example.com/about", c.Website)
	assert.Equal(t, "example.com", c.Domain)
}

func TestParseChannel(t *testing.T) {
	ch, ok := ParseChannel(" Ads ")
	assert.True(t, ok)
	assert.Equal(t, ChannelAds, ch)

	_, ok = ParseChannel("video")
	assert.False(t, ok)
}

func TestErrorSignalsCarriesNothingElse(t *testing.T) {
	s := ErrorSignals("https://down.example.com", CrawlErrorNetwork, "connection refused")

	assert.True(t, s.Failed())
	assert.False(t, s.Reachable)
	assert.Nil(t, s.CMS)
	assert.Empty(t, s.Emails)
	assert.Empty(t, s.Tracking)
	assert.Equal(t, "network: connection refused", s.CrawlErr.Error())
}

func TestScoreBreakdownTotal(t *testing.T) {
	b := ScoreBreakdown{
		{Name: "a", Raw: 1, Weight: 0.5, Contribution: 50},
		{Name: "b", Raw: 0.5, Weight: 0.5, Contribution: 25},
	}
	assert.InDelta(t, 75, b.Total(), 0.001)
}

func TestHasTrackingTristate(t *testing.T) {
	s := &WebsiteSignals{Tracking: map[string]bool{"google_analytics": false}}

	present, known := s.HasTracking("google_analytics")
	assert.True(t, known)
	assert.False(t, present)

	_, known = s.HasTracking("facebook_pixel")
	assert.False(t, known)

	var nilSignals *WebsiteSignals
	_, known = nilSignals.HasTracking("google_analytics")
	assert.False(t, known)
}
