// Package model defines the data types shared across the discovery pipeline.
package model

import (
	"net/url"
	"strings"
	"time"
)

// Channel identifies a search-result source.
type Channel string

const (
	ChannelAds     Channel = "ads"
	ChannelMaps    Channel = "maps"
	ChannelOrganic Channel = "organic"
)

// AllChannels lists every supported channel in canonical order.
var AllChannels = []Channel{ChannelAds, ChannelMaps, ChannelOrganic}

// ParseChannel validates a channel name.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelAds:
		return ChannelAds, true
	case ChannelMaps:
		return ChannelMaps, true
	case ChannelOrganic:
		return ChannelOrganic, true
	}
	return "", false
}

// Candidate is a business record mid-pipeline: created by the search
// orchestrator, merged by the deduplicator, enriched by the crawler.
type Candidate struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	// SERP provenance. Positions are nil when the candidate was not seen
	// on that channel.
	Channels        []Channel `json:"channels"`
	AdPosition      *int      `json:"ad_position,omitempty"`
	MapsPosition    *int      `json:"maps_position,omitempty"`
	OrganicPosition *int      `json:"organic_position,omitempty"`

	// Maps listing metadata.
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Category    string   `json:"category,omitempty"`

	// GBP opportunity: a maps listing with good reviews and no website.
	GBPHasWebsite       *bool    `json:"gbp_has_website,omitempty"`
	GBPWebsiteMissing   bool     `json:"gbp_website_missing,omitempty"`
	GBPOpportunityBoost int      `json:"gbp_opportunity_boost,omitempty"`
	GBPNotes            []string `json:"gbp_notes,omitempty"`

	FoundAt time.Time `json:"found_at"`
}

// HasChannel reports whether the candidate was seen on the given channel.
func (c *Candidate) HasChannel(ch Channel) bool {
	for _, have := range c.Channels {
		if have == ch {
			return true
		}
	}
	return false
}

// AddChannel records channel provenance, preserving first-seen order.
func (c *Candidate) AddChannel(ch Channel) {
	if !c.HasChannel(ch) {
		c.Channels = append(c.Channels, ch)
	}
}

// SetWebsite stores the website URL and its normalized domain.
func (c *Candidate) SetWebsite(rawURL string) {
	c.Website = rawURL
	c.Domain = NormalizeDomain(rawURL)
}

// NormalizeDomain reduces a URL or host to its canonical form: scheme
// stripped, "www." stripped, lowercased, no path. Returns "" when no
// host can be extracted.
func NormalizeDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")
	return host
}
