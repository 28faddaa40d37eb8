package serp

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Channel selects which SERP section a search targets.
type Channel string

const (
	ChannelAds     Channel = "ads"
	ChannelMaps    Channel = "maps"
	ChannelOrganic Channel = "organic"
)

// Request describes one provider search.
type Request struct {
	Query    string
	Location string
	Channel  Channel
	// Page is 1-based; page size is provider-controlled.
	Page int
}

// AdResult is a paid placement on the results page.
type AdResult struct {
	Position       int    `json:"position"`
	Headline       string `json:"title"`
	DisplayURL     string `json:"displayed_link"`
	DestinationURL string `json:"link"`
	Description    string `json:"description"`
	BlockPosition  string `json:"block_position"`
}

// IsTop reports whether the ad ran above the organic results.
func (a AdResult) IsTop() bool { return a.BlockPosition == "top" }

// PlaceResult is a map-pack listing.
type PlaceResult struct {
	Position    int      `json:"position"`
	Name        string   `json:"title"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviews,omitempty"`
	Category    string   `json:"type,omitempty"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
}

// OrganicResult is an unpaid listing.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"link"`
	Domain   string `json:"displayed_link"`
	Snippet  string `json:"snippet"`
}

// Results is the parsed response for one channel search. Only the
// section matching the requested channel is populated.
type Results struct {
	Query    string
	Location string
	Channel  Channel

	Ads     []AdResult
	Places  []PlaceResult
	Organic []OrganicResult
}

// Count returns the number of hits in the populated section.
func (r *Results) Count() int {
	return len(r.Ads) + len(r.Places) + len(r.Organic)
}

// response is the provider's wire shape. Sections are kept raw so a
// malformed section drops cleanly instead of failing the whole parse.
type response struct {
	Ads     json.RawMessage `json:"ads"`
	Local   json.RawMessage `json:"local_results"`
	Organic json.RawMessage `json:"organic_results"`
	Error   string          `json:"error,omitempty"`
}

type localResults struct {
	Places []json.RawMessage `json:"places"`
}

// parseSection decodes a list of raw entries into T, dropping entries
// that fail to decode. Unknown shapes never abort a search.
func parseSection[T any](section string, raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for _, entry := range raw {
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			zap.L().Debug("serp: dropping malformed result entry",
				zap.String("section", section),
				zap.Error(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out
}

func parseList(section string, raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		zap.L().Debug("serp: dropping malformed section",
			zap.String("section", section),
			zap.Error(err),
		)
		return nil
	}
	return entries
}

// parseResults fills the section for the requested channel.
func parseResults(req Request, resp *response) *Results {
	out := &Results{
		Query:    req.Query,
		Location: req.Location,
		Channel:  req.Channel,
	}

	switch req.Channel {
	case ChannelAds:
		out.Ads = parseSection[AdResult]("ads", parseList("ads", resp.Ads))
	case ChannelMaps:
		var local localResults
		if len(resp.Local) > 0 {
			if err := json.Unmarshal(resp.Local, &local); err != nil {
				zap.L().Debug("serp: dropping malformed local_results", zap.Error(err))
			}
		}
		out.Places = parseSection[PlaceResult]("local_results", local.Places)
	case ChannelOrganic:
		out.Organic = parseSection[OrganicResult]("organic_results", parseList("organic_results", resp.Organic))
	}

	return out
}
