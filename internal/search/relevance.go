package search

import (
	"strings"
)

// aggregatorHints match anywhere in a domain and mark listing sites
// that are never genuine prospects, regardless of the configured
// directory blocklist.
var aggregatorHints = []string{
	"yellowpages", "truelocal", "hotfrog", "yelp", "airtasker",
	"hipages", "oneflare", "serviceseeking", "visitorsguide",
	"localsearch", "startlocal", "dlook", "whitepages",
	"infobel", "cylex", "aussieweb", "findlocal",
}

// irrelevantTypes are business categories filtered out unless the
// query itself asks for them. They show up in broad local searches
// (shopping-strip neighbours, mixed map packs).
var irrelevantTypes = []string{
	"internet cafe", "cyber cafe", "gaming", "esports", "lan cafe",
	"restaurant", "cafe", "coffee", "bakery", "takeaway",
	"hotel", "motel", "hostel", "gym", "fitness", "yoga",
	"hairdresser", "barber", "beauty salon", "nail salon",
	"supermarket", "grocery", "convenience store",
	"fast food", "pizza", "burger", "kebab",
}

// querySynonyms maps a base business type to terms that count as a
// positive match in strict mode.
var querySynonyms = map[string][]string{
	"buyer's agent": {"buyer", "buyers", "advocate", "advocacy", "property buyer", "buyer agent"},
	"buyers agent":  {"buyer", "buyers", "advocate", "advocacy", "property buyer", "buyer agent"},
	"plumber":       {"plumber", "plumbing", "drain", "gas fitter", "gasfitter"},
	"electrician":   {"electrician", "electrical", "sparky", "electric"},
	"accountant":    {"accountant", "accounting", "bookkeeper", "tax", "cpa"},
	"real estate":   {"real estate", "realestate", "property", "realtor"},
	"lawyer":        {"lawyer", "solicitor", "attorney", "legal", "law firm"},
	"dentist":       {"dentist", "dental", "orthodontist"},
	"doctor":        {"doctor", "medical", "clinic", "gp", "physician"},
	"mechanic":      {"mechanic", "automotive", "auto repair", "car service"},
	"builder":       {"builder", "construction", "contractor", "building"},
	"painter":       {"painter", "painting", "decorator"},
	"landscaper":    {"landscaper", "landscaping", "garden", "lawn"},
	"cleaner":       {"cleaner", "cleaning", "maid", "janitor"},
	"removalist":    {"removalist", "removal", "moving", "mover"},
	"photographer":  {"photographer", "photography", "photo studio"},
	"web developer": {"web developer", "web design", "website", "developer"},
	"marketing":     {"marketing", "digital marketing", "seo", "advertising"},
}

// IsAggregator reports whether the domain looks like a listing
// aggregator.
func IsAggregator(domain string) bool {
	if domain == "" {
		return false
	}
	d := strings.ToLower(domain)
	for _, hint := range aggregatorHints {
		if strings.Contains(d, hint) {
			return true
		}
	}
	return false
}

func synonymsFor(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	for base, syns := range querySynonyms {
		if strings.Contains(q, base) {
			return append(syns, base)
		}
		for _, s := range syns {
			if strings.Contains(q, s) {
				return append(syns, base)
			}
		}
	}
	return []string{q}
}

// RelevanceFilter decides whether a discovered business plausibly
// matches the search query.
type RelevanceFilter struct {
	// Strict requires a positive name or domain match against query
	// synonyms instead of only rejecting known-bad categories.
	Strict bool
	// ExtraDirectories augments the built-in aggregator hints.
	ExtraDirectories []string
}

// Check returns whether the business is relevant and, when it is not,
// the reason it was filtered.
func (f RelevanceFilter) Check(name, domain, category, query string) (bool, string) {
	d := strings.ToLower(domain)
	if IsAggregator(domain) {
		return false, "aggregator domain"
	}
	for _, dir := range f.ExtraDirectories {
		if dir != "" && strings.Contains(d, strings.ToLower(dir)) {
			return false, "directory domain"
		}
	}

	q := strings.ToLower(query)
	n := strings.ToLower(name)
	c := strings.ToLower(category)
	for _, irr := range irrelevantTypes {
		if strings.Contains(q, irr) {
			continue
		}
		if strings.Contains(n, irr) || strings.Contains(c, irr) {
			return false, "irrelevant business type"
		}
	}

	if f.Strict {
		matched := false
		for _, syn := range synonymsFor(query) {
			if strings.Contains(n, syn) || strings.Contains(d, syn) {
				matched = true
				break
			}
		}
		if !matched {
			return false, "no match for query type"
		}
	}

	return true, ""
}
