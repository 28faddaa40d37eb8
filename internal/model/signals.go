package model

// CrawlErrorKind categorizes an enrichment failure.
type CrawlErrorKind string

const (
	CrawlErrorNetwork   CrawlErrorKind = "network"
	CrawlErrorTimeout   CrawlErrorKind = "timeout"
	CrawlErrorCancelled CrawlErrorKind = "cancelled"
	CrawlErrorParse     CrawlErrorKind = "parse"
	CrawlErrorBlocked   CrawlErrorKind = "blocked"
)

// CrawlError is a per-candidate enrichment failure carried as data
// rather than raised. The scoring stage branches on Kind.
type CrawlError struct {
	Kind    CrawlErrorKind `json:"kind"`
	Message string         `json:"message,omitempty"`
}

func (e *CrawlError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// WebsiteSignals holds the marketing signals extracted from one
// candidate's website. A nil tristate pointer means "unknown", never
// "absent": the distinction matters for scoring, which must not
// conflate missing data with a confirmed gap.
//
// Signals are created once per candidate and are immutable after
// creation. When CrawlErr is set, every other field is empty/unknown;
// partial extractions are discarded, never returned as if complete.
type WebsiteSignals struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	HasSSL    bool   `json:"has_ssl"`

	CMS        *string `json:"cms,omitempty"`
	HasBooking *bool   `json:"has_booking,omitempty"`

	// Tracking, keyed by provider (google_analytics, facebook_pixel,
	// google_ads). Missing key = unknown.
	Tracking map[string]bool `json:"tracking,omitempty"`

	LoadTimeMS *int `json:"load_time_ms,omitempty"`

	Emails      []string          `json:"emails,omitempty"`
	Phones      []string          `json:"phones,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`

	Title           string `json:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`

	PagesFetched int `json:"pages_fetched"`

	CrawlErr *CrawlError `json:"crawl_error,omitempty"`
}

// Failed reports whether enrichment failed for this candidate.
func (s *WebsiteSignals) Failed() bool {
	return s == nil || s.CrawlErr != nil
}

// HasTracking returns the tristate for one tracking provider:
// (present, known).
func (s *WebsiteSignals) HasTracking(provider string) (bool, bool) {
	if s == nil || s.Tracking == nil {
		return false, false
	}
	v, ok := s.Tracking[provider]
	return v, ok
}

// ErrorSignals builds the degraded WebsiteSignals returned when a
// crawl fails: the error and nothing else.
func ErrorSignals(url string, kind CrawlErrorKind, msg string) *WebsiteSignals {
	return &WebsiteSignals{
		URL:      url,
		CrawlErr: &CrawlError{Kind: kind, Message: msg},
	}
}
