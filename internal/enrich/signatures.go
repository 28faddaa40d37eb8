package enrich

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalog holds the technology signatures matched against fetched
// pages. The defaults cover the platforms seen in Australian local
// business sites; a YAML file can replace any section wholesale.
type Catalog struct {
	CMS        []NamedSignature `yaml:"cms"`
	Tracking   []NamedSignature `yaml:"tracking"`
	Booking    []string         `yaml:"booking"`
	Frameworks []NamedSignature `yaml:"frameworks"`
	Responsive []string         `yaml:"responsive"`
}

// NamedSignature maps a technology name to the substrings that reveal
// it in markup.
type NamedSignature struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Tracking provider keys, matching the keys of
// model.WebsiteSignals.Tracking.
const (
	TrackGoogleAnalytics = "google_analytics"
	TrackFacebookPixel   = "facebook_pixel"
	TrackGoogleAds       = "google_ads"
)

// WeakCMSPlatforms are DIY site builders that signal a business likely
// maintaining its own web presence.
var WeakCMSPlatforms = map[string]bool{
	"Wix":                     true,
	"Weebly":                  true,
	"GoDaddy Website Builder": true,
}

// DefaultCatalog returns the built-in signature catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		CMS: []NamedSignature{
			{Name: "WordPress", Patterns: []string{"/wp-content/", "/wp-includes/", "wp-json", "wordpress"}},
			{Name: "Wix", Patterns: []string{"wix.com", "wixsite.com", "_wix_browser_sess", "wix-code"}},
			{Name: "Squarespace", Patterns: []string{"squarespace.com", "static.squarespace", "sqsp.net"}},
			{Name: "Shopify", Patterns: []string{"cdn.shopify.com", "myshopify.com", "shopify"}},
			{Name: "Webflow", Patterns: []string{"webflow.com", "assets-global.website-files", "webflow.io"}},
			{Name: "Weebly", Patterns: []string{"weebly.com", "weeblycloud.com"}},
			{Name: "GoDaddy Website Builder", Patterns: []string{"godaddy.com", "secureserver.net", "godaddysites"}},
			{Name: "Joomla", Patterns: []string{"joomla", "/components/com_"}},
			{Name: "Drupal", Patterns: []string{"drupal", "/sites/default/"}},
		},
		Tracking: []NamedSignature{
			{Name: TrackGoogleAnalytics, Patterns: []string{"google-analytics.com", "gtag(", "googletagmanager.com"}},
			{Name: TrackFacebookPixel, Patterns: []string{"facebook.com/tr", "fbq(", "connect.facebook.net"}},
			{Name: TrackGoogleAds, Patterns: []string{"googleadservices.com", "googlesyndication.com", "google_conversion"}},
		},
		Booking: []string{
			"calendly.com", "acuityscheduling", "youcanbook.me", "setmore.com",
			"square.site/book", "fresha.com", "book-online", "book-now",
			"schedule-appointment", "hubspot.com/meetings", "bookings.google.com",
			"appointlet.com", "simplybook.me", "timify.com",
		},
		Frameworks: []NamedSignature{
			{Name: "React", Patterns: []string{"react", "reactdom", "__react"}},
			{Name: "Vue.js", Patterns: []string{"vue.js", "vuejs", "__vue__"}},
			{Name: "Angular", Patterns: []string{"ng-app", "ng-controller", "angular"}},
			{Name: "jQuery", Patterns: []string{"jquery", "$(document)", "$.ajax"}},
			{Name: "Bootstrap", Patterns: []string{"bootstrap.min", "bootstrap.css"}},
			{Name: "Tailwind", Patterns: []string{"tailwindcss", "tailwind.css"}},
		},
		Responsive: []string{"viewport", "media=", "@media", "responsive", "bootstrap", "tailwind"},
	}
}

// LoadCatalog reads a catalog override file. Sections present in the
// file replace the default section; absent sections keep the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read signature catalog")
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrap(err, "enrich: parse signature catalog")
	}

	cat := DefaultCatalog()
	if len(override.CMS) > 0 {
		cat.CMS = override.CMS
	}
	if len(override.Tracking) > 0 {
		cat.Tracking = override.Tracking
	}
	if len(override.Booking) > 0 {
		cat.Booking = override.Booking
	}
	if len(override.Frameworks) > 0 {
		cat.Frameworks = override.Frameworks
	}
	if len(override.Responsive) > 0 {
		cat.Responsive = override.Responsive
	}
	return cat, nil
}

// DetectCMS returns the first CMS whose signature appears in the page,
// or nil when none match.
func (c *Catalog) DetectCMS(html string) *string {
	lower := strings.ToLower(html)
	for _, sig := range c.CMS {
		for _, p := range sig.Patterns {
			if strings.Contains(lower, strings.ToLower(p)) {
				name := sig.Name
				return &name
			}
		}
	}
	return nil
}

// DetectTracking reports presence per tracking provider. Every
// catalog provider gets an entry, so absence means "checked and not
// found" rather than unknown.
func (c *Catalog) DetectTracking(html string) map[string]bool {
	lower := strings.ToLower(html)
	out := make(map[string]bool, len(c.Tracking))
	for _, sig := range c.Tracking {
		found := false
		for _, p := range sig.Patterns {
			if strings.Contains(lower, p) {
				found = true
				break
			}
		}
		out[sig.Name] = found
	}
	return out
}

// DetectBooking reports whether any booking-widget signature appears.
func (c *Catalog) DetectBooking(html string) bool {
	lower := strings.ToLower(html)
	for _, sig := range c.Booking {
		if strings.Contains(lower, strings.ToLower(sig)) {
			return true
		}
	}
	return false
}

// DetectFrameworks lists front-end frameworks present in the page.
func (c *Catalog) DetectFrameworks(html string) []string {
	lower := strings.ToLower(html)
	var out []string
	for _, sig := range c.Frameworks {
		for _, p := range sig.Patterns {
			if strings.Contains(lower, p) {
				out = append(out, sig.Name)
				break
			}
		}
	}
	return out
}

// DetectResponsive reports whether the page shows responsive-design
// markers.
func (c *Catalog) DetectResponsive(html string) bool {
	lower := strings.ToLower(html)
	for _, ind := range c.Responsive {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
