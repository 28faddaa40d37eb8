// Package dedupe collapses duplicate candidate records discovered
// across search channels into one record per business identity.
package dedupe

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/prospect-cli/internal/model"
)

// legalSuffixes are trailing company-form tokens ignored when
// comparing and canonicalizing names.
var legalSuffixes = []string{
	"pty ltd", "pty. ltd.", "pty limited", "proprietary limited",
	"ltd", "ltd.", "limited", "inc", "inc.", "llc", "co", "co.",
	"group", "holdings",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases, strips diacritics and punctuation, drops
// trailing legal suffixes, and collapses whitespace.
func normalizeName(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/' || r == '&':
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for changed := true; changed; {
		changed = false
		for _, suffix := range legalSuffixes {
			bare := strings.ReplaceAll(suffix, ".", "")
			if strings.HasSuffix(s, " "+bare) {
				s = strings.TrimSpace(strings.TrimSuffix(s, " "+bare))
				changed = true
			}
		}
	}
	return s
}

// normalizePhone keeps digits only, mapping the +61 country prefix to
// the domestic form.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "61") && len(digits) == 11 {
		digits = "0" + digits[2:]
	}
	return digits
}

// identityKey canonicalizes a candidate's identity: domain when
// present, else normalized name plus phone.
func identityKey(c model.Candidate) string {
	if c.Domain != "" {
		return "d:" + c.Domain
	}
	return "n:" + normalizeName(c.Name) + "|p:" + normalizePhone(c.Phone)
}

// Dedupe collapses duplicates, preserving first-occurrence order.
// Merging never drops a candidate: every input identity has exactly
// one survivor carrying the union of channel provenance.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	if len(candidates) < 2 {
		return candidates
	}

	out := make([]model.Candidate, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	merged := 0

	for _, c := range candidates {
		key := identityKey(c)
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		out[at] = merge(out[at], c)
		merged++
	}

	if merged > 0 {
		zap.L().Debug("deduplicated candidates",
			zap.Int("input", len(candidates)),
			zap.Int("output", len(out)),
			zap.Int("merged", merged),
		)
	}
	return out
}

// merge folds b into a. Channel tags union; missing fields fill from
// b; positions keep the best (lowest); the name with less legal-suffix
// noise wins.
func merge(a, b model.Candidate) model.Candidate {
	for _, ch := range b.Channels {
		a.AddChannel(ch)
	}

	a.Name = preferName(a.Name, b.Name)
	if a.Domain == "" && b.Domain != "" {
		a.Website = b.Website
		a.Domain = b.Domain
	}
	if a.Phone == "" {
		a.Phone = b.Phone
	}
	if a.Address == "" {
		a.Address = b.Address
	}
	if a.Category == "" {
		a.Category = b.Category
	}
	if a.Rating == nil {
		a.Rating = b.Rating
	}
	if a.ReviewCount == nil {
		a.ReviewCount = b.ReviewCount
	}

	a.AdPosition = minPos(a.AdPosition, b.AdPosition)
	a.MapsPosition = minPos(a.MapsPosition, b.MapsPosition)
	a.OrganicPosition = minPos(a.OrganicPosition, b.OrganicPosition)

	if a.GBPHasWebsite == nil {
		a.GBPHasWebsite = b.GBPHasWebsite
	}
	if b.GBPWebsiteMissing && !a.GBPWebsiteMissing {
		a.GBPWebsiteMissing = true
		a.GBPNotes = append(a.GBPNotes, b.GBPNotes...)
	}
	if b.GBPOpportunityBoost > a.GBPOpportunityBoost {
		a.GBPOpportunityBoost = b.GBPOpportunityBoost
	}

	return a
}

// preferName keeps the variant whose normalized form is the same but
// whose raw form carries less suffix noise; genuinely different names
// keep the first seen.
func preferName(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a == b {
		return a
	}
	if normalizeName(a) == normalizeName(b) && len(b) < len(a) {
		return b
	}
	return a
}

func minPos(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil || *a <= *b {
		return a
	}
	return b
}
