package enrich

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxEmails = 5

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Australian number shapes: geographic/mobile, bracketed area
	// code, 1300/1800, and short 13 numbers.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:\+61|0)[2-478](?:[ \-]?\d){8}`),
		regexp.MustCompile(`\(\d{2}\)[ \-]?\d{4}[ \-]?\d{4}`),
		regexp.MustCompile(`1[38]00[ \-]?\d{3}[ \-]?\d{3}`),
		regexp.MustCompile(`13[ \-]?\d{2}[ \-]?\d{2}`),
	}

	nonPhoneRe = regexp.MustCompile(`[^\d+]`)

	spamEmailRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)@error-?tracking\.`),
		regexp.MustCompile(`(?i)@sentry\.io`),
		regexp.MustCompile(`(?i)@bugsnag\.com`),
		regexp.MustCompile(`(?i)@tracking\.`),
		regexp.MustCompile(`(?i)no-?reply@`),
		regexp.MustCompile(`(?i)do-?not-?reply@`),
		regexp.MustCompile(`(?i)mailer-daemon@`),
		regexp.MustCompile(`(?i)postmaster@`),
		regexp.MustCompile(`(?i)automated@`),
		regexp.MustCompile(`(?i)notifications@`),
		regexp.MustCompile(`(?i)^[a-f0-9]{20,}@`),
	}

	excludeEmailRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)@example\.`),
		regexp.MustCompile(`(?i)@test\.`),
		regexp.MustCompile(`(?i)@localhost`),
		regexp.MustCompile(`(?i)@domain\.`),
		regexp.MustCompile(`(?i)@email\.`),
		regexp.MustCompile(`(?i)@your`),
		regexp.MustCompile(`(?i)@site`),
		regexp.MustCompile(`(?i)@sample\.`),
		regexp.MustCompile(`(?i)@placeholder\.`),
		regexp.MustCompile(`(?i)cloudflare`),
		regexp.MustCompile(`(?i)googleapis`),
		regexp.MustCompile(`(?i)jquery`),
		regexp.MustCompile(`(?i)bootstrap`),
		regexp.MustCompile(`(?i)fontawesome`),
		regexp.MustCompile(`(?i)\.(png|jpe?g|gif|css|js|svg|webp)$`),
		regexp.MustCompile(`(?i)\.woff`),
		regexp.MustCompile(`(?i)@[23]x\.`),
	}

	spamEmailDomains = map[string]bool{
		"error-tracking.reddit.com": true,
		"sentry.io":                 true,
		"bugsnag.com":               true,
		"wix.com":                   true,
		"wixpress.com":              true,
		"wordpress.com":             true,
		"squarespace.com":           true,
		"squarespace-mail.com":      true,
		"mailchimp.com":             true,
		"sendgrid.net":              true,
		"amazonses.com":             true,
		"mailgun.org":               true,
		"mandrillapp.com":           true,
		"sparkpostmail.com":         true,
		"postmarkapp.com":           true,
		"intercom-mail.com":         true,
		"zendesk.com":               true,
		"freshdesk.com":             true,
	}

	socialPlatforms = map[string][]string{
		"facebook":  {"facebook.com/"},
		"instagram": {"instagram.com/"},
		"linkedin":  {"linkedin.com/"},
		"youtube":   {"youtube.com/", "youtu.be/"},
		"twitter":   {"twitter.com/", "x.com/"},
	}
)

func isSpamEmail(email string) bool {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		if spamEmailDomains[email[at+1:]] {
			return true
		}
	}
	for _, re := range spamEmailRes {
		if re.MatchString(email) {
			return true
		}
	}
	return false
}

// hexLocalPart catches auto-generated addresses whose local part is a
// long hash.
func hexLocalPart(email string) bool {
	at := strings.Index(email, "@")
	if at <= 15 {
		return false
	}
	local := email[:at]
	hex := 0
	for _, r := range local {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			hex++
		}
	}
	return float64(hex)/float64(len(local)) > 0.7
}

// ExtractEmails pulls contact emails from markup, spam-filtered and
// deduplicated, first-seen order, capped at five.
func ExtractEmails(html string) []string {
	if html == "" {
		return nil
	}

	var out []string
	seen := map[string]bool{}

	for _, match := range emailRe.FindAllString(html, -1) {
		email := strings.ToLower(match)
		if len(email) > 100 || seen[email] {
			continue
		}
		if isSpamEmail(email) || hexLocalPart(email) {
			continue
		}
		excluded := false
		for _, re := range excludeEmailRes {
			if re.MatchString(email) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		seen[email] = true
		out = append(out, email)
		if len(out) >= maxEmails {
			break
		}
	}
	return out
}

func formatAUNumber(digits string) string {
	if len(digits) != 9 {
		return digits
	}
	if digits[0] == '4' {
		return "0" + digits[:3] + " " + digits[3:6] + " " + digits[6:]
	}
	return "0" + digits[:1] + " " + digits[1:5] + " " + digits[5:]
}

// NormalizePhone canonicalizes an Australian phone number into display
// form. Numbers with fewer than eight digits are rejected.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	digits := nonPhoneRe.ReplaceAllString(phone, "")

	count := 0
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	if count < 8 {
		return ""
	}

	switch {
	case strings.HasPrefix(digits, "+61"):
		rest := strings.TrimPrefix(digits[3:], "0")
		return formatAUNumber(rest)
	case strings.HasPrefix(digits, "0"):
		return formatAUNumber(digits[1:])
	case strings.HasPrefix(digits, "1300") || strings.HasPrefix(digits, "1800"):
		return digits[:4] + " " + digits[4:7] + " " + digits[7:]
	default:
		return strings.TrimSpace(phone)
	}
}

// ExtractPhones pulls phone numbers from markup, normalized and
// deduplicated in first-seen order.
func ExtractPhones(html string) []string {
	if html == "" {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	for _, re := range phoneRes {
		for _, match := range re.FindAllString(html, -1) {
			normalized := NormalizePhone(match)
			if normalized == "" || seen[normalized] {
				continue
			}
			seen[normalized] = true
			out = append(out, normalized)
		}
	}
	return out
}

// PageContent is the structured part of a fetched page used for
// extraction.
type PageContent struct {
	Title           string
	MetaDescription string
	SocialLinks     map[string]string
	Links           []string
}

// ParsePage extracts title, meta description, social profile links,
// and internal anchors from a fetched document.
func ParsePage(doc *goquery.Document) PageContent {
	content := PageContent{SocialLinks: map[string]string{}}

	content.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		content.MetaDescription = strings.TrimSpace(desc)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		content.Links = append(content.Links, href)

		lower := strings.ToLower(href)
		for platform, hints := range socialPlatforms {
			if content.SocialLinks[platform] != "" {
				continue
			}
			for _, hint := range hints {
				if strings.Contains(lower, hint) {
					content.SocialLinks[platform] = href
					break
				}
			}
		}
	})

	return content
}

// FindContactPage returns the first link that looks like a contact
// page, or empty when none is present.
func FindContactPage(links []string) string {
	for _, link := range links {
		lower := strings.ToLower(link)
		if strings.Contains(lower, "contact") || strings.Contains(lower, "about-us") || strings.Contains(lower, "get-in-touch") {
			return link
		}
	}
	return ""
}
