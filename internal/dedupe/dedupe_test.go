package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func intp(v int) *int { return &v }

func organicCandidate(name, website string, pos int) model.Candidate {
	c := model.Candidate{Name: name}
	c.AddChannel(model.ChannelOrganic)
	c.OrganicPosition = intp(pos)
	c.SetWebsite(website)
	return c
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Plumbing Pty Ltd", "acme plumbing"},
		{"Acme Plumbing Pty. Ltd.", "acme plumbing"},
		{"ACME PLUMBING", "acme plumbing"},
		{"Café Brûlée", "cafe brulee"},
		{"Smith & Sons", "smith sons"},
		{"Acme Plumbing Group Pty Ltd", "acme plumbing"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeName(tt.in), "input %q", tt.in)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0735550000", normalizePhone("(07) 3555 0000"))
	assert.Equal(t, "0412345678", normalizePhone("+61 412 345 678"))
	assert.Equal(t, "0412345678", normalizePhone("0412 345 678"))
}

func TestDedupeByDomain(t *testing.T) {
	in := []model.Candidate{
		organicCandidate("Acme Plumbing", "https://www.acmeplumbing.com.au/", 1),
		organicCandidate("Acme Plumbing Pty Ltd", "http://acmeplumbing.com.au/about", 4),
		organicCandidate("Other Plumbing", "https://otherplumb.com.au", 2),
	}

	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "acmeplumbing.com.au", out[0].Domain)
	assert.Equal(t, "Acme Plumbing", out[0].Name)
	assert.Equal(t, 1, *out[0].OrganicPosition)
	assert.Equal(t, "Other Plumbing", out[1].Name)
}

func TestDedupeByNamePhoneWhenNoDomain(t *testing.T) {
	a := model.Candidate{Name: "Acme Plumbing", Phone: "(07) 3555 0000"}
	a.AddChannel(model.ChannelMaps)
	b := model.Candidate{Name: "Acme Plumbing Pty Ltd", Phone: "07 3555 0000"}
	b.AddChannel(model.ChannelAds)

	out := Dedupe([]model.Candidate{a, b})
	require.Len(t, out, 1)
	assert.ElementsMatch(t, []model.Channel{model.ChannelMaps, model.ChannelAds}, out[0].Channels)
}

func TestDedupeMergesFields(t *testing.T) {
	a := organicCandidate("Acme Plumbing", "https://acmeplumbing.com.au", 3)
	b := model.Candidate{
		Name:    "Acme Plumbing",
		Phone:   "(07) 3555 0000",
		Address: "1 Pipe St, Brisbane",
		Rating:  func() *float64 { v := 4.6; return &v }(),
	}
	b.AddChannel(model.ChannelMaps)
	b.MapsPosition = intp(2)
	b.SetWebsite("https://acmeplumbing.com.au")

	out := Dedupe([]model.Candidate{a, b})
	require.Len(t, out, 1)

	m := out[0]
	assert.Equal(t, "(07) 3555 0000", m.Phone)
	assert.Equal(t, "1 Pipe St, Brisbane", m.Address)
	assert.Equal(t, 3, *m.OrganicPosition)
	assert.Equal(t, 2, *m.MapsPosition)
	require.NotNil(t, m.Rating)
	assert.InDelta(t, 4.6, *m.Rating, 0.001)
	assert.True(t, m.HasChannel(model.ChannelOrganic))
	assert.True(t, m.HasChannel(model.ChannelMaps))
}

func TestDedupeKeepsBestPosition(t *testing.T) {
	a := organicCandidate("Acme", "https://acme.com.au", 7)
	b := organicCandidate("Acme", "https://acme.com.au", 2)

	out := Dedupe([]model.Candidate{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 2, *out[0].OrganicPosition)
}

func TestDedupePrefersShorterNameVariant(t *testing.T) {
	a := organicCandidate("Acme Plumbing Pty Ltd", "https://acme.com.au", 1)
	b := organicCandidate("Acme Plumbing", "https://acme.com.au", 2)

	out := Dedupe([]model.Candidate{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "Acme Plumbing", out[0].Name)
}

func TestDedupeKeepsDistinctNames(t *testing.T) {
	a := model.Candidate{Name: "Acme Plumbing", Phone: "111"}
	b := model.Candidate{Name: "Zenith Plumbing", Phone: "222"}

	out := Dedupe([]model.Candidate{a, b})
	assert.Len(t, out, 2)
}

func TestDedupeIdempotent(t *testing.T) {
	in := []model.Candidate{
		organicCandidate("Acme Plumbing", "https://acmeplumbing.com.au", 1),
		organicCandidate("Acme Plumbing Pty Ltd", "https://acmeplumbing.com.au", 4),
		organicCandidate("Other Plumbing", "https://otherplumb.com.au", 2),
		{Name: "No Domain Co", Phone: "(07) 3555 1111"},
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupePreservesChannelCoverage(t *testing.T) {
	in := []model.Candidate{
		organicCandidate("Acme", "https://acme.com.au", 1),
	}
	maps := model.Candidate{Name: "Acme"}
	maps.AddChannel(model.ChannelMaps)
	maps.SetWebsite("https://acme.com.au")
	ads := model.Candidate{Name: "Acme"}
	ads.AddChannel(model.ChannelAds)
	ads.SetWebsite("https://acme.com.au")
	in = append(in, maps, ads)

	out := Dedupe(in)
	require.Len(t, out, 1)

	union := map[model.Channel]bool{}
	for _, c := range out {
		for _, ch := range c.Channels {
			union[ch] = true
		}
	}
	assert.Len(t, union, 3)
}

func TestDedupeGBPMerge(t *testing.T) {
	a := model.Candidate{Name: "Acme", Phone: "111"}
	b := model.Candidate{
		Name:                "Acme",
		Phone:               "111",
		GBPWebsiteMissing:   true,
		GBPOpportunityBoost: 15,
		GBPNotes:            []string{"No website on Google Business Profile despite strong reviews"},
	}

	out := Dedupe([]model.Candidate{a, b})
	require.Len(t, out, 1)
	assert.True(t, out[0].GBPWebsiteMissing)
	assert.Equal(t, 15, out[0].GBPOpportunityBoost)
	assert.NotEmpty(t, out[0].GBPNotes)
}

func TestDedupeEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Dedupe(nil))

	one := []model.Candidate{{Name: "Solo"}}
	assert.Equal(t, one, Dedupe(one))
}
