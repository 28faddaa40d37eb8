package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sells-group/prospect-cli/internal/model"
)

// formatProspects writes a ranked table of prospects to w.
func formatProspects(out io.Writer, prospects []model.Prospect) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tDOMAIN\tPRIORITY\tFIT\tOPP\tCOMP\tINDUSTRY\tNOTES")
	_, _ = fmt.Fprintln(w, "-\t----\t------\t--------\t---\t---\t----\t--------\t-----")

	for i, p := range prospects {
		name := p.Candidate.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		domain := p.Candidate.Domain
		if domain == "" {
			domain = "(no website)"
		}
		notes := p.OpportunityNotes
		if p.Degraded {
			notes = "[degraded] " + notes
		}
		if len(notes) > 60 {
			notes = notes[:57] + "..."
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d\t%d\t%d\t%s\t%s\n",
			i+1,
			name,
			domain,
			p.PriorityScore,
			p.FitScore,
			p.OpportunityScore,
			p.CompetitionScore,
			p.IndustryCategory,
			notes,
		)
	}
	_ = w.Flush()
}

// formatSummary writes the run summary to w.
func formatSummary(out io.Writer, s model.RunSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", s.RunID)
	_, _ = fmt.Fprintf(w, "Searched:\t%d\n", s.Searched)
	_, _ = fmt.Fprintf(w, "Unique:\t%d\n", s.Deduplicated)
	_, _ = fmt.Fprintf(w, "Enriched:\t%d ok, %d failed\n", s.EnrichedOK, s.EnrichedFailed)
	_, _ = fmt.Fprintf(w, "API calls:\t%d\n", s.APICalls)
	_, _ = fmt.Fprintf(w, "Duration:\t%s\n", s.Duration.Round(time.Millisecond))

	for ch, msg := range s.ChannelErrors {
		_, _ = fmt.Fprintf(w, "Channel %s:\t%s\n", ch, msg)
	}
	for kind, count := range s.CrawlErrors {
		_, _ = fmt.Fprintf(w, "Crawl %s:\t%d\n", kind, count)
	}
	if s.StoreError != "" {
		_, _ = fmt.Fprintf(w, "Store error:\t%s\n", s.StoreError)
	}
	_ = w.Flush()
}
