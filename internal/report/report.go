package report

import (
	"strings"

	"builderrisk/server/internal/models"
)

// DefaultDisplayLimit caps how many comparables a report carries to
// the renderer.
const DefaultDisplayLimit = 12

// Build assembles the read-only report value for the presentation
// layer, capping the displayed comparables at displayLimit while
// recording how many comps actually informed the assessment.
func Build(displayAddress string, subject models.SubjectProperty, comps []models.ComparableRecord, trace []models.GatherStep, assessment models.RiskAssessment, advisory []string, displayLimit int) models.Report {
	if displayLimit <= 0 {
		displayLimit = DefaultDisplayLimit
	}

	shown := comps
	if len(shown) > displayLimit {
		shown = shown[:displayLimit]
	}

	return models.Report{
		DisplayAddress: displayAddress,
		Subject:        subject,
		Comparables:    shown,
		TotalComps:     len(comps),
		GatherTrace:    trace,
		Assessment:     assessment,
		Advisory:       advisory,
	}
}

// suffixAbbreviations shortens common street suffixes and directions
// so chart labels fit without overlapping.
var suffixAbbreviations = []struct{ long, short string }{
	{" Road", " Rd"}, {" Street", " St"}, {" Avenue", " Ave"}, {" Boulevard", " Blvd"},
	{" Drive", " Dr"}, {" Court", " Ct"}, {" Lane", " Ln"}, {" Trail", " Trl"},
	{" Parkway", " Pkwy"}, {" Place", " Pl"}, {" Highway", " Hwy"},
	{" North", " N"}, {" South", " S"}, {" East", " E"}, {" West", " W"},
}

// AbbreviateAddress shortens an address for chart labels. Street
// suffixes are abbreviated first; if the result still exceeds maxLen,
// the street part is truncated with an ellipsis while the city/state
// tail is kept visible.
func AbbreviateAddress(addr string, maxLen int) string {
	if addr == "" {
		return ""
	}
	for _, s := range suffixAbbreviations {
		addr = strings.ReplaceAll(addr, s.long, s.short)
	}
	if len([]rune(addr)) <= maxLen {
		return addr
	}

	parts := strings.Split(addr, ",")
	if len(parts) >= 2 {
		left := strings.TrimSpace(parts[0])
		rest := make([]string, 0, len(parts)-1)
		for _, p := range parts[1:] {
			rest = append(rest, strings.TrimSpace(p))
		}
		if len([]rune(left)) > maxLen {
			left = string([]rune(left)[:maxLen-3]) + "…"
		}
		return left + ", " + strings.Join(rest, ", ")
	}
	return string([]rune(addr)[:maxLen-1]) + "…"
}
