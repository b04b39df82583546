package risk

import "builderrisk/server/internal/models"

// AdviceFor returns the contingency-contract suggestions for a risk
// band. Pure lookup; the texts reference pricing and deadline tactics
// appropriate to each band.
func AdviceFor(band models.RiskBand) []string {
	switch band {
	case models.RiskLow:
		return []string{
			"List at or very near the median comp value.",
			"Standard buyer incentives only if showing traffic is weak after 2 weeks.",
			"Maintain normal contingency deadlines.",
		}
	case models.RiskModerate:
		return []string{
			"Price within 1–2% of comp median and prepare a 1% scheduled reduction after 21 days if no offers.",
			"Highlight move-in readiness and include light concessions (e.g., closing cost credit or rate buydown).",
			"Shorten buyer response windows to keep momentum.",
		}
	case models.RiskHigh:
		return []string{
			"Start 2–4% below comp median or implement a staged reduction plan (1% every 14 days).",
			"Increase marketing cadence: refreshed media, weekly open houses, agent outreach.",
			"Consider lender buy-down credits and extended rate lock options to expand buyer pool.",
		}
	default:
		return []string{"Insufficient data for recommendations."}
	}
}
