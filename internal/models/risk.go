package models

// RiskBand classifies the composite score.
type RiskBand string

const (
	RiskLow         RiskBand = "Low"
	RiskModerate    RiskBand = "Moderate"
	RiskHigh        RiskBand = "High"
	RiskUnavailable RiskBand = "Unavailable"
)

// RiskAssessment is the output of the scorer. CompositeScore and
// SaleProbability60d are nil exactly when Band is RiskUnavailable,
// which happens only when no comp contributed a price.
type RiskAssessment struct {
	PriceDeviationPct  *float64 `json:"price_deviation_pct"`
	DOMDeviationPct    *float64 `json:"dom_deviation_pct"`
	CompMedianPrice    *float64 `json:"comp_median_price"`
	CompMedianDOM      *float64 `json:"comp_median_dom"`
	CompositeScore     *float64 `json:"composite_score"`
	Band               RiskBand `json:"risk_band"`
	SaleProbability60d *int     `json:"sale_probability_60d"`
	Reasoning          []string `json:"reasoning"`
}

// Report is the read-only value handed to the presentation layer. The
// renderer draws tables, charts and the PDF from it and never
// recomputes a score.
type Report struct {
	DisplayAddress string             `json:"display_address"`
	Subject        SubjectProperty    `json:"subject"`
	Comparables    []ComparableRecord `json:"comparables"`
	TotalComps     int                `json:"total_comps"`
	GatherTrace    []GatherStep       `json:"gather_trace"`
	Assessment     RiskAssessment     `json:"assessment"`
	Advisory       []string           `json:"advisory"`
}
