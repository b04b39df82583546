package risk

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"builderrisk/server/internal/models"
	"builderrisk/server/internal/stats"
)

// Scoring constants. These are calibrated heuristics carried over
// unchanged for output compatibility; they are not fitted to outcome
// data and carry no confidence interval.
const (
	// A subject priced 25% above the comp median maxes the price
	// penalty; at or below the median it floors at zero.
	priceDeviationCeilingPct = 25.0
	// A subject sitting 150% longer than the comp median DOM maxes the
	// DOM penalty.
	domDeviationCeilingPct = 150.0

	defaultPricePenalty = 4.0
	defaultDOMPenalty   = 2.5
	defaultPoolPenalty  = 4.0

	lowBandCeiling      = 3.0
	moderateBandCeiling = 6.0

	// Logistic curve for the 60-day sale probability, centered so a
	// score of 5 maps to 50%.
	logisticSteepness = 0.55
	logisticCenter    = 5.0
)

// Profile names a composite weighting scheme. The three-term profile
// is the default; the two-term profile drops the buyer-pool signal and
// reweights price and DOM, for parity with older report versions.
type Profile struct {
	Name        string
	PriceWeight float64
	DOMWeight   float64
	PoolWeight  float64
}

var (
	ProfileThreeTerm = Profile{Name: "three_term", PriceWeight: 0.55, DOMWeight: 0.25, PoolWeight: 0.20}
	ProfileTwoTerm   = Profile{Name: "two_term", PriceWeight: 0.7, DOMWeight: 0.3, PoolWeight: 0}
)

// ProfileByName resolves a configured profile name, defaulting to the
// three-term profile for unknown names.
func ProfileByName(name string) Profile {
	if name == ProfileTwoTerm.Name {
		return ProfileTwoTerm
	}
	return ProfileThreeTerm
}

// buyerPoolTier maps the subject price to a buyer-pool breadth label
// and its penalty. Pricier homes draw from a thinner pool of qualified
// buyers, which slows sales independently of how well priced the home
// is against comps.
func buyerPoolTier(price *float64) (string, float64) {
	if price == nil {
		return "", defaultPoolPenalty
	}
	switch {
	case *price >= 900_000:
		return "Very Narrow", 8.0
	case *price >= 700_000:
		return "Narrow", 6.5
	case *price >= 500_000:
		return "Moderate", 4.0
	default:
		return "Broad", 1.5
	}
}

// saleProbability maps a composite score to an integer percent chance
// of selling within 60 days. Lower scores sell faster. This is a fixed
// heuristic curve, not a model calibrated against sale outcomes.
func saleProbability(score float64) int {
	p := 1 / (1 + math.Exp(logisticSteepness*(score-logisticCenter)))
	return int(math.Round(p * 100))
}

// Scorer computes risk assessments from a subject and its comp set.
type Scorer struct {
	profile Profile
	logger  *logrus.Logger
}

func NewScorer(profile Profile, logger *logrus.Logger) *Scorer {
	return &Scorer{profile: profile, logger: logger}
}

// Score computes the composite risk score, band, sale probability and
// reasoning for a subject against its comps. Missing numeric inputs
// never fail the computation; each gap falls back to a documented
// default penalty. The single terminal outcome is a comp set with no
// usable prices, which yields the Unavailable band.
func (s *Scorer) Score(subject models.SubjectProperty, comps []models.ComparableRecord) models.RiskAssessment {
	medianPrice := stats.Median(compPrices(comps))
	if medianPrice == nil {
		return models.RiskAssessment{
			Band:      models.RiskUnavailable,
			Reasoning: []string{"No comparable properties found."},
		}
	}
	medianDOM := stats.MedianInts(compDOMs(comps))

	var reasons []string

	var priceDeviationPct *float64
	if subject.Price != nil {
		pct := (*subject.Price - *medianPrice) / *medianPrice * 100
		priceDeviationPct = &pct
		reasons = append(reasons, fmt.Sprintf(
			"Subject price vs comps: %s vs median %s (%+.1f%%).",
			formatMoney(subject.Price), formatMoney(medianPrice), pct))
	} else {
		reasons = append(reasons, "Insufficient price data to determine pricing gap.")
	}

	var domDeviationPct *float64
	if subject.DaysOnMarket != nil && medianDOM != nil && *medianDOM > 0 {
		pct := (float64(*subject.DaysOnMarket) - *medianDOM) / *medianDOM * 100
		domDeviationPct = &pct
		reasons = append(reasons, fmt.Sprintf(
			"Subject DOM vs comps: %d vs median %d days (%+.0f%%).",
			*subject.DaysOnMarket, int(*medianDOM), pct))
	} else if subject.DaysOnMarket != nil {
		reasons = append(reasons, fmt.Sprintf(
			"Subject DOM provided: %d days (insufficient comp DOMs).", *subject.DaysOnMarket))
	}

	poolLabel, poolPenalty := buyerPoolTier(subject.Price)
	if poolLabel != "" {
		reasons = append(reasons, fmt.Sprintf(
			"Buyer pool heuristic for price point: %s.", poolLabel))
	}

	pricePenalty := defaultPricePenalty
	if priceDeviationPct != nil {
		pricePenalty = stats.Clamp(*priceDeviationPct/priceDeviationCeilingPct*10, 0, 10)
	}

	domPenalty := defaultDOMPenalty
	if domDeviationPct != nil {
		domPenalty = stats.Clamp(*domDeviationPct/domDeviationCeilingPct*10, 0, 10)
	}

	score := s.profile.PriceWeight*pricePenalty +
		s.profile.DOMWeight*domPenalty +
		s.profile.PoolWeight*poolPenalty
	score = stats.Clamp(score, 0, 10)

	band := models.RiskHigh
	switch {
	case score < lowBandCeiling:
		band = models.RiskLow
	case score < moderateBandCeiling:
		band = models.RiskModerate
	}

	probability := saleProbability(score)

	rounded := stats.Round1(score)
	reasons = append(reasons, fmt.Sprintf("Composite risk score: %.1f/10 (%s).", rounded, band))
	reasons = append(reasons, fmt.Sprintf(
		"Estimated probability to sell within 60 days: %d%% (heuristic).", probability))

	s.logger.WithFields(logrus.Fields{
		"profile":     s.profile.Name,
		"score":       rounded,
		"band":        band,
		"probability": probability,
	}).Info("Risk assessment computed")

	return models.RiskAssessment{
		PriceDeviationPct:  priceDeviationPct,
		DOMDeviationPct:    domDeviationPct,
		CompMedianPrice:    medianPrice,
		CompMedianDOM:      medianDOM,
		CompositeScore:     &rounded,
		Band:               band,
		SaleProbability60d: &probability,
		Reasoning:          reasons,
	}
}
