package risk

import (
	"math"

	"builderrisk/server/internal/models"
	"builderrisk/server/internal/stats"
)

// ResolveSubject builds the subject property from user input, falling
// back to comp-derived proxies for missing values. A missing price
// becomes the comp median price; a missing DOM becomes the rounded
// comp median DOM. When neither input nor proxy exists the field stays
// nil and the scorer applies its documented default penalty instead.
func ResolveSubject(address string, userPrice *float64, userDOM *int, comps []models.ComparableRecord) models.SubjectProperty {
	subject := models.SubjectProperty{Address: address}

	if userPrice != nil && *userPrice > 0 {
		subject.Price = userPrice
	} else if median := stats.Median(compPrices(comps)); median != nil {
		subject.Price = median
		subject.PriceProxied = true
	}

	if userDOM != nil && *userDOM >= 0 {
		subject.DaysOnMarket = userDOM
	} else if median := stats.MedianInts(compDOMs(comps)); median != nil {
		dom := int(math.Round(*median))
		subject.DaysOnMarket = &dom
		subject.DOMProxied = true
	}

	return subject
}

func compPrices(comps []models.ComparableRecord) []*float64 {
	out := make([]*float64, len(comps))
	for i := range comps {
		out[i] = comps[i].Price
	}
	return out
}

func compDOMs(comps []models.ComparableRecord) []*int {
	out := make([]*int, len(comps))
	for i := range comps {
		out[i] = comps[i].DaysOnMarket
	}
	return out
}
