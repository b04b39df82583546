package risk

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders a price as "$1,234,567"; nil renders as an em
// dash, matching how the report shows unknown values.
func formatMoney(v *float64) string {
	if v == nil {
		return "—"
	}
	return moneyPrinter.Sprintf("$%.0f", *v)
}
