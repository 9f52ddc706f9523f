package normalize

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// PriceLabel renders a cost the way the storefront shows it: "Gratis" for
// zero, otherwise a locale-formatted peso amount.
func PriceLabel(cost float64) string {
	if cost == 0 {
		return "Gratis"
	}
	return printer.Sprintf("$%v", number.Decimal(cost))
}
