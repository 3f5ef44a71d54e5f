package signals

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultUSDToCADRate is the static conversion rate used when none is configured
const DefaultUSDToCADRate = 1.37

var (
	// leadingNumber accepts the numeric prefix of a price part ("1.0845 approx" -> 1.0845)
	leadingNumber = regexp.MustCompile(`^[+]?(\d+(\.\d*)?|\.\d+)`)
	cadPrinter    = message.NewPrinter(language.MustParse("en-CA"))
)

// ConvertPriceToCAD converts a USD display price or range ("$68,500 - $69,200") into
// a CAD display string ("93,845.00 - 94,804.00 $CAD"). Returns "" when the price
// is empty, "N/A", contains an unparsable part, or the rate is not positive.
func ConvertPriceToCAD(usdPrice string, rate float64) string {
	if rate <= 0 || usdPrice == "" || strings.EqualFold(strings.TrimSpace(usdPrice), "n/a") {
		return ""
	}

	cleaned := strings.NewReplacer("$", "", ",", "").Replace(usdPrice)
	cleaned = strings.TrimSpace(cleaned)

	cadRate := decimal.NewFromFloat(rate)
	parts := strings.Split(cleaned, "-")
	converted := make([]string, 0, len(parts))

	for _, part := range parts {
		match := leadingNumber.FindString(strings.TrimSpace(part))
		if match == "" {
			return ""
		}
		value, err := decimal.NewFromString(strings.TrimPrefix(match, "+"))
		if err != nil {
			return ""
		}
		converted = append(converted, formatCAD(value.Mul(cadRate)))
	}

	return strings.Join(converted, " - ") + " $CAD"
}

// formatCAD rounds half-up to cents and applies en-CA digit grouping
func formatCAD(value decimal.Decimal) string {
	rounded := value.Round(2)
	return cadPrinter.Sprint(number.Decimal(rounded.InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
