// Package formato implements the single bit-exact presentation contract of
// the system: currency amounts in locale es-MX with "$" symbol and exactly
// two decimal places.
package formato

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var impresor = message.NewPrinter(language.MustParse("es-MX"))

// Moneda renders a decimal amount as es-MX currency: "$1,234.50".
func Moneda(monto decimal.Decimal) string {
	f, _ := monto.Round(2).Float64()
	return impresor.Sprintf("$%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
