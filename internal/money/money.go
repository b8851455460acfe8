// Package money renders decimal amounts in a configured currency.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// NewFormatter accepts an ISO 4217 code such as "INR" or "EUR".
func NewFormatter(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", code, err)
	}

	printer := message.NewPrinter(language.English)

	return &Formatter{
		unit:    unit,
		symbol:  strings.TrimSpace(printer.Sprint(currency.Symbol(unit))),
		printer: printer,
	}, nil
}

func (f *Formatter) Code() string {
	return f.unit.String()
}

// Format renders d with the currency symbol and two decimals, e.g. "₹1,234.50".
// Negative values keep their sign in front of the symbol.
func (f *Formatter) Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	return sign + f.symbol + f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// Signed prefixes income with "+" and expenses with "-".
func (f *Formatter) Signed(d decimal.Decimal, income bool) string {
	if income {
		return "+" + f.Format(d)
	}

	return "-" + f.Format(d)
}
