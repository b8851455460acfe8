package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount accepts both "1.234,56" and "1,234.56": whichever separator
// appears last is the decimal point, the other one groups thousands.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		}

		return -1
	}, s)

	if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(strings.TrimPrefix(clean, "+"))
}
