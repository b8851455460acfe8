package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payload is the raw, unvalidated shape submitted by a client for create and update.
type Payload struct {
	Amount      string
	Date        string
	Description string
	Type        string
}

// Fields is a validated payload ready to be handed to a Repository.
type Fields struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Type        Type
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04",
}

// Validate checks p and converts it into Fields.
func (p Payload) Validate() (Fields, error) {
	if p.Amount == "" || p.Date == "" || p.Description == "" || p.Type == "" {
		return Fields{}, &ValidationError{Message: "All fields are required"}
	}

	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return Fields{}, err
	}

	date, err := ParseDate(p.Date)
	if err != nil {
		return Fields{}, err
	}

	if strings.TrimSpace(p.Description) == "" {
		return Fields{}, invalid("description", "Description is required")
	}

	typ := Type(p.Type)
	if !typ.Valid() {
		return Fields{}, invalid("type", "Type must be income or expense")
	}

	return Fields{
		Amount:      amount,
		Date:        date,
		Description: p.Description,
		Type:        typ,
	}, nil
}

// ParseAmount reads the leading decimal number of s, ignoring any trailing text,
// and requires it to be greater than zero. "12.5abc" yields 12.5.
func ParseAmount(s string) (decimal.Decimal, error) {
	prefix := numericPrefix(strings.TrimSpace(s))
	if prefix == "" {
		return decimal.Zero, invalid("amount", "Amount must be a number")
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(prefix, "+"))
	if err != nil {
		return decimal.Zero, invalid("amount", "Amount must be a number")
	}

	if !d.IsPositive() {
		return decimal.Zero, invalid("amount", "Amount must be greater than 0")
	}

	return d, nil
}

// numericPrefix returns the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits].
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0

		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}

		if frac > 0 {
			i = j
			digits += frac
		}
	}

	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		exp := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			exp++
		}

		if exp > 0 {
			i = j
		}
	}

	return s[:i]
}

// ParseDate accepts a calendar date or a timestamp and truncates it to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, invalid("date", "Date must be YYYY-MM-DD")
}
