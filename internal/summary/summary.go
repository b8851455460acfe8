// Package summary derives totals and the monthly chart series from a snapshot
// of transactions. Everything here is pure: no I/O and no mutation of input.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// SeriesLength is how many populated months MonthlySeries keeps.
const SeriesLength = 6

// Totals aggregates income and expenses over a set of transactions.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

type Summary struct {
	CurrentMonth Totals
	Overall      Totals
}

// Month is one bar of the monthly chart.
type Month struct {
	Label    string // e.g. "Jan 2024"
	Year     int
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

func (t *Totals) add(tx *transaction.Transaction) {
	switch tx.Type {
	case transaction.TypeIncome:
		t.Income = t.Income.Add(tx.Amount)
	case transaction.TypeExpense:
		t.Expenses = t.Expenses.Add(tx.Amount)
	}

	t.Balance = t.Income.Sub(t.Expenses)
}

// Summarize computes current-month and all-time totals. The current month is
// the calendar month and year of now in now's location; transaction dates are
// calendar dates and are compared as stored.
func Summarize(txs []*transaction.Transaction, now time.Time) Summary {
	var s Summary

	year, month, _ := now.Date()

	for _, tx := range txs {
		s.Overall.add(tx)

		y, m, _ := tx.Date.Date()
		if y == year && m == month {
			s.CurrentMonth.add(tx)
		}
	}

	return s
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySeries groups transactions by calendar month of their date and
// returns the most recent SeriesLength populated months, oldest first.
// Months without transactions are absent rather than zero.
func MonthlySeries(txs []*transaction.Transaction) []Month {
	groups := make(map[monthKey]*Totals)

	for _, tx := range txs {
		y, m, _ := tx.Date.Date()
		k := monthKey{year: y, month: m}

		t, ok := groups[k]
		if !ok {
			t = &Totals{}
			groups[k] = t
		}

		t.add(tx)
	}

	keys := make([]monthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}

		return keys[i].month < keys[j].month
	})

	if len(keys) > SeriesLength {
		keys = keys[len(keys)-SeriesLength:]
	}

	series := make([]Month, 0, len(keys))

	for _, k := range keys {
		t := groups[k]
		series = append(series, Month{
			Label:    time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Year:     k.year,
			Month:    k.month,
			Income:   t.Income,
			Expenses: t.Expenses,
			Net:      t.Balance,
		})
	}

	return series
}
