package importer

import (
	"strings"
)

type amountMode int

const (
	// amountSigned is one signed column, negative for expenses.
	amountSigned amountMode = iota
	// amountSplit is separate debit and credit columns.
	amountSplit
	// amountTyped is an unsigned column next to an income/expense column.
	amountTyped
)

// Profile describes the column layout of a supported CSV export.
// Header names are compared case-insensitively.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	DateLayouts []string
	AmountMode  amountMode
	AmountCol   string // amountSigned, amountTyped
	TypeCol     string // amountTyped
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var isoLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "02/01/2006"}

// profiles are tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:        "finviz",
		DateCol:     "date",
		DescCol:     "description",
		DateLayouts: isoLayouts,
		AmountMode:  amountTyped,
		AmountCol:   "amount",
		TypeCol:     "type",
	},
	{
		Name:        "split",
		DateCol:     "date",
		DescCol:     "description",
		DateLayouts: isoLayouts,
		AmountMode:  amountSplit,
		DebitCol:    "debit",
		CreditCol:   "credit",
	},
	{
		Name:        "signed",
		DateCol:     "date",
		DescCol:     "description",
		DateLayouts: isoLayouts,
		AmountMode:  amountSigned,
		AmountCol:   "amount",
	},
	{
		Name:        "cgd-cartao",
		DateCol:     "data",
		DescCol:     "descrição",
		DateLayouts: []string{"02-01-2006"},
		AmountMode:  amountSplit,
		DebitCol:    "débito",
		CreditCol:   "crédito",
	},
	{
		Name:        "cgd-extrato",
		DateCol:     "data mov.",
		DescCol:     "descrição",
		DateLayouts: []string{"02-01-2006"},
		AmountMode:  amountSigned,
		AmountCol:   "movimento",
	},
	{
		Name:        "cgd-conta",
		DateCol:     "data mov.",
		DescCol:     "descrição",
		DateLayouts: []string{"02-01-2006"},
		AmountMode:  amountSigned,
		AmountCol:   "montante",
	},
}

// colIndex maps normalized header names to their position in the row.
type colIndex map[string]int

func headerIndex(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}

		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	return cols
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (p Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}
