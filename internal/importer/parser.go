package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// ErrUnrecognized is returned when no row of the file looks like the header
// of a supported export.
var ErrUnrecognized = errors.New("unrecognized csv format")

// Row is one data line of an import, still in raw payload form.
type Row struct {
	Line    int
	Payload transaction.Payload
}

// LineError ties a failure to the 1-based line of the source file.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type record struct {
	line   int
	fields []string
}

// Parse decodes r into rows using the first profile whose columns appear in
// a header line. Both ';' and ',' separated files are accepted. Lines before
// the header and lines without a date (totals, footers) are skipped.
func Parse(r io.Reader) (*Profile, []Row, error) {
	br, err := utf8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(br)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	var readErr error

	for _, comma := range []rune{';', ','} {
		records, err := readRecords(content, comma)
		if err != nil {
			readErr = err
			continue
		}

		profile, cols, header := detectProfile(records)
		if profile == nil {
			continue
		}

		rows, err := parseRows(profile, cols, records[header+1:])
		if err != nil {
			return nil, nil, err
		}

		return profile, rows, nil
	}

	if readErr != nil {
		return nil, nil, readErr
	}

	return nil, nil, ErrUnrecognized
}

func readRecords(content []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

func detectProfile(records []record) (*Profile, colIndex, int) {
	for i, rec := range records {
		cols := headerIndex(rec.fields)

		for p := range profiles {
			if profiles[p].matches(cols) {
				return &profiles[p], cols, i
			}
		}
	}

	return nil, nil, 0
}

func parseRows(p *Profile, cols colIndex, records []record) ([]Row, error) {
	rows := make([]Row, 0, len(records))

	for _, rec := range records {
		date, ok := parseDate(p, cellValue(rec.fields, cols[p.DateCol]))
		if !ok {
			continue
		}

		amount, txType, err := p.amount(cols, rec.fields)
		if err != nil {
			return nil, &LineError{Line: rec.line, Err: err}
		}

		rows = append(rows, Row{
			Line: rec.line,
			Payload: transaction.Payload{
				Amount:      amount.String(),
				Date:        date.Format(time.DateOnly),
				Description: cellValue(rec.fields, cols[p.DescCol]),
				Type:        string(txType),
			},
		})
	}

	return rows, nil
}

func parseDate(p *Profile, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

var errAmount = &transaction.ValidationError{Field: "amount", Message: "Amount must be a number"}

func (p *Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, error) {
	switch p.AmountMode {
	case amountSigned:
		d, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return decimal.Zero, "", errAmount
		}

		if d.IsNegative() {
			return d.Neg(), transaction.TypeExpense, nil
		}

		return d, transaction.TypeIncome, nil
	case amountTyped:
		d, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return decimal.Zero, "", errAmount
		}

		return d.Abs(), transaction.Type(strings.ToLower(cellValue(row, cols[p.TypeCol]))), nil
	case amountSplit:
		if s := cellValue(row, cols[p.DebitCol]); s != "" {
			if d, err := parseAmount(s); err == nil && !d.IsZero() {
				return d.Abs(), transaction.TypeExpense, nil
			}
		}

		if s := cellValue(row, cols[p.CreditCol]); s != "" {
			if d, err := parseAmount(s); err == nil && !d.IsZero() {
				return d.Abs(), transaction.TypeIncome, nil
			}
		}

		return decimal.Zero, "", errAmount
	}

	return decimal.Zero, "", fmt.Errorf("unknown amount mode %d", p.AmountMode)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
