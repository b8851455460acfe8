package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// Header is the column layout of exported files. The importer recognizes it,
// so an export can be loaded back.
var Header = []string{"date", "description", "amount", "type", "id", "created_at", "updated_at"}

type Lister interface {
	List(ctx context.Context) ([]*transaction.Transaction, error)
}

// Service writes the transaction list as CSV and as a plain-text report.
type Service struct {
	transactions Lister
	money        *money.Formatter
	now          func() time.Time
}

func NewService(txs Lister, formatter *money.Formatter) *Service {
	return &Service{
		transactions: txs,
		money:        formatter,
		now:          time.Now,
	}
}

// Filename returns the default base name for an export taken at t.
func Filename(t time.Time, ext string) string {
	return fmt.Sprintf("finviz-%s.%s", t.Format("2006-01-02"), ext)
}

// WriteCSV writes every transaction, newest first, and returns how many rows
// were written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(time.DateOnly),
			tx.Description,
			tx.Amount.StringFixed(2),
			string(tx.Type),
			tx.ID.String(),
			tx.CreatedAt.UTC().Format(time.RFC3339),
			tx.UpdatedAt.UTC().Format(time.RFC3339),
		}

		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}

// Report writes the current month and overall totals, the monthly series and
// one line per transaction.
func (s *Service) Report(ctx context.Context, w io.Writer) error {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	_, err = io.WriteString(w, s.report(txs, s.now()))

	return err
}

func (s *Service) report(txs []*transaction.Transaction, now time.Time) string {
	var sb strings.Builder

	sum := summary.Summarize(txs, now)

	fmt.Fprintf(&sb, "%s\n", now.Format("January 2006"))
	s.writeTotals(&sb, sum.CurrentMonth)
	sb.WriteString("\nOverall\n")
	s.writeTotals(&sb, sum.Overall)

	if series := summary.MonthlySeries(txs); len(series) > 0 {
		sb.WriteString("\nMonthly\n")

		for _, m := range series {
			fmt.Fprintf(&sb, "%-8s | in %s | out %s | net %s\n",
				m.Label, s.money.Format(m.Income), s.money.Format(m.Expenses), s.money.Format(m.Net))
		}
	}

	if len(txs) > 0 {
		sb.WriteString("\nTransactions\n")
	}

	for _, tx := range txs {
		fmt.Fprintf(&sb, "* %s | %s | %s\n",
			tx.Date.Format(time.DateOnly), tx.Description, s.money.Signed(tx.Amount, tx.Type == transaction.TypeIncome))
	}

	return sb.String()
}

func (s *Service) writeTotals(sb *strings.Builder, t summary.Totals) {
	fmt.Fprintf(sb, "  Income:   %s\n", s.money.Format(t.Income))
	fmt.Fprintf(sb, "  Expenses: %s\n", s.money.Format(t.Expenses))
	fmt.Fprintf(sb, "  Balance:  %s\n", s.money.Format(t.Balance))
}

// ToDir writes the CSV and the report into dir, creating it if needed, and
// returns the paths written.
func (s *Service) ToDir(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	now := s.now()
	csvPath := filepath.Join(dir, Filename(now, "csv"))
	reportPath := filepath.Join(dir, Filename(now, "txt"))

	if err := writeFile(csvPath, func(w io.Writer) error {
		_, err := s.WriteCSV(ctx, w)
		return err
	}); err != nil {
		return nil, err
	}

	if err := writeFile(reportPath, func(w io.Writer) error {
		return s.Report(ctx, w)
	}); err != nil {
		return nil, err
	}

	return []string{csvPath, reportPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	return f.Close()
}
