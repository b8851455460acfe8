package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
)

const barRune = "█"

// RenderChart draws one income and one expense bar per month, scaled to the
// largest value in the series.
func RenderChart(series []summary.Month, f *money.Formatter, barWidth int) string {
	if len(series) == 0 {
		return helpStyle.Render("No transactions yet.")
	}

	peak := decimal.Zero
	for _, m := range series {
		peak = decimal.Max(peak, m.Income, m.Expenses)
	}

	income := lipgloss.NewStyle().Foreground(incomeColor)
	expense := lipgloss.NewStyle().Foreground(expenseColor)

	var sb strings.Builder

	for i, m := range series {
		if i > 0 {
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "%-8s %s %s\n", m.Label,
			income.Render(bar(m.Income, peak, barWidth)), f.Format(m.Income))
		fmt.Fprintf(&sb, "%-8s %s %s\n", "",
			expense.Render(bar(m.Expenses, peak, barWidth)), f.Format(m.Expenses))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func bar(v, peak decimal.Decimal, width int) string {
	return strings.Repeat(barRune, barLength(v, peak, width))
}

// barLength scales v against peak. Any non-zero value gets at least one cell.
func barLength(v, peak decimal.Decimal, width int) int {
	if width <= 0 || !peak.IsPositive() || !v.IsPositive() {
		return 0
	}

	n := int(v.Mul(decimal.NewFromInt(int64(width))).Div(peak).Round(0).IntPart())

	return min(max(n, 1), width)
}
