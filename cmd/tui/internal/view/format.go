package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dbTimeout = 5 * time.Second

var (
	incomeColor  = lipgloss.Color("42")
	expenseColor = lipgloss.Color("203")
	mutedColor   = lipgloss.Color("240")
	accentColor  = lipgloss.Color("63")

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
