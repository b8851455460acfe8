package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// View is implemented by every screen reachable from the menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// ChangeMsg carries one event from the change subscription. OK is false once
// the subscription has closed.
type ChangeMsg struct {
	Change transaction.Change
	OK     bool
}

// WaitForChange reads the next event from ch. Keep a single one in flight per
// channel and re-arm it after each ChangeMsg. A nil ch yields no command.
func WaitForChange(ch <-chan transaction.Change) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		c, ok := <-ch
		return ChangeMsg{Change: c, OK: ok}
	}
}
