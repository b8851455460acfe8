package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finviz/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finviz/internal/app"
	"github.com/MrJamesThe3rd/finviz/internal/config"
	"github.com/MrJamesThe3rd/finviz/internal/logging"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

type model struct {
	app     *app.App
	changes <-chan transaction.Change

	currentView View

	dashboardView view.DashboardModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewImport    View = 2
	ViewExport    View = 3
)

func initialModel(a *app.App, changes <-chan transaction.Change) model {
	return model{
		app:           a,
		changes:       changes,
		currentView:   ViewDashboard,
		dashboardView: view.NewDashboardModel(a.Transactions, a.Summary, a.Money),
		importView:    view.NewImportModel(a.Import),
		exportView:    view.NewExportModel(a.Export),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.dashboardView.Init(), view.WaitForChange(m.changes))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Transactions, m.app.Summary, m.app.Money)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Import)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.ChangeMsg:
		// The one subscription reader lives here; screens only see the message.
		if !msg.OK {
			m.changes = nil
			return m, nil
		}

		next := view.WaitForChange(m.changes)
		if m.currentView != ViewDashboard {
			return m, next
		}

		newModel, cmd := m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)

		return m, tea.Batch(next, cmd)
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Dashboard\n" +
				"2. Import CSV\n" +
				"3. Export\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file only when debugging.
	var logOut io.Writer = io.Discard

	if cfg.Log.Level == "debug" {
		f, err := tea.LogToFile("finviz-tui.log", "")
		if err != nil {
			return err
		}
		defer f.Close()

		logOut = f
	}

	logger := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("starting %s: %w", cfg.App.Name, err)
	}
	defer a.Close(context.Background())

	var changes <-chan transaction.Change

	if a.Events != nil {
		changes, err = a.Events.Subscribe(ctx)
		if err != nil {
			return err
		}
	}

	_, err = tea.NewProgram(initialModel(a, changes), tea.WithAltScreen()).Run()

	return err
}

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
