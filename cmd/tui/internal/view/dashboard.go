package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

const chartWidth = 30

type dashState int

const (
	dashStateBrowse dashState = iota
	dashStateForm
	dashStateConfirmDelete
)

type DashboardModel struct {
	CommonModel
	txService *transaction.Service
	summary   *summary.Service
	money     *money.Formatter

	state dashState
	table table.Model
	data  summary.Dashboard

	form    *huh.Form
	values  *txFormValues
	editing uuid.UUID
	confirm *bool
	target  *transaction.Transaction

	loading bool
	err     error
	status  string
}

// NewDashboardModel builds the main screen. It re-fetches on every ChangeMsg
// it is handed.
func NewDashboardModel(txSvc *transaction.Service, sumSvc *summary.Service, formatter *money.Formatter) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 16},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		txService: txSvc,
		summary:   sumSvc,
		money:     formatter,
		table:     t,
		loading:   true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashStateForm:
		return "Tab: next field | Enter: save | Esc: cancel"
	case dashStateConfirmDelete:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "a: add | e: edit | d: delete | r: refresh | Esc: back"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.data = msg.data
			m.refreshTable()
		}

		return m, nil

	case dashboardSavedMsg:
		m.closeOverlay()

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.done)

		return m, m.loadCmd()

	case ChangeMsg:
		if !msg.OK {
			return m, nil
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-30, 5))

		return m, nil
	}

	switch m.state {
	case dashStateForm, dashStateConfirmDelete:
		return m.updateOverlay(msg)
	}

	return m.updateBrowse(msg)
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.openForm(uuid.Nil, newTxFormValues(time.Now()))
		case "e":
			if tx := m.selected(); tx != nil {
				return m.openForm(tx.ID, txFormValuesFrom(tx))
			}

			return m, nil
		case "d":
			return m.openDeleteConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) openForm(id uuid.UUID, values *txFormValues) (tea.Model, tea.Cmd) {
	m.editing = id
	m.values = values
	m.form = newTxForm(values)
	m.state = dashStateForm
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) openDeleteConfirm() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.target = tx
	m.confirm = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q?", tx.Description)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)
	m.state = dashStateConfirmDelete
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeOverlay()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
	case huh.StateAborted:
		m.closeOverlay()
		return m, nil
	default:
		return m, cmd
	}

	if m.state == dashStateConfirmDelete {
		if !*m.confirm {
			m.closeOverlay()
			return m, nil
		}

		return m, m.deleteCmd(m.target.ID)
	}

	return m, m.saveCmd(m.editing, m.values.payload())
}

func (m *DashboardModel) closeOverlay() {
	m.state = dashStateBrowse
	m.form = nil
	m.values = nil
	m.confirm = nil
	m.target = nil
	m.table.Focus()
}

func (m DashboardModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.data.Transactions) {
		return nil
	}

	return m.data.Transactions[idx]
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.data.Transactions))
	for _, tx := range m.data.Transactions {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			m.money.Signed(tx.Amount, tx.Type == transaction.TypeIncome),
			tx.Description,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(r to retry, Esc to go back)",
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderCards(m.data.Summary, m.money),
		"",
		lipgloss.NewStyle().Bold(true).Render("Last 6 months"),
		RenderChart(m.data.Monthly, m.money, chartWidth),
		"",
		tableView,
	)

	if m.form != nil {
		title := "New Transaction"

		switch {
		case m.state == dashStateConfirmDelete:
			title = "Delete Transaction"
		case m.editing != uuid.Nil:
			title = "Edit Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Width(49).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + helpStyle.Render(m.ShortHelp()))
}

func renderCards(sum summary.Summary, f *money.Formatter) string {
	card := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor)

	render := func(title string, value string, color lipgloss.Color) string {
		return card.Render(helpStyle.Render(title) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(color).Render(value))
	}

	balanceColor := incomeColor
	if sum.Overall.Balance.IsNegative() {
		balanceColor = expenseColor
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		render("Income this month", f.Format(sum.CurrentMonth.Income), incomeColor),
		render("Expenses this month", f.Format(sum.CurrentMonth.Expenses), expenseColor),
		render("Balance", f.Format(sum.Overall.Balance), balanceColor),
	)
}

// Messages

type dashboardLoadedMsg struct {
	data summary.Dashboard
	err  error
}

type dashboardSavedMsg struct {
	done string
	err  error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		data, err := m.summary.Dashboard(ctx)

		return dashboardLoadedMsg{data: data, err: err}
	}
}

func (m DashboardModel) saveCmd(id uuid.UUID, p transaction.Payload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if id == uuid.Nil {
			_, err := m.txService.Create(ctx, p)
			return dashboardSavedMsg{done: "Transaction added.", err: err}
		}

		_, err := m.txService.Update(ctx, id, p)

		return dashboardSavedMsg{done: "Transaction updated.", err: err}
	}
}

func (m DashboardModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.txService.Delete(ctx, id)

		return dashboardSavedMsg{done: "Transaction deleted.", err: err}
	}
}
