package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

func TestModel_ChangeReaderOutsideDashboard(t *testing.T) {
	ch := make(chan transaction.Change, 1)
	m := model{changes: ch, currentView: ViewMenu}

	ch <- transaction.Change{Kind: transaction.ChangeCreated}
	next, cmd := m.Update(view.WaitForChange(m.changes)())
	m = next.(model)
	require.NotNil(t, cmd)

	ch <- transaction.Change{Kind: transaction.ChangeDeleted}
	got, ok := cmd().(view.ChangeMsg)
	require.True(t, ok)
	assert.True(t, got.OK)
	assert.Equal(t, transaction.ChangeDeleted, got.Change.Kind)

	close(ch)
	next, cmd = m.Update(view.WaitForChange(m.changes)())
	m = next.(model)
	assert.Nil(t, cmd)
	assert.Nil(t, m.changes)
}

func TestModel_ChangeOnDashboardRearmsAndReloads(t *testing.T) {
	ch := make(chan transaction.Change, 1)
	m := model{changes: ch, currentView: ViewDashboard}

	_, cmd := m.Update(view.ChangeMsg{Change: transaction.Change{Kind: transaction.ChangeUpdated}, OK: true})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	assert.Len(t, batch, 2)
}

func TestModel_NoSubscription(t *testing.T) {
	m := model{currentView: ViewMenu}

	_, cmd := m.Update(view.ChangeMsg{OK: true})
	assert.Nil(t, cmd)
}
