package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markusylisiurunen/wavetracker/internal/logger"
	"github.com/markusylisiurunen/wavetracker/toolkit/cell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookuper struct {
	queries []cell.Query
	record  cell.Record
	err     error
}

func (f *fakeLookuper) Lookup(_ context.Context, q cell.Query) (cell.Record, error) {
	f.queries = append(f.queries, q)
	return f.record, f.err
}

type fakeAsker struct {
	queries []string
	reply   string
	err     error
}

func (f *fakeAsker) Ask(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.reply, f.err
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func newModel(lookuper cell.Lookuper, asker Asker) Model {
	m := Initial(logger.NoOp(), lookuper, asker)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func TestModel_Lookup(t *testing.T) {
	lookuper := &fakeLookuper{record: cell.Record{
		CellID:         cell.Present("42"),
		Range:          cell.Present("200"),
		SignalStrength: cell.Present("-65"),
		Radio:          cell.Present("LTE"),
	}}
	m := newModel(lookuper, &fakeAsker{})
	m.fields[fieldMCC].SetValue("244")
	m.fields[fieldMNC].SetValue("91")
	m.fields[fieldLAC].SetValue("4711")
	m.fields[fieldCellID].SetValue(" 42 ")

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.networkBusy)
	assert.Contains(t, m.View(), "working...")

	// a second submit while one is outstanding is ignored
	m, again := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, again)

	m, _ = update(t, m, cmd())
	assert.False(t, m.networkBusy)
	require.Len(t, lookuper.queries, 1)
	assert.Equal(t, cell.Query{MCC: 244, MNC: 91, CellID: 42, LAC: 4711}, lookuper.queries[0])
	assert.Contains(t, m.networkOutput, "cellid: 42")
	assert.Contains(t, m.networkOutput, "Predicted Internet Speed for tower 42: 75.00 Mbps (estimate)")
}

func TestModel_LookupError(t *testing.T) {
	lookuper := &fakeLookuper{err: &cell.LookupError{Kind: cell.KindStatus, StatusCode: 503}}
	m := newModel(lookuper, &fakeAsker{})

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Error: Status code 503", m.networkOutput)
	assert.Contains(t, m.View(), "Error: Status code 503")
}

func TestModel_InvalidInput(t *testing.T) {
	lookuper := &fakeLookuper{}
	m := newModel(lookuper, &fakeAsker{})
	m.fields[fieldLAC].SetValue("-1")

	m, cmd := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, lookuper.queries)
	assert.Equal(t, "Error: Location Area Code (LAC) must be a non-negative integer", m.networkOutput)
}

func TestModel_FocusCycles(t *testing.T) {
	m := newModel(&fakeLookuper{}, &fakeAsker{})
	assert.Equal(t, fieldMCC, m.focus)
	assert.True(t, m.fields[fieldMCC].Focused())

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, fieldMNC, m.focus)
	assert.True(t, m.fields[fieldMNC].Focused())
	assert.False(t, m.fields[fieldMCC].Focused())

	m, _ = update(t, m, key(tea.KeyShiftTab))
	m, _ = update(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, fieldCellID, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	assert.Equal(t, "7", m.fields[fieldCellID].Value())
}

func TestModel_SwitchPanel(t *testing.T) {
	m := newModel(&fakeLookuper{}, &fakeAsker{})
	assert.Equal(t, panelNetwork, m.panel)

	m, _ = update(t, m, key(tea.KeyCtrlT))
	assert.Equal(t, panelBuddy, m.panel)
	assert.True(t, m.query.Focused())
	for _, f := range m.fields {
		assert.False(t, f.Focused())
	}
	assert.Contains(t, m.View(), "ctrl+l clear")

	m, _ = update(t, m, key(tea.KeyCtrlT))
	assert.Equal(t, panelNetwork, m.panel)
	assert.False(t, m.query.Focused())
}

func TestModel_AskAndClear(t *testing.T) {
	asker := &fakeAsker{reply: "Move closer to a window."}
	m := Initial(logger.NoOp(), &fakeLookuper{}, asker, WithPanel("buddy"))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m.query.SetValue("  why is my signal weak?  ")

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.buddyBusy)
	m, _ = update(t, m, cmd())
	assert.False(t, m.buddyBusy)
	assert.Equal(t, []string{"why is my signal weak?"}, asker.queries)
	assert.Equal(t, "Move closer to a window.", m.reply)
	assert.NoError(t, m.replyErr)

	m, _ = update(t, m, key(tea.KeyCtrlL))
	assert.Empty(t, m.query.Value())
	assert.Empty(t, m.reply)
	assert.Contains(t, m.View(), "Ask your WaveBuddy a question.")
}

func TestModel_AskError(t *testing.T) {
	asker := &fakeAsker{err: errors.New("auth error (401): Invalid API Key")}
	m := Initial(logger.NoOp(), &fakeLookuper{}, asker, WithPanel("wavebuddy"))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m.query.SetValue("hello")

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Error(t, m.replyErr)
	assert.Contains(t, m.View(), "Error: auth error (401): Invalid API Key")
}

func TestModel_EmptyQueryIgnored(t *testing.T) {
	asker := &fakeAsker{}
	m := Initial(logger.NoOp(), &fakeLookuper{}, asker, WithPanel("buddy"))
	m.query.SetValue("   ")
	_, cmd := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, asker.queries)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(&fakeLookuper{}, &fakeAsker{})
	_, cmd := update(t, m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_OneRequestPerPanel(t *testing.T) {
	lookuper := &fakeLookuper{}
	asker := &fakeAsker{reply: "ok"}
	m := newModel(lookuper, asker)

	m, lookup := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, lookup)
	m, again := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, again)

	// the other panel is not blocked by an outstanding lookup
	m, _ = update(t, m, key(tea.KeyCtrlT))
	m.query.SetValue("slow data")
	m, ask := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, ask)
	m, again = update(t, m, key(tea.KeyEnter))
	assert.Nil(t, again)

	m, _ = update(t, m, lookup())
	m, _ = update(t, m, ask())
	assert.Len(t, lookuper.queries, 1)
	assert.Equal(t, []string{"slow data"}, asker.queries)
	assert.False(t, m.networkBusy)
	assert.False(t, m.buddyBusy)
	assert.Equal(t, "ok", m.reply)
}

func TestModel_ClearDropsLateReply(t *testing.T) {
	asker := &fakeAsker{reply: "Move closer to a window."}
	m := Initial(logger.NoOp(), &fakeLookuper{}, asker, WithPanel("buddy"))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m.query.SetValue("why is my signal weak?")

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, key(tea.KeyCtrlL))
	assert.Empty(t, m.query.Value())

	m, _ = update(t, m, cmd())
	assert.False(t, m.buddyBusy)
	assert.Empty(t, m.reply)
	assert.NoError(t, m.replyErr)
	assert.Contains(t, m.View(), "Ask your WaveBuddy a question.")

	m.query.SetValue("and now?")
	m, cmd = update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Move closer to a window.", m.reply)
}
