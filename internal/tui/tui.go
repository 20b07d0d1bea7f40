package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/fatih/color"
	"github.com/markusylisiurunen/wavetracker/internal/logger"
	"github.com/markusylisiurunen/wavetracker/toolkit/cell"
	"github.com/muesli/reflow/wordwrap"
)

type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

type panel int

const (
	panelNetwork panel = iota
	panelBuddy
)

func (p panel) title() string {
	switch p {
	case panelNetwork:
		return "Network Info"
	case panelBuddy:
		return "WaveBuddy"
	default:
		return ""
	}
}

const (
	fieldMCC = iota
	fieldMNC
	fieldLAC
	fieldCellID
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldMCC:    "Mobile Country Code (MCC)",
	fieldMNC:    "Mobile Network Code (MNC)",
	fieldLAC:    "Location Area Code (LAC)",
	fieldCellID: "Cell ID",
}

type lookupMsg struct {
	output string
}

type askMsg struct {
	seq   int
	reply string
	err   error
}

func lookupCmd(lookuper cell.Lookuper, q cell.Query) tea.Cmd {
	return func() tea.Msg {
		record, err := lookuper.Lookup(context.Background(), q)
		if err != nil {
			return lookupMsg{output: cell.FormatError(err)}
		}
		return lookupMsg{output: cell.Format(record)}
	}
}

func askCmd(asker Asker, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		reply, err := asker.Ask(context.Background(), query)
		return askMsg{seq: seq, reply: reply, err: err}
	}
}

type Model struct {
	logger   logger.Logger
	lookuper cell.Lookuper
	asker    Asker

	width  int
	height int
	panel  panel

	fields        [fieldCount]textinput.Model
	focus         int
	networkBusy   bool
	networkOutput string

	query     textinput.Model
	buddyBusy bool
	askSeq    int
	reply     string
	replyErr  error

	viewport viewport.Model
}

type modelOption func(*Model)

func WithPanel(name string) modelOption {
	return func(m *Model) {
		switch strings.ToLower(name) {
		case "network":
			m.panel = panelNetwork
		case "buddy", "wavebuddy":
			m.panel = panelBuddy
		}
	}
}

func Initial(logger logger.Logger, lookuper cell.Lookuper, asker Asker, opts ...modelOption) Model {
	m := Model{
		logger:   logger,
		lookuper: lookuper,
		asker:    asker,
		panel:    panelNetwork,
	}
	// init the tower inputs
	for i := range m.fields {
		ti := textinput.New()
		ti.Prompt = fieldLabels[i] + ": "
		ti.Placeholder = "0"
		ti.CharLimit = 20
		m.fields[i] = ti
	}
	// init the query input
	q := textinput.New()
	q.Prompt = "❯ "
	q.Placeholder = "Enter your query here"
	q.CharLimit = 1024
	m.query = q
	// init the viewport
	vp := viewport.New(0, 0)
	vp.KeyMap.Up.SetEnabled(false)
	vp.KeyMap.Down.SetEnabled(false)
	vp.KeyMap.HalfPageUp.SetEnabled(false)
	vp.KeyMap.HalfPageDown.SetEnabled(false)
	vp.KeyMap.PageUp.SetKeys("pgup")
	vp.KeyMap.PageDown.SetKeys("pgdown")
	m.viewport = vp
	for _, opt := range opts {
		opt(&m)
	}
	m.applyFocus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupMsg:
		m.networkBusy = false
		m.networkOutput = msg.output
		m.refresh()
		return m, nil
	case askMsg:
		m.buddyBusy = false
		// a reply to a question asked before the last clear is dropped
		if msg.seq != m.askSeq {
			return m, nil
		}
		m.reply, m.replyErr = msg.reply, msg.err
		if msg.err != nil {
			m.logger.Error("chat relay failed: %v", msg.err)
		}
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlT:
			if m.panel == panelNetwork {
				m.panel = panelBuddy
			} else {
				m.panel = panelNetwork
			}
			m.applyFocus()
			m.layout()
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyCtrlL:
			if m.panel == panelBuddy {
				m.clearBuddy()
			}
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			if m.panel == panelNetwork {
				m.focus = (m.focus + 1) % fieldCount
				m.applyFocus()
				return m, nil
			}
		case tea.KeyShiftTab, tea.KeyUp:
			if m.panel == panelNetwork {
				m.focus = (m.focus + fieldCount - 1) % fieldCount
				m.applyFocus()
				return m, nil
			}
		}
	}
	var cmd1, cmd2 tea.Cmd
	m.viewport, cmd1 = m.viewport.Update(msg)
	if m.panel == panelNetwork {
		m.fields[m.focus], cmd2 = m.fields[m.focus].Update(msg)
	} else {
		m.query, cmd2 = m.query.Update(msg)
	}
	return m, tea.Batch(cmd1, cmd2)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.panel {
	case panelNetwork:
		if m.networkBusy {
			return m, nil
		}
		q, err := m.parseQuery()
		if err != nil {
			m.networkOutput = "Error: " + err.Error()
			m.refresh()
			return m, nil
		}
		m.networkBusy = true
		m.logger.Debug("submitting lookup %+v", q)
		return m, lookupCmd(m.lookuper, q)
	case panelBuddy:
		query := strings.TrimSpace(m.query.Value())
		if m.buddyBusy || query == "" {
			return m, nil
		}
		m.buddyBusy = true
		m.askSeq++
		m.logger.Debug("submitting query (%d chars)", len(query))
		return m, askCmd(m.asker, m.askSeq, query)
	}
	return m, nil
}

func (m Model) parseQuery() (cell.Query, error) {
	var values [fieldCount]uint64
	for i, f := range m.fields {
		raw := strings.TrimSpace(f.Value())
		if raw == "" {
			raw = "0"
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return cell.Query{}, fmt.Errorf("%s must be a non-negative integer", fieldLabels[i])
		}
		values[i] = v
	}
	return cell.Query{
		MCC:    values[fieldMCC],
		MNC:    values[fieldMNC],
		CellID: values[fieldCellID],
		LAC:    values[fieldLAC],
	}, nil
}

func (m *Model) clearBuddy() {
	m.query.Reset()
	m.askSeq++
	m.reply = ""
	m.replyErr = nil
	m.refresh()
}

func (m *Model) applyFocus() {
	for i := range m.fields {
		if m.panel == panelNetwork && i == m.focus {
			m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	if m.panel == panelBuddy {
		m.query.Focus()
	} else {
		m.query.Blur()
	}
}

func (m *Model) layout() {
	// header (2) + blank + inputs + blank + viewport + blank + footer
	inputs := 1
	if m.panel == panelNetwork {
		inputs = fieldCount
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-inputs-6, 0)
	for i := range m.fields {
		m.fields[i].Width = max(m.width-len(m.fields[i].Prompt)-1, 0)
	}
	m.query.Width = max(m.width-3, 0)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

func (m Model) View() string {
	var s string
	s += m.renderTabs()
	s += "\n\n"
	if m.panel == panelNetwork {
		for i, f := range m.fields {
			if i > 0 {
				s += "\n"
			}
			s += f.View()
		}
	} else {
		s += m.query.View()
	}
	s += "\n\n" + m.viewport.View()
	s += "\n\n" + color.New(color.Faint).Sprint(m.renderFooter())
	return s
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, p := range []panel{panelNetwork, panelBuddy} {
		if p == m.panel {
			tabs = append(tabs, color.New(color.Bold, color.Underline).Sprint(p.title()))
		} else {
			tabs = append(tabs, color.New(color.Faint).Sprint(p.title()))
		}
	}
	return color.New(color.FgCyan, color.Bold).Sprint("WaveTracker") + " - Network Troubleshooting\n" + strings.Join(tabs, "   ")
}

func (m Model) renderContent() string {
	switch m.panel {
	case panelNetwork:
		if m.networkOutput == "" {
			return color.New(color.Faint).Sprint("Enter the tower identifiers and press enter to fetch tower data and predict speed.")
		}
		return m.wrap(m.networkOutput)
	case panelBuddy:
		if m.replyErr != nil {
			return color.New(color.FgRed).Sprint(m.wrap("Error: " + m.replyErr.Error()))
		}
		if m.reply == "" {
			return color.New(color.Faint).Sprint("Ask your WaveBuddy a question.")
		}
		return m.renderMarkdown(m.reply)
	}
	return ""
}

func (m Model) wrap(s string) string {
	if m.viewport.Width <= 0 {
		return s
	}
	return wordwrap.String(s, m.viewport.Width)
}

func (m Model) renderMarkdown(content string) string {
	var margin uint = 0
	dark := styles.DarkStyleConfig
	dark.Document.Color = nil
	dark.Document.Margin = &margin
	dark.H1 = dark.H2
	dark.H1.Prefix = "# "
	dark.Code.Prefix = ""
	dark.Code.Suffix = ""
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(dark),
		glamour.WithWordWrap(m.viewport.Width),
	)
	if err != nil {
		m.logger.Error("error creating markdown renderer: %v", err)
		return m.wrap(content)
	}
	markdown, err := renderer.Render(strings.TrimSpace(content))
	if err != nil {
		m.logger.Error("error rendering markdown: %v", err)
		return m.wrap(content)
	}
	return strings.TrimSpace(markdown)
}

func (m Model) renderFooter() string {
	busy := m.networkBusy
	if m.panel == panelBuddy {
		busy = m.buddyBusy
	}
	if busy {
		return "working..."
	}
	keys := []string{"ctrl+t switch panel", "enter submit"}
	if m.panel == panelNetwork {
		keys = append(keys, "tab next field")
	} else {
		keys = append(keys, "ctrl+l clear")
	}
	keys = append(keys, "pgup/pgdown scroll", "ctrl+c quit")
	return strings.Join(keys, ", ") + "."
}
