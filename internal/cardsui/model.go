// Package cardsui provides the Bubble Tea card browser.
package cardsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kazin-kharizma/chat-analytics/internal/browser"
	"github.com/kazin-kharizma/chat-analytics/internal/cards"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/logger"
	"github.com/kazin-kharizma/chat-analytics/internal/render"
	"github.com/kazin-kharizma/chat-analytics/internal/report"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source loads aggregate blocks of a stored report.
type Source interface {
	LoadBlock(ctx context.Context, reportID, name string) (any, error)
}

type blockLoadedMsg struct {
	name  string
	value any
	err   error
}

// Model implements the Bubble Tea card browser.
type Model struct {
	source   Source
	reportID string
	title    string
	env      cards.Env
	color    bool

	blocks    *report.Blocks
	blockErrs map[string]error

	active   int
	options  []cards.Options
	cards    []cards.Card
	browsers []*browser.Browser
	filters  []string

	table    table.Model
	cloud    viewport.Model
	filter   textinput.Model
	keys     keyMap
	help     help.Model
	errMsg   string
	width    int
	height   int
	filterOn bool
}

// NewModel constructs a card browser over one stored report.
func NewModel(src Source, reportID, title string, env cards.Env, color bool) *Model {
	m := &Model{
		source:    src,
		reportID:  reportID,
		title:     title,
		env:       env,
		color:     color,
		blocks:    report.NewBlocks(),
		blockErrs: map[string]error{},
		options:   make([]cards.Options, len(cards.Definitions)),
		cards:     make([]cards.Card, len(cards.Definitions)),
		browsers:  make([]*browser.Browser, len(cards.Definitions)),
		filters:   make([]string, len(cards.Definitions)),
		table:     table.New(table.WithFocused(true), table.WithStyles(cardTableStyles(0, false))),
		cloud:     viewport.New(0, 0),
		filter:    newFilterInput(),
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	for i := range cards.Definitions {
		m.rebuild(i)
	}
	m.syncView()
	return m
}

func newFilterInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Filter: "
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model. Every block is requested once, concurrently.
func (m *Model) Init() tea.Cmd {
	seen := map[string]bool{}
	var cmds []tea.Cmd
	for _, def := range cards.Definitions {
		if seen[def.Block] {
			continue
		}
		seen[def.Block] = true
		cmds = append(cmds, m.loadBlock(def.Block))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadBlock(name string) tea.Cmd {
	src, id := m.source, m.reportID
	return func() tea.Msg {
		if src == nil {
			return blockLoadedMsg{name: name}
		}
		value, err := src.LoadBlock(context.Background(), id, name)
		return blockLoadedMsg{name: name, value: value, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.syncView()
		return m, nil
	case blockLoadedMsg:
		m.deliver(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterOn {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.moveCard(-1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.Next):
			m.moveCard(1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.Filter):
			return m.startFilter()
		case key.Matches(msg, m.keys.Clear):
			m.setFilter("")
			return m, nil
		case key.Matches(msg, m.keys.Option0):
			m.cycle(0)
			return m, nil
		case key.Matches(msg, m.keys.Option1):
			m.cycle(1)
			return m, nil
		}
		var cmd tea.Cmd
		if m.current().Display == cards.DisplayCloud {
			m.cloud, cmd = m.cloud.Update(msg)
		} else {
			m.table, cmd = m.table.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// deliver publishes a loaded block and rebuilds the cards that read it.
func (m *Model) deliver(msg blockLoadedMsg) {
	if msg.err != nil {
		logger.Warn("loading %s: %v", msg.name, msg.err)
		m.blockErrs[msg.name] = msg.err
		m.errMsg = fmt.Sprintf("Failed to load %s: %v", msg.name, msg.err)
	}
	if !m.blocks.Set(msg.name, msg.value) {
		return
	}
	for i, def := range cards.Definitions {
		if def.Block == msg.name {
			m.rebuild(i)
		}
	}
	m.syncView()
}

// rebuild reruns the card selector. The typed filter lives in m.filters,
// so it survives variants that have no search.
func (m *Model) rebuild(i int) {
	def := cards.Definitions[i]
	card := def.Build(m.blocks, m.options[i], m.env)
	b := card.Browser()
	b.SetFilter(m.filters[i])
	m.cards[i] = card
	m.browsers[i] = b
}

func (m *Model) current() cards.Card {
	return m.cards[m.active]
}

func (m *Model) moveCard(delta int) {
	count := len(cards.Definitions)
	if count == 0 {
		return
	}
	m.active = (m.active + delta + count) % count
	m.filter.SetValue(m.filters[m.active])
	m.syncView()
}

func (m *Model) cycle(pos int) {
	def := cards.Definitions[m.active]
	if pos >= len(def.Axes) {
		return
	}
	m.options[m.active] = def.Cycle(m.options[m.active], pos)
	m.rebuild(m.active)
	m.syncView()
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	b := m.browsers[m.active]
	if !b.Searchable() {
		return m, nil
	}
	m.filterOn = true
	m.filter.Placeholder = b.Placeholder()
	m.filter.SetValue(m.filters[m.active])
	m.filter.CursorEnd()
	return m, m.filter.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.filterOn = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.filterOn = false
		m.filter.Blur()
		m.setFilter("")
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.setFilter(m.filter.Value())
	return m, cmd
}

func (m *Model) setFilter(value string) {
	m.filter.SetValue(value)
	m.filters[m.active] = value
	m.browsers[m.active].SetFilter(value)
	m.syncView()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 2
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.cloud.Width = m.width
	m.cloud.Height = bodyHeight
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, bodyHeight-1))
	m.filter.Width = max(10, m.width-lipgloss.Width(m.filter.Prompt)-2)
	m.help.Width = m.width
}

// syncView pushes the active card's ranked view into the table or cloud.
func (m *Model) syncView() {
	card := m.current()
	res := m.browsers[m.active].Result()
	cat := m.env.Catalog
	if card.Display == cards.DisplayCloud {
		lines := render.Cloud(res.Entries, cat, card.Kind, card.ColorHue, render.Options{Width: m.width, Color: m.color})
		m.cloud.SetContent(strings.Join(lines, "\n"))
		m.cloud.GotoTop()
		return
	}
	columns, rows := buildTableData(card, res, cat, m.width)
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.SetStyles(cardTableStyles(card.ColorHue, m.color))
	m.table.GotoTop()
}

func buildTableData(card cards.Card, res browser.Result, cat *catalog.Catalog, width int) ([]table.Column, []table.Row) {
	rankWidth, countWidth := len("#"), lipgloss.Width(card.Unit)
	rows := make([]table.Row, 0, len(res.Entries))
	for i, e := range res.Entries {
		label := cat.Label(card.Kind, e.Index)
		if res.Exact != nil && res.Exact.Index == e.Index {
			label = "› " + label
		}
		rank, count := strconv.Itoa(i+1), strconv.Itoa(e.Count)
		rankWidth = max(rankWidth, len(rank))
		countWidth = max(countWidth, len(count))
		rows = append(rows, table.Row{rank, label, count})
	}
	labelWidth := max(lipgloss.Width(card.What), width-rankWidth-countWidth-6)
	columns := []table.Column{
		{Title: "#", Width: rankWidth},
		{Title: card.What, Width: labelWidth},
		{Title: card.Unit, Width: countWidth},
	}
	return columns, rows
}

func cardTableStyles(hue int, color bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	if color && hue > 0 {
		styles.Selected = styles.Selected.Foreground(render.HueColor(hue))
	}
	return styles
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderTabs() string {
	def := cards.Definitions[m.active]
	prev := cards.Definitions[(m.active-1+len(cards.Definitions))%len(cards.Definitions)]
	next := cards.Definitions[(m.active+1)%len(cards.Definitions)]
	return lipgloss.JoinHorizontal(lipgloss.Top,
		inactiveNavStyle.Render("‹ "+prev.Title),
		activeNavStyle.Render(def.Title),
		inactiveNavStyle.Render(next.Title+" ›"),
	)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.renderSummary(), m.width)) + "\n" + m.renderFilterLine()
}

// renderSummary shows the report, card position and option choices.
func (m *Model) renderSummary() string {
	def := cards.Definitions[m.active]
	parts := []string{fmt.Sprintf("%s  %d/%d", m.title, m.active+1, len(cards.Definitions))}
	for i, axis := range def.Axes {
		choice := axis.Choices[m.options[m.active].At(i, len(axis.Choices))]
		parts = append(parts, fmt.Sprintf("%s=%s", axis.Name, choice))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderFilterLine() string {
	if m.filterOn {
		return m.filter.View()
	}
	b := m.browsers[m.active]
	switch {
	case !b.Searchable():
		return ""
	case b.Filter() == "":
		return headerStyle.Render(b.Placeholder())
	default:
		res := b.Result()
		return headerStyle.Render(fmt.Sprintf("Filter: %s  (%d matches)", b.Filter(), res.Matched))
	}
}

func (m *Model) renderBody() string {
	card := m.current()
	def := cards.Definitions[m.active]
	if err := m.blockErrs[def.Block]; err != nil {
		return errorStyle.Render("Failed to load data.")
	}
	res := m.browsers[m.active].Result()
	switch {
	case res.Loading && m.blocks.Delivered(def.Block):
		return "No data in this report."
	case res.Loading:
		return "Loading..."
	case len(res.Entries) == 0 && card.MaxItems <= 0:
		return "Nothing to show."
	case len(res.Entries) == 0:
		return "No results."
	case card.Display == cards.DisplayCloud:
		return m.cloud.View()
	default:
		return tableMutedStyle.Render(m.table.View())
	}
}

func (m *Model) renderFooter() string {
	bindings := m.keys.ShortHelp()
	if m.filterOn {
		bindings = filterHelp(m.keys)
	}
	out := m.help.ShortHelpView(bindings)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return out
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
