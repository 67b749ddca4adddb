package cardsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kazin-kharizma/chat-analytics/internal/cards"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

type fakeSource struct {
	blocks map[string]any
}

func (f fakeSource) LoadBlock(_ context.Context, _, name string) (any, error) {
	return f.blocks[name], nil
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cat := catalog.New(&catalog.Database{
		Authors:  []catalog.AuthorEntry{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}},
		Channels: []catalog.ChannelEntry{{Name: "general"}},
		Words:    []string{"hello", "help", "world"},
	})
	m := NewModel(fakeSource{}, "r1", "Test report", cards.NewEnv(cat), false)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestViewShowsLoadingBeforeDelivery(t *testing.T) {
	m := testModel(t)
	out := m.View()
	if !strings.Contains(out, "Loading...") {
		t.Fatalf("expected loading state, got:\n%s", out)
	}
	if !strings.Contains(out, "Most active authors") {
		t.Fatalf("expected active card title, got:\n%s", out)
	}
}

func TestDeliverRendersRankedRows(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockMessages, value: &model.MessagesStats{
		Counts: model.MessageCounts{
			Authors:  model.CountMapping{0: 5, 1: 12, 2: 5},
			Channels: model.CountMapping{0: 22},
		},
	}})
	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []string{"bob", "alice", "carol"}
	for i, name := range want {
		if rows[i][1] != name {
			t.Fatalf("row %d: expected %q, got %q", i, name, rows[i][1])
		}
	}
	if strings.Contains(m.View(), "Loading...") {
		t.Fatalf("expected loading state to clear")
	}
}

func TestMissingBlockShowsNoData(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockMessages})
	if out := m.View(); !strings.Contains(out, "No data in this report.") {
		t.Fatalf("expected no-data state, got:\n%s", out)
	}
}

func TestBlockErrorIsReported(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockMessages, err: errors.New("disk gone")})
	out := m.View()
	if !strings.Contains(out, "Failed to load data.") || !strings.Contains(out, "disk gone") {
		t.Fatalf("expected error output, got:\n%s", out)
	}
}

func TestFilterTypingNarrowsWords(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockLanguage, value: &model.LanguageStats{
		WordsCount: model.CountMapping{0: 3, 1: 9, 2: 40},
	}})
	for m.cards[m.active].ID != "most-used-words" {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterOn {
		t.Fatalf("expected filter input to open")
	}
	for _, r := range "hel" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	rows := m.table.Rows()
	if len(rows) != 2 || rows[0][1] != "help" || rows[1][1] != "hello" {
		t.Fatalf("unexpected rows for filter: %v", rows)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterOn || m.browsers[m.active].Filter() != "" {
		t.Fatalf("expected esc to close and clear the filter")
	}
	if len(m.table.Rows()) != 3 {
		t.Fatalf("expected all words after clearing, got %d", len(m.table.Rows()))
	}
}

func TestCycleSwitchesToWordCloud(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockLanguage, value: &model.LanguageStats{
		WordsCount: model.CountMapping{0: 3, 1: 9, 2: 40},
	}})
	for m.cards[m.active].ID != "most-used-words" {
		m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if m.current().Display != cards.DisplayCloud {
		t.Fatalf("expected word cloud after cycling")
	}
	out := m.View()
	if !strings.Contains(out, "WORLD") || !strings.Contains(out, "display=Word cloud") {
		t.Fatalf("expected cloud output, got:\n%s", out)
	}
}

func TestFilterSurvivesWordCloudRoundTrip(t *testing.T) {
	m := testModel(t)
	m.Update(blockLoadedMsg{name: model.BlockLanguage, value: &model.LanguageStats{
		WordsCount: model.CountMapping{0: 3, 1: 9, 2: 40},
	}})
	for m.cards[m.active].ID != "most-used-words" {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	for _, r := range "orl" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if m.current().Display != cards.DisplayCloud {
		t.Fatalf("expected word cloud after cycling")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if m.current().Display != cards.DisplayList {
		t.Fatalf("expected list after cycling back")
	}
	if got := m.browsers[m.active].Filter(); got != "orl" {
		t.Fatalf("expected filter to be kept, got %q", got)
	}
	rows := m.table.Rows()
	if len(rows) != 1 || rows[0][1] != "world" {
		t.Fatalf("unexpected rows after round trip: %v", rows)
	}
}

func TestFooterListsBindings(t *testing.T) {
	m := testModel(t)
	out := m.renderFooter()
	for _, needle := range []string{"quit", "filter", "next card"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("footer missing %q: %s", needle, out)
		}
	}
}
