package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kazin-kharizma/chat-analytics/internal/browser"
	"github.com/kazin-kharizma/chat-analytics/internal/cards"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(&catalog.Database{
		Authors: []catalog.AuthorEntry{{Name: "alice"}, {Name: "bob"}},
		Words:   []string{"tiny", "mid", "huge"},
	})
}

func renderCard(t *testing.T, card cards.Card, res browser.Result) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Card(&buf, card, res, testCatalog(), Options{Width: 40}); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestCardStates(t *testing.T) {
	card := cards.Card{What: "Author", Unit: "Total messages", Kind: catalog.Author}
	if out := renderCard(t, card, browser.Result{Loading: true}); !strings.Contains(out, "Loading...") {
		t.Fatalf("expected loading output, got %q", out)
	}
	out := renderCard(t, card, browser.Result{})
	if !strings.HasPrefix(out, "Author (Total messages)\n") || !strings.Contains(out, "No results.") {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestCardList(t *testing.T) {
	card := cards.Card{What: "Author", Unit: "Total messages", Kind: catalog.Author}
	exact := model.Entry{Index: 1, Count: 5}
	res := browser.Result{
		Entries: []model.Entry{{Index: 0, Count: 10}, exact},
		Exact:   &exact,
	}
	lines := strings.Split(strings.TrimRight(renderCard(t, card, res), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, column row and 2 entries, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[2], "alice") || !strings.Contains(lines[2], "10") {
		t.Fatalf("unexpected first row %q", lines[2])
	}
	if !strings.Contains(lines[3], "› bob") {
		t.Fatalf("expected exact marker on bob, got %q", lines[3])
	}
	full := strings.Count(lines[2], barChar)
	half := strings.Count(lines[3], barChar)
	if full == 0 || half == 0 || half >= full {
		t.Fatalf("expected proportional bars, got %d and %d", full, half)
	}
}

func TestCloudTiers(t *testing.T) {
	entries := []model.Entry{{Index: 2, Count: 90}, {Index: 1, Count: 45}, {Index: 0, Count: 5}}
	lines := Cloud(entries, testCatalog(), catalog.Word, 0, Options{Width: 80})
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %q", lines)
	}
	if lines[0] != "HUGE  mid  tiny" {
		t.Fatalf("unexpected cloud %q", lines[0])
	}
}

func TestCloudWraps(t *testing.T) {
	entries := []model.Entry{{Index: 2, Count: 3}, {Index: 1, Count: 3}, {Index: 0, Count: 3}}
	lines := Cloud(entries, testCatalog(), catalog.Word, 0, Options{Width: 10})
	if len(lines) != 2 || lines[0] != "HUGE  MID" || lines[1] != "TINY" {
		t.Fatalf("unexpected wrapped cloud %q", lines)
	}
}

func TestHueColor(t *testing.T) {
	if got := HueColor(240); got != "#7070DB" {
		t.Fatalf("unexpected hue colour %q", got)
	}
}
