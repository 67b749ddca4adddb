package render

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"#", "Author", "Total messages"}
	rows := [][]string{
		{"1", "alice", "120"},
		{"2", "bob", "7"},
	}
	rightAlign := map[int]bool{0: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "# Author Total messages" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "1 alice             120" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2 bob                 7" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Emoji", "n"}, [][]string{{"🔥", "3"}, {"ok", "1"}}, map[int]bool{1: true})
	if lines[1] != "🔥    3" {
		t.Fatalf("unexpected emoji row: %q", lines[1])
	}
	if lines[2] != "ok    1" {
		t.Fatalf("unexpected ascii row: %q", lines[2])
	}
}
