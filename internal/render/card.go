// Package render prints cards as plain text.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kazin-kharizma/chat-analytics/internal/browser"
	"github.com/kazin-kharizma/chat-analytics/internal/cards"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	barChar             = "█"
	exactMarker         = "›"
)

// Options controls text output.
type Options struct {
	Width int
	Color bool
}

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Card prints the ranked view of a card.
func Card(w io.Writer, card cards.Card, res browser.Result, cat *catalog.Catalog, opts Options) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", card.What, card.Unit); err != nil {
		return err
	}
	switch {
	case res.Loading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case len(res.Entries) == 0:
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	if card.Display == cards.DisplayCloud {
		return writeLines(w, Cloud(res.Entries, cat, card.Kind, card.ColorHue, opts))
	}
	return writeLines(w, List(card, res, cat, opts))
}

// List formats entries as rank, label, count and a proportional bar.
func List(card cards.Card, res browser.Result, cat *catalog.Catalog, opts Options) []string {
	maxCount := 0
	for _, e := range res.Entries {
		maxCount = max(maxCount, e.Count)
	}
	rows := make([][]string, 0, len(res.Entries))
	for i, e := range res.Entries {
		label := cat.Label(card.Kind, e.Index)
		if res.Exact != nil && res.Exact.Index == e.Index {
			label = exactMarker + " " + label
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), label, strconv.Itoa(e.Count)})
	}
	rightAlign := map[int]bool{0: true, 2: true}
	lines := formatTable([]string{"#", card.What, card.Unit}, rows, rightAlign)

	used := 0
	for _, line := range lines {
		used = max(used, displayWidth(line))
	}
	barWidth := max(minBarWidth, opts.Width-used-1)
	style := hueStyle(card.ColorHue, opts.Color)
	for i, e := range res.Entries {
		line := lines[i+1]
		pad := strings.Repeat(" ", used-displayWidth(line)+1)
		lines[i+1] = line + pad + style.Render(bar(e.Count, maxCount, barWidth))
	}
	return lines
}

func bar(count, maxCount, width int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	n := int(math.Round(float64(count) / float64(maxCount) * float64(width)))
	return strings.Repeat(barChar, max(1, n))
}

// Cloud lays entries out as a wrapped word cloud. Heavier entries are
// rendered bolder when colour is on and upper-cased when it is off.
func Cloud(entries []model.Entry, cat *catalog.Catalog, kind catalog.Kind, hue int, opts Options) []string {
	if len(entries) == 0 {
		return nil
	}
	width := opts.Width
	if width <= 0 {
		width = terminalWidthBackup
	}
	top := entries[0].Count
	for _, e := range entries {
		top = max(top, e.Count)
	}
	base := hueStyle(hue, opts.Color)

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, e := range entries {
		word := cat.Label(kind, e.Index)
		if word == "" {
			continue
		}
		tier := cloudTier(e.Count, top)
		var cell string
		switch {
		case opts.Color && tier == 2:
			cell = base.Bold(true).Render(word)
		case opts.Color && tier == 0:
			cell = base.Faint(true).Render(word)
		case opts.Color:
			cell = base.Render(word)
		case tier == 2:
			cell = strings.ToUpper(word)
		default:
			cell = word
		}
		w := displayWidth(word)
		if lineWidth > 0 && lineWidth+2+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString("  ")
			lineWidth += 2
		}
		line.WriteString(cell)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// cloudTier buckets a count into thirds of the top count.
func cloudTier(count, top int) int {
	if top <= 0 {
		return 0
	}
	ratio := float64(count) / float64(top)
	switch {
	case ratio >= 2.0/3.0:
		return 2
	case ratio >= 1.0/3.0:
		return 1
	default:
		return 0
	}
}

func hueStyle(hue int, color bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !color || hue <= 0 {
		return style
	}
	return style.Foreground(HueColor(hue))
}

// HueColor converts a hue in degrees to a mid-saturation colour.
func HueColor(hue int) lipgloss.Color {
	h := math.Mod(float64(hue), 360) / 60
	const s, l = 0.6, 0.65
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch {
	case h < 1:
		r, g = c, x
	case h < 2:
		r, g = x, c
	case h < 3:
		g, b = c, x
	case h < 4:
		g, b = x, c
	case h < 5:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := l - c/2
	to := func(v float64) int { return int(math.Round((v + m) * 255)) }
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", to(r), to(g), to(b)))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
