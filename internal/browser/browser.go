// Package browser ranks count mappings into bounded, filterable top-N lists.
package browser

import (
	"sort"

	"github.com/kazin-kharizma/chat-analytics/internal/logger"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// NotFound is returned by an IndexOf lookup that has no match.
const NotFound model.Index = -1

// Predicate reports whether an index belongs to the candidate universe.
type Predicate func(model.Index) bool

// Search configures filtering. A nil *Search means the list is not searchable.
type Search struct {
	// IndexOf resolves an exact label to its index, or NotFound.
	IndexOf func(string) model.Index
	// InFilter reports whether the entity at index matches the pattern.
	InFilter func(model.Index, Pattern) bool
	// Transform normalizes raw input before literal matching. Nil is identity.
	Transform func(string) string
	// AllowRegex enables /body/flags input.
	AllowRegex bool
	// Placeholder is the hint shown in an empty filter input.
	Placeholder string
}

// Result is one computed view of a count mapping.
type Result struct {
	Entries []model.Entry
	// Exact is the entity whose label equals the filter, when there is one.
	Exact *model.Entry
	// Matched counts candidates before truncation.
	Matched int
	// Loading is set when no count mapping has arrived yet.
	Loading bool
}

// Rank returns at most maxItems entries of counts, sorted by count
// descending and index ascending.
func Rank(counts model.CountMapping, maxItems int, exclude Predicate, search *Search, filter string) Result {
	if counts == nil {
		return Result{Loading: true}
	}
	if maxItems <= 0 {
		return Result{}
	}

	var (
		pattern Pattern
		exact   = NotFound
	)
	filtering := search != nil && filter != ""
	if filtering {
		pattern, exact = resolveFilter(search, filter)
		filtering = !pattern.IsEmpty()
	}

	items := make([]model.Entry, 0, len(counts))
	seeded := false
	for idx, count := range counts {
		if exclude != nil && !exclude(idx) {
			continue
		}
		isExact := exact != NotFound && idx == exact
		if filtering && !isExact && (search.InFilter == nil || !search.InFilter(idx, pattern)) {
			continue
		}
		if isExact {
			seeded = true
		}
		items = append(items, model.Entry{Index: idx, Count: count})
	}
	// The exact match joins the candidates even when it has no count yet.
	if exact != NotFound && !seeded && (exclude == nil || exclude(exact)) {
		items = append(items, model.Entry{Index: exact, Count: counts[exact]})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Index < items[j].Index
		}
		return items[i].Count > items[j].Count
	})

	res := Result{Matched: len(items)}
	if exact != NotFound {
		for _, item := range items {
			if item.Index == exact {
				e := item
				res.Exact = &e
				break
			}
		}
	}
	if maxItems > len(items) {
		maxItems = len(items)
	}
	res.Entries = items[:maxItems:maxItems]
	logger.Debug("ranked %d of %d entries (filter %q)", len(res.Entries), len(counts), filter)
	return res
}

func resolveFilter(search *Search, raw string) (Pattern, model.Index) {
	text := raw
	if search.Transform != nil {
		text = search.Transform(raw)
	}
	exact := NotFound
	if search.IndexOf != nil && text != "" {
		if idx := search.IndexOf(text); idx >= 0 {
			exact = idx
		}
	}
	pattern := ParsePattern(raw, search.AllowRegex)
	if pattern.Kind() == Literal {
		pattern = LiteralPattern(text)
	}
	return pattern, exact
}

// Config holds the inputs of a Browser.
type Config struct {
	Counts   model.CountMapping
	MaxItems int
	Exclude  Predicate
	Search   *Search
}

// Browser keeps the current filter text and recomputes its ranked view
// whenever an input changes.
type Browser struct {
	cfg    Config
	filter string

	result Result
	dirty  bool
}

// New returns a Browser for cfg.
func New(cfg Config) *Browser {
	return &Browser{cfg: cfg, dirty: true}
}

// Searchable reports whether the browser accepts a filter.
func (b *Browser) Searchable() bool {
	return b.cfg.Search != nil
}

// Placeholder returns the filter hint, if any.
func (b *Browser) Placeholder() string {
	if b.cfg.Search == nil {
		return ""
	}
	return b.cfg.Search.Placeholder
}

// Filter returns the current filter text.
func (b *Browser) Filter() string {
	return b.filter
}

// SetFilter replaces the filter text. It is ignored when not searchable.
func (b *Browser) SetFilter(filter string) {
	if b.cfg.Search == nil || filter == b.filter {
		return
	}
	b.filter = filter
	b.dirty = true
}

// SetCounts replaces the count mapping.
func (b *Browser) SetCounts(counts model.CountMapping) {
	b.cfg.Counts = counts
	b.dirty = true
}

// SetMaxItems replaces the result cap.
func (b *Browser) SetMaxItems(n int) {
	if n == b.cfg.MaxItems {
		return
	}
	b.cfg.MaxItems = n
	b.dirty = true
}

// SetExclude replaces the exclusion predicate.
func (b *Browser) SetExclude(p Predicate) {
	b.cfg.Exclude = p
	b.dirty = true
}

// Result returns the ranked view, recomputing it if an input changed.
func (b *Browser) Result() Result {
	if b.dirty {
		b.result = Rank(b.cfg.Counts, b.cfg.MaxItems, b.cfg.Exclude, b.cfg.Search, b.filter)
		b.dirty = false
	}
	return b.result
}
