package cards

// Options is the user's choice per option axis, by position.
type Options []int

// At returns the choice at pos, or 0 when pos is unset or the value is
// outside [0, n).
func (o Options) At(pos, n int) int {
	if pos < 0 || pos >= len(o) {
		return 0
	}
	v := o[pos]
	if v < 0 || v >= n {
		return 0
	}
	return v
}

// GroupBy selects the entity a grouped card ranks.
type GroupBy int

const (
	GroupByAuthor GroupBy = iota
	GroupByChannel
)

func groupByOption(o Options) GroupBy {
	switch o.At(0, 2) {
	case 1:
		return GroupByChannel
	default:
		return GroupByAuthor
	}
}

// Display selects how a card lays out its entries.
type Display int

const (
	DisplayList Display = iota
	DisplayCloud
)

func wordsDisplayOption(o Options) Display {
	switch o.At(0, 2) {
	case 1:
		return DisplayCloud
	default:
		return DisplayList
	}
}

// EmojiKind restricts which emoji a card ranks.
type EmojiKind int

const (
	EmojiAll EmojiKind = iota
	EmojiUnicodeOnly
	EmojiCustomOnly
)

func emojiKindOption(o Options) EmojiKind {
	switch o.At(0, 3) {
	case 1:
		return EmojiUnicodeOnly
	case 2:
		return EmojiCustomOnly
	default:
		return EmojiAll
	}
}

// EmojiMetric selects text usage or reactions.
type EmojiMetric int

const (
	EmojiInText EmojiMetric = iota
	EmojiInReactions
)

func emojiMetricOption(o Options) EmojiMetric {
	switch o.At(1, 2) {
	case 1:
		return EmojiInReactions
	default:
		return EmojiInText
	}
}

// Axis describes one option position and its choices.
type Axis struct {
	Name    string
	Choices []string
}

var (
	groupByAxis     = Axis{Name: "group", Choices: []string{"Author", "Channel"}}
	wordsAxis       = Axis{Name: "display", Choices: []string{"List", "Word cloud"}}
	emojiKindAxis   = Axis{Name: "kind", Choices: []string{"All emoji", "Regular emoji", "Custom emoji"}}
	emojiMetricAxis = Axis{Name: "metric", Choices: []string{"in text", "as reaction"}}
)
