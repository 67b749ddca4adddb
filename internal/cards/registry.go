package cards

import (
	"github.com/kazin-kharizma/chat-analytics/internal/model"
	"github.com/kazin-kharizma/chat-analytics/internal/report"
)

// Definition describes a card: where its data comes from and which
// option axes it exposes.
type Definition struct {
	ID    string
	Title string
	Block string
	Axes  []Axis
	Build func(b *report.Blocks, opts Options, env Env) Card
}

// Definitions lists every card in display order.
var Definitions = []Definition{
	{
		ID:    "most-messages-authors",
		Title: "Most active authors",
		Block: model.BlockMessages,
		Build: func(b *report.Blocks, _ Options, env Env) Card { return MostMessagesAuthors(b.Messages(), env) },
	},
	{
		ID:    "most-replies-authors",
		Title: "Authors who reply most",
		Block: model.BlockInteraction,
		Build: func(b *report.Blocks, _ Options, env Env) Card { return MostRepliesAuthors(b.Interaction(), env) },
	},
	{
		ID:    "most-messages-channels",
		Title: "Most active channels",
		Block: model.BlockMessages,
		Build: func(b *report.Blocks, _ Options, env Env) Card { return MostMessagesChannels(b.Messages(), env) },
	},
	{
		ID:    "most-conversations",
		Title: "Most conversations started",
		Block: model.BlockConversation,
		Axes:  []Axis{groupByAxis},
		Build: func(b *report.Blocks, o Options, env Env) Card { return MostConversations(b.Conversation(), o, env) },
	},
	{
		ID:    "most-used-words",
		Title: "Most used words",
		Block: model.BlockLanguage,
		Axes:  []Axis{wordsAxis},
		Build: func(b *report.Blocks, o Options, env Env) Card { return MostUsedWords(b.Language(), o, env) },
	},
	{
		ID:    "most-used-emojis",
		Title: "Most used emojis",
		Block: model.BlockEmojis,
		Axes:  []Axis{emojiKindAxis, emojiMetricAxis},
		Build: func(b *report.Blocks, o Options, env Env) Card { return MostUsedEmojis(b.Emojis(), o, env) },
	},
	{
		ID:    "most-producer-emojis",
		Title: "Who uses the most emojis",
		Block: model.BlockEmojis,
		Axes:  []Axis{groupByAxis},
		Build: func(b *report.Blocks, o Options, env Env) Card { return MostProducerEmojis(b.Emojis(), o, env) },
	},
	{
		ID:    "most-getter-emojis",
		Title: "Who gets the most reactions",
		Block: model.BlockEmojis,
		Axes:  []Axis{groupByAxis},
		Build: func(b *report.Blocks, o Options, env Env) Card { return MostGetterEmojis(b.Emojis(), o, env) },
	},
	{
		ID:    "most-linked-domains",
		Title: "Most linked domains",
		Block: model.BlockDomains,
		Build: func(b *report.Blocks, _ Options, env Env) Card { return MostLinkedDomains(b.Domains(), env) },
	},
	{
		ID:    "most-mentioned",
		Title: "Most mentioned",
		Block: model.BlockInteraction,
		Build: func(b *report.Blocks, _ Options, env Env) Card { return MostMentioned(b.Interaction(), env) },
	},
}

// Lookup finds a card definition by ID.
func Lookup(id string) (Definition, bool) {
	for _, def := range Definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Resolve returns one valid choice per axis of d. Positions past the last
// axis are dropped and out-of-range values fall back to 0, as in At.
func (d Definition) Resolve(opts Options) Options {
	out := make(Options, len(d.Axes))
	for i, axis := range d.Axes {
		out[i] = opts.At(i, len(axis.Choices))
	}
	return out
}

// Cycle advances the choice on axis pos, wrapping around, and returns
// the new options. Axes the card does not define are left alone.
func (d Definition) Cycle(opts Options, pos int) Options {
	if pos < 0 || pos >= len(d.Axes) {
		return opts
	}
	out := d.Resolve(opts)
	out[pos] = (out[pos] + 1) % len(d.Axes[pos].Choices)
	return out
}
