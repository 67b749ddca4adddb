// Package cards maps aggregate blocks and option choices to browser
// configurations, one selector per "Most ..." card.
package cards

import (
	"strings"

	"github.com/kazin-kharizma/chat-analytics/internal/browser"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

const (
	// DefaultMaxItems caps a list when the config does not.
	DefaultMaxItems = 15
	cloudItems      = 100

	authorHue  = 240
	channelHue = 266
)

// Env is the read-only context a selector builds against.
type Env struct {
	Catalog    *catalog.Catalog
	MaxItems   int
	AllowRegex bool
}

// NewEnv returns an Env with default limits.
func NewEnv(cat *catalog.Catalog) Env {
	return Env{Catalog: cat, MaxItems: DefaultMaxItems, AllowRegex: true}
}

func (e Env) limit(size int) int {
	n := e.MaxItems
	if n <= 0 {
		n = DefaultMaxItems
	}
	return min(n, size)
}

// Card is a fully specified browser configuration plus its presentation.
type Card struct {
	ID       string
	What     string
	Unit     string
	Kind     catalog.Kind
	Counts   model.CountMapping
	MaxItems int
	ColorHue int
	Display  Display
	Search   *browser.Search
	Exclude  browser.Predicate
}

// Loading reports whether the card's data has not arrived.
func (c Card) Loading() bool {
	return c.Counts == nil
}

// Browser returns a browser over the card's counts.
func (c Card) Browser() *browser.Browser {
	return browser.New(browser.Config{
		Counts:   c.Counts,
		MaxItems: c.MaxItems,
		Exclude:  c.Exclude,
		Search:   c.Search,
	})
}

func grouped(id, unit string, g GroupBy, authors, channels model.CountMapping, env Env) Card {
	c := Card{
		ID:       id,
		Unit:     unit,
		MaxItems: env.limit(max(env.Catalog.Size(catalog.Author), env.Catalog.Size(catalog.Channel))),
	}
	if g == GroupByChannel {
		c.What, c.Kind, c.Counts, c.ColorHue = "Channel", catalog.Channel, channels, channelHue
	} else {
		c.What, c.Kind, c.Counts, c.ColorHue = "Author", catalog.Author, authors, authorHue
	}
	return c
}

// MostMessagesAuthors ranks authors by messages sent.
func MostMessagesAuthors(data *model.MessagesStats, env Env) Card {
	c := Card{
		ID:       "most-messages-authors",
		What:     "Author",
		Unit:     "Total messages",
		Kind:     catalog.Author,
		MaxItems: env.limit(env.Catalog.Size(catalog.Author)),
		ColorHue: authorHue,
	}
	if data != nil {
		c.Counts = data.Counts.Authors
	}
	return c
}

// MostRepliesAuthors ranks authors by messages they replied to.
func MostRepliesAuthors(data *model.InteractionStats, env Env) Card {
	c := Card{
		ID:       "most-replies-authors",
		What:     "Author",
		Unit:     "Number of messages replied",
		Kind:     catalog.Author,
		MaxItems: env.limit(env.Catalog.Size(catalog.Author)),
		ColorHue: authorHue,
	}
	if data != nil {
		c.Counts = data.AuthorsReplyCount
	}
	return c
}

// MostMessagesChannels ranks channels by messages.
func MostMessagesChannels(data *model.MessagesStats, env Env) Card {
	c := Card{
		ID:       "most-messages-channels",
		What:     "Channel",
		Unit:     "Total messages",
		Kind:     catalog.Channel,
		MaxItems: env.limit(env.Catalog.Size(catalog.Channel)),
		ColorHue: channelHue,
	}
	if data != nil {
		c.Counts = data.Counts.Channels
	}
	return c
}

// MostConversations ranks authors or channels by conversations started.
func MostConversations(data *model.ConversationStats, opts Options, env Env) Card {
	var authors, channels model.CountMapping
	if data != nil {
		authors, channels = data.AuthorConversations, data.ChannelConversations
	}
	return grouped("most-conversations", "Number of conversations started", groupByOption(opts), authors, channels, env)
}

// MostUsedWords ranks words, as a filterable list or a word cloud.
func MostUsedWords(data *model.LanguageStats, opts Options, env Env) Card {
	c := Card{
		ID:      "most-used-words",
		What:    "Word",
		Unit:    "Times used",
		Kind:    catalog.Word,
		Display: wordsDisplayOption(opts),
	}
	if data != nil {
		c.Counts = data.WordsCount
	}
	if c.Display == DisplayCloud {
		c.MaxItems = min(cloudItems, env.Catalog.Size(catalog.Word))
		return c
	}
	cat := env.Catalog
	c.MaxItems = env.limit(cat.Size(catalog.Word))
	c.Search = &browser.Search{
		IndexOf: func(s string) model.Index { return cat.IndexOf(catalog.Word, s) },
		InFilter: func(idx model.Index, p browser.Pattern) bool {
			return p.Contains(cat.SearchLabel(catalog.Word, idx))
		},
		Transform:   catalog.Normalize,
		AllowRegex:  env.AllowRegex,
		Placeholder: "Filter words...",
	}
	return c
}

var emojiPlaceholders = map[EmojiKind]string{
	EmojiAll:         `Filter emojis... (e.g. "fire", "🔥" or ":pepe:")`,
	EmojiUnicodeOnly: `Filter emojis... (e.g. "fire" or "🔥")`,
	EmojiCustomOnly:  `Filter emojis... (e.g. ":pepe:")`,
}

// stripColons lets ":pepe:" match the shortcode name.
func stripColons(s string) string {
	return catalog.Normalize(strings.ReplaceAll(s, ":", ""))
}

// MostUsedEmojis ranks emoji used in text or as reactions, optionally
// restricted to unicode or custom emoji.
func MostUsedEmojis(data *model.EmojiStats, opts Options, env Env) Card {
	cat := env.Catalog
	kind := emojiKindOption(opts)
	c := Card{
		ID:       "most-used-emojis",
		What:     "Emoji",
		Unit:     "Times used",
		Kind:     catalog.Emoji,
		MaxItems: env.limit(cat.Size(catalog.Emoji)),
		Search: &browser.Search{
			IndexOf: func(s string) model.Index { return cat.IndexOf(catalog.Emoji, s) },
			InFilter: func(idx model.Index, p browser.Pattern) bool {
				return p.Contains(cat.SearchLabel(catalog.Emoji, idx))
			},
			Transform:   stripColons,
			Placeholder: emojiPlaceholders[kind],
		},
	}
	switch kind {
	case EmojiUnicodeOnly:
		c.Exclude = func(idx model.Index) bool { return cat.IsEmojiType(idx, catalog.EmojiUnicode) }
	case EmojiCustomOnly:
		c.Exclude = func(idx model.Index) bool { return cat.IsEmojiType(idx, catalog.EmojiCustom) }
	}
	metric := emojiMetricOption(opts)
	if metric == EmojiInReactions {
		c.Unit = "Times reacted"
	}
	if data != nil {
		if metric == EmojiInReactions {
			c.Counts = data.InReactions.Count
		} else {
			c.Counts = data.InText.Count
		}
	}
	return c
}

// MostProducerEmojis ranks authors or channels by emoji used in text.
func MostProducerEmojis(data *model.EmojiStats, opts Options, env Env) Card {
	var authors, channels model.CountMapping
	if data != nil {
		authors, channels = data.InText.AuthorCount, data.InText.ChannelCount
	}
	return grouped("most-producer-emojis", "Number of emojis used", groupByOption(opts), authors, channels, env)
}

// MostGetterEmojis ranks authors or channels by reactions received.
func MostGetterEmojis(data *model.EmojiStats, opts Options, env Env) Card {
	var authors, channels model.CountMapping
	if data != nil {
		authors, channels = data.InReactions.AuthorCount, data.InReactions.ChannelCount
	}
	return grouped("most-getter-emojis", "Number of reactions received", groupByOption(opts), authors, channels, env)
}

// MostLinkedDomains ranks linked domains.
func MostLinkedDomains(data *model.DomainsStats, env Env) Card {
	cat := env.Catalog
	c := Card{
		ID:       "most-linked-domains",
		What:     "Domain",
		Unit:     "Times linked",
		Kind:     catalog.Domain,
		MaxItems: env.limit(cat.Size(catalog.Domain)),
		Search: &browser.Search{
			IndexOf: func(s string) model.Index { return cat.IndexOf(catalog.Domain, s) },
			InFilter: func(idx model.Index, p browser.Pattern) bool {
				return p.Contains(cat.SearchLabel(catalog.Domain, idx))
			},
			Transform:   catalog.Normalize,
			Placeholder: "Filter domains...",
		},
	}
	if data != nil {
		c.Counts = data.Count
	}
	return c
}

// MostMentioned ranks mention targets.
func MostMentioned(data *model.InteractionStats, env Env) Card {
	cat := env.Catalog
	c := Card{
		ID:       "most-mentioned",
		What:     "Who",
		Unit:     "Times mentioned",
		Kind:     catalog.Mention,
		MaxItems: env.limit(cat.Size(catalog.Mention)),
		Search: &browser.Search{
			IndexOf: func(s string) model.Index { return cat.IndexOf(catalog.Mention, s) },
			InFilter: func(idx model.Index, p browser.Pattern) bool {
				return p.Contains(cat.SearchLabel(catalog.Mention, idx))
			},
			Transform:   catalog.Normalize,
			Placeholder: "Filter @mentions...",
		},
	}
	if data != nil {
		c.Counts = data.MentionsCount
	}
	return c
}
