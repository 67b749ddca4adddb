// Package catalog resolves entity indices to labels and back.
//
// A Catalog pairs the report's entity tables (Database) with a parallel
// FormatCache of search-ready strings. Both are read-only once built.
package catalog

import (
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// NotFound is returned by IndexOf when nothing matches.
const NotFound model.Index = -1

// Kind names an entity table.
type Kind int

const (
	Author Kind = iota
	Channel
	Word
	Emoji
	Domain
	Mention
)

var kindNames = map[Kind]string{
	Author:  "author",
	Channel: "channel",
	Word:    "word",
	Emoji:   "emoji",
	Domain:  "domain",
	Mention: "mention",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// EmojiType distinguishes unicode emoji from server-defined ones.
type EmojiType string

const (
	EmojiUnicode EmojiType = "unicode"
	EmojiCustom  EmojiType = "custom"
)

// AuthorEntry is a message author.
type AuthorEntry struct {
	Name string `yaml:"name"`
	Bot  bool   `yaml:"bot,omitempty"`
}

// ChannelEntry is a conversation channel.
type ChannelEntry struct {
	Name string `yaml:"name"`
}

// EmojiEntry is one emoji. Name is the shortcode name ("fire", "pepe");
// Symbol holds the character for unicode emoji.
type EmojiEntry struct {
	Type   EmojiType `yaml:"type"`
	Name   string    `yaml:"name"`
	Symbol string    `yaml:"symbol,omitempty"`
}

// Database holds the report's entity tables.
type Database struct {
	Authors  []AuthorEntry  `yaml:"authors"`
	Channels []ChannelEntry `yaml:"channels"`
	Words    []string       `yaml:"words"`
	Emojis   []EmojiEntry   `yaml:"emojis"`
	Domains  []string       `yaml:"domains"`
	Mentions []string       `yaml:"mentions"`
}

// FormatCache holds search strings index-aligned with the Database tables.
type FormatCache struct {
	Words    []string
	Emojis   []string
	Mentions []string
	Domains  []string
}

// NewFormatCache builds the search strings for db.
func NewFormatCache(db *Database) *FormatCache {
	fc := &FormatCache{
		Words:    normalizeAll(db.Words),
		Mentions: normalizeAll(db.Mentions),
		Domains:  normalizeAll(db.Domains),
		Emojis:   make([]string, len(db.Emojis)),
	}
	for i, e := range db.Emojis {
		fc.Emojis[i] = formatEmoji(e)
	}
	return fc
}

func formatEmoji(e EmojiEntry) string {
	name := Normalize(e.Name)
	if e.Type == EmojiCustom {
		return ":" + name + ":"
	}
	if e.Symbol == "" {
		return name
	}
	return Normalize(e.Symbol) + " " + name
}

// Normalize puts s in Unicode NFC so composed and decomposed input compare equal.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}

// Catalog is the read-only lookup context handed to cards.
type Catalog struct {
	DB    *Database
	Cache *FormatCache
}

// New returns a Catalog over db with a freshly built format cache.
func New(db *Database) *Catalog {
	if db == nil {
		db = &Database{}
	}
	return &Catalog{DB: db, Cache: NewFormatCache(db)}
}

// Size returns the number of entities of kind.
func (c *Catalog) Size(kind Kind) int {
	if c == nil || c.DB == nil {
		return 0
	}
	switch kind {
	case Author:
		return len(c.DB.Authors)
	case Channel:
		return len(c.DB.Channels)
	case Word:
		return len(c.DB.Words)
	case Emoji:
		return len(c.DB.Emojis)
	case Domain:
		return len(c.DB.Domains)
	case Mention:
		return len(c.DB.Mentions)
	default:
		return 0
	}
}

// Label returns the display label of an entity, or "" for an unknown index.
func (c *Catalog) Label(kind Kind, idx model.Index) string {
	if idx < 0 || idx >= c.Size(kind) {
		return ""
	}
	switch kind {
	case Author:
		return c.DB.Authors[idx].Name
	case Channel:
		return c.DB.Channels[idx].Name
	case Word:
		return c.DB.Words[idx]
	case Emoji:
		e := c.DB.Emojis[idx]
		if e.Type == EmojiUnicode && e.Symbol != "" {
			return e.Symbol
		}
		return ":" + e.Name + ":"
	case Domain:
		return c.DB.Domains[idx]
	case Mention:
		return "@" + c.DB.Mentions[idx]
	default:
		return ""
	}
}

// SearchLabel returns the format-cache string used for matching.
func (c *Catalog) SearchLabel(kind Kind, idx model.Index) string {
	if c == nil || c.Cache == nil {
		return ""
	}
	var table []string
	switch kind {
	case Word:
		table = c.Cache.Words
	case Emoji:
		table = c.Cache.Emojis
	case Mention:
		table = c.Cache.Mentions
	case Domain:
		table = c.Cache.Domains
	default:
		return Normalize(c.Label(kind, idx))
	}
	if idx < 0 || idx >= len(table) {
		return ""
	}
	return table[idx]
}

// IndexOf resolves an exact search string to an index.
// Emoji names are looked up in the raw table before the format cache.
func (c *Catalog) IndexOf(kind Kind, value string) model.Index {
	if c == nil || c.DB == nil || c.Cache == nil {
		return NotFound
	}
	value = Normalize(value)
	switch kind {
	case Word:
		return indexOf(c.Cache.Words, value)
	case Emoji:
		idx := slices.IndexFunc(c.DB.Emojis, func(e EmojiEntry) bool { return Normalize(e.Name) == value })
		if idx == -1 {
			return indexOf(c.Cache.Emojis, value)
		}
		return idx
	case Mention:
		return indexOf(c.Cache.Mentions, value)
	case Domain:
		return indexOf(c.Cache.Domains, value)
	case Author:
		return slices.IndexFunc(c.DB.Authors, func(a AuthorEntry) bool { return Normalize(a.Name) == value })
	case Channel:
		return slices.IndexFunc(c.DB.Channels, func(ch ChannelEntry) bool { return Normalize(ch.Name) == value })
	default:
		return NotFound
	}
}

// IsEmojiType reports whether the emoji at idx has type t.
func (c *Catalog) IsEmojiType(idx model.Index, t EmojiType) bool {
	if c == nil || c.DB == nil || idx < 0 || idx >= len(c.DB.Emojis) {
		return false
	}
	return c.DB.Emojis[idx].Type == t
}

func indexOf(table []string, value string) model.Index {
	if idx := slices.Index(table, value); idx >= 0 {
		return idx
	}
	return NotFound
}
