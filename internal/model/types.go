// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Index identifies one entity within a report-wide table.
type Index = int

// CountMapping is a sparse association from entity index to count.
// A nil mapping means the data has not arrived yet.
type CountMapping map[Index]int

// UnmarshalYAML accepts both integer keys and quoted integer keys,
// so JSON exports decode the same way YAML ones do.
func (c *CountMapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: count mapping must be a mapping", node.Line)
	}
	out := make(CountMapping, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		idx, err := strconv.Atoi(keyNode.Value)
		if err != nil || idx < 0 {
			return fmt.Errorf("line %d: invalid index %q", keyNode.Line, keyNode.Value)
		}
		count, err := strconv.Atoi(valNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid count %q", valNode.Line, valNode.Value)
		}
		out[idx] = count
	}
	*c = out
	return nil
}

// Entry is one ranked row.
type Entry struct {
	Index Index
	Count int
}

// Block names used by the aggregation pipeline.
const (
	BlockMessages     = "messages/stats"
	BlockInteraction  = "interaction/stats"
	BlockConversation = "conversation/stats"
	BlockLanguage     = "language/stats"
	BlockEmojis       = "emojis/stats"
	BlockDomains      = "domains/stats"
)

// BlockNames lists every block in load order.
var BlockNames = []string{
	BlockMessages,
	BlockInteraction,
	BlockConversation,
	BlockLanguage,
	BlockEmojis,
	BlockDomains,
}

// MessageCounts holds message totals per author and channel.
type MessageCounts struct {
	Authors  CountMapping `yaml:"authors"`
	Channels CountMapping `yaml:"channels"`
}

// MessagesStats is the "messages/stats" block.
type MessagesStats struct {
	Counts MessageCounts `yaml:"counts"`
}

// InteractionStats is the "interaction/stats" block.
type InteractionStats struct {
	AuthorsReplyCount CountMapping `yaml:"authorsReplyCount"`
	MentionsCount     CountMapping `yaml:"mentionsCount"`
}

// ConversationStats is the "conversation/stats" block.
type ConversationStats struct {
	AuthorConversations  CountMapping `yaml:"authorConversations"`
	ChannelConversations CountMapping `yaml:"channelConversations"`
}

// LanguageStats is the "language/stats" block.
type LanguageStats struct {
	WordsCount CountMapping `yaml:"wordsCount"`
}

// EmojiCounts holds emoji totals for one context (text or reactions).
type EmojiCounts struct {
	Count        CountMapping `yaml:"count"`
	AuthorCount  CountMapping `yaml:"authorCount"`
	ChannelCount CountMapping `yaml:"channelCount"`
}

// EmojiStats is the "emojis/stats" block.
type EmojiStats struct {
	InText      EmojiCounts `yaml:"inText"`
	InReactions EmojiCounts `yaml:"inReactions"`
}

// DomainsStats is the "domains/stats" block.
type DomainsStats struct {
	Count CountMapping `yaml:"count"`
}

// Config defines card browsing settings.
type Config struct {
	MaxItems   int
	AllowRegex bool
	Color      bool
	DBPath     string
}
