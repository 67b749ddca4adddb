package report

import (
	"fmt"

	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// Series flattens a block into named count mappings for storage.
func Series(value any) (map[string]model.CountMapping, error) {
	switch v := value.(type) {
	case *model.MessagesStats:
		return map[string]model.CountMapping{
			"counts.authors":  v.Counts.Authors,
			"counts.channels": v.Counts.Channels,
		}, nil
	case *model.InteractionStats:
		return map[string]model.CountMapping{
			"authorsReplyCount": v.AuthorsReplyCount,
			"mentionsCount":     v.MentionsCount,
		}, nil
	case *model.ConversationStats:
		return map[string]model.CountMapping{
			"authorConversations":  v.AuthorConversations,
			"channelConversations": v.ChannelConversations,
		}, nil
	case *model.LanguageStats:
		return map[string]model.CountMapping{
			"wordsCount": v.WordsCount,
		}, nil
	case *model.EmojiStats:
		return map[string]model.CountMapping{
			"inText.count":             v.InText.Count,
			"inText.authorCount":       v.InText.AuthorCount,
			"inText.channelCount":      v.InText.ChannelCount,
			"inReactions.count":        v.InReactions.Count,
			"inReactions.authorCount":  v.InReactions.AuthorCount,
			"inReactions.channelCount": v.InReactions.ChannelCount,
		}, nil
	case *model.DomainsStats:
		return map[string]model.CountMapping{
			"count": v.Count,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported block type %T", value)
	}
}

// FromSeries rebuilds the named block. Missing series become empty
// mappings so a delivered block never looks like it is still loading.
func FromSeries(name string, series map[string]model.CountMapping) (any, error) {
	get := func(key string) model.CountMapping {
		if m := series[key]; m != nil {
			return m
		}
		return model.CountMapping{}
	}
	switch name {
	case model.BlockMessages:
		return &model.MessagesStats{Counts: model.MessageCounts{
			Authors:  get("counts.authors"),
			Channels: get("counts.channels"),
		}}, nil
	case model.BlockInteraction:
		return &model.InteractionStats{
			AuthorsReplyCount: get("authorsReplyCount"),
			MentionsCount:     get("mentionsCount"),
		}, nil
	case model.BlockConversation:
		return &model.ConversationStats{
			AuthorConversations:  get("authorConversations"),
			ChannelConversations: get("channelConversations"),
		}, nil
	case model.BlockLanguage:
		return &model.LanguageStats{WordsCount: get("wordsCount")}, nil
	case model.BlockEmojis:
		return &model.EmojiStats{
			InText: model.EmojiCounts{
				Count:        get("inText.count"),
				AuthorCount:  get("inText.authorCount"),
				ChannelCount: get("inText.channelCount"),
			},
			InReactions: model.EmojiCounts{
				Count:        get("inReactions.count"),
				AuthorCount:  get("inReactions.authorCount"),
				ChannelCount: get("inReactions.channelCount"),
			},
		}, nil
	case model.BlockDomains:
		return &model.DomainsStats{Count: get("count")}, nil
	default:
		return nil, fmt.Errorf("unknown block %q", name)
	}
}
