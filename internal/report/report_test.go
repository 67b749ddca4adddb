package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

func TestReadFileYAML(t *testing.T) {
	exp, err := ReadFile("testdata/sample.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Team chat 2024", exp.Title)
	assert.Len(t, exp.Database.Authors, 3)
	assert.True(t, exp.Database.Authors[2].Bot)
	assert.Equal(t, catalog.EmojiCustom, exp.Database.Emojis[1].Type)

	require.NotNil(t, exp.Blocks.Messages)
	assert.Equal(t, model.CountMapping{0: 120, 1: 45, 2: 300}, exp.Blocks.Messages.Counts.Authors)
	assert.Nil(t, exp.Blocks.Conversation)

	values := exp.Values()
	assert.Len(t, values, 4)
	assert.Contains(t, values, model.BlockEmojis)
	assert.NotContains(t, values, model.BlockDomains)
}

func TestReadFileJSONQuotedKeys(t *testing.T) {
	exp, err := ReadFile("testdata/sample.json")
	require.NoError(t, err)

	assert.Equal(t, "Exported as JSON", exp.Title)
	require.NotNil(t, exp.Blocks.Domains)
	assert.Equal(t, model.CountMapping{0: 2}, exp.Blocks.Domains.Count)
	assert.Equal(t, model.CountMapping{0: 7, 1: 3}, exp.Blocks.Messages.Counts.Authors)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"emoji type":   "database:\n  emojis:\n    - {type: sticker, name: x}\n",
		"negative key": "blocks:\n  domains/stats:\n    count: {-1: 3}\n",
		"bad count":    "blocks:\n  domains/stats:\n    count: {0: lots}\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestSeriesRoundTrip(t *testing.T) {
	in := &model.EmojiStats{
		InText:      model.EmojiCounts{Count: model.CountMapping{0: 1}, AuthorCount: model.CountMapping{2: 5}},
		InReactions: model.EmojiCounts{ChannelCount: model.CountMapping{1: 4}},
	}
	series, err := Series(in)
	require.NoError(t, err)
	assert.Len(t, series, 6)

	out, err := FromSeries(model.BlockEmojis, series)
	require.NoError(t, err)
	got, ok := out.(*model.EmojiStats)
	require.True(t, ok)
	assert.Equal(t, in.InText.Count, got.InText.Count)
	assert.Equal(t, in.InText.AuthorCount, got.InText.AuthorCount)
	assert.Equal(t, in.InReactions.ChannelCount, got.InReactions.ChannelCount)
	// Series that were never stored come back empty, not nil.
	assert.NotNil(t, got.InReactions.Count)
	assert.Empty(t, got.InReactions.Count)
}

func TestSeriesRejectsUnknown(t *testing.T) {
	_, err := Series("nope")
	assert.Error(t, err)
	_, err = FromSeries("nope/stats", nil)
	assert.Error(t, err)
}

func TestBlocksSetOnce(t *testing.T) {
	b := NewBlocks()
	assert.Nil(t, b.Messages())
	assert.False(t, b.Delivered(model.BlockMessages))

	first := &model.MessagesStats{}
	assert.True(t, b.Set(model.BlockMessages, first))
	assert.False(t, b.Set(model.BlockMessages, &model.MessagesStats{}))
	assert.Same(t, first, b.Messages())
	assert.True(t, b.Delivered(model.BlockMessages))
}

func TestBlocksNilValueIsDelivered(t *testing.T) {
	b := NewBlocks()
	b.Set(model.BlockDomains, nil)
	assert.True(t, b.Delivered(model.BlockDomains))
	assert.Nil(t, b.Domains())
	select {
	case <-b.Ready(model.BlockDomains):
	default:
		t.Fatal("ready channel should be closed")
	}
}

func TestBlocksWait(t *testing.T) {
	b := NewBlocks()
	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Set(model.BlockLanguage, &model.LanguageStats{WordsCount: model.CountMapping{0: 1}})
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := b.Wait(ctx, model.BlockLanguage)
	require.NoError(t, err)
	assert.IsType(t, &model.LanguageStats{}, v)
	assert.NotNil(t, b.Language())
}

func TestBlocksWaitCancelled(t *testing.T) {
	b := NewBlocks()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Wait(ctx, model.BlockInteraction)
	assert.True(t, errors.Is(err, context.Canceled))
}
