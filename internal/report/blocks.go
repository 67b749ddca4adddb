// Package report holds the aggregate blocks of one loaded report.
package report

import (
	"context"
	"sync"

	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// Blocks collects aggregate blocks as they are delivered. Each block is
// published at most once; readers see nil until it arrives.
type Blocks struct {
	mu     sync.RWMutex
	values map[string]any
	ready  map[string]chan struct{}
}

// NewBlocks returns an empty container.
func NewBlocks() *Blocks {
	return &Blocks{
		values: map[string]any{},
		ready:  map[string]chan struct{}{},
	}
}

// Set publishes a block. It returns false if the block was already set.
func (b *Blocks) Set(name string, value any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[name]; ok {
		return false
	}
	b.values[name] = value
	close(b.readyChan(name))
	return true
}

// Get returns the block, or nil if it has not been delivered.
func (b *Blocks) Get(name string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[name]
}

// Delivered reports whether Set has been called for the block, even with
// a nil value.
func (b *Blocks) Delivered(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[name]
	return ok
}

// Ready returns a channel closed once the block is delivered.
func (b *Blocks) Ready(name string) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readyChan(name)
}

// Wait blocks until the block is delivered or ctx is done.
func (b *Blocks) Wait(ctx context.Context, name string) (any, error) {
	select {
	case <-b.Ready(name):
		return b.Get(name), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Blocks) readyChan(name string) chan struct{} {
	ch, ok := b.ready[name]
	if !ok {
		ch = make(chan struct{})
		b.ready[name] = ch
	}
	return ch
}

// Messages returns the "messages/stats" block, or nil.
func (b *Blocks) Messages() *model.MessagesStats {
	v, _ := b.Get(model.BlockMessages).(*model.MessagesStats)
	return v
}

// Interaction returns the "interaction/stats" block, or nil.
func (b *Blocks) Interaction() *model.InteractionStats {
	v, _ := b.Get(model.BlockInteraction).(*model.InteractionStats)
	return v
}

// Conversation returns the "conversation/stats" block, or nil.
func (b *Blocks) Conversation() *model.ConversationStats {
	v, _ := b.Get(model.BlockConversation).(*model.ConversationStats)
	return v
}

// Language returns the "language/stats" block, or nil.
func (b *Blocks) Language() *model.LanguageStats {
	v, _ := b.Get(model.BlockLanguage).(*model.LanguageStats)
	return v
}

// Emojis returns the "emojis/stats" block, or nil.
func (b *Blocks) Emojis() *model.EmojiStats {
	v, _ := b.Get(model.BlockEmojis).(*model.EmojiStats)
	return v
}

// Domains returns the "domains/stats" block, or nil.
func (b *Blocks) Domains() *model.DomainsStats {
	v, _ := b.Get(model.BlockDomains).(*model.DomainsStats)
	return v
}
