package report

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
)

// Export is a report as written by the aggregation pipeline. YAML and
// JSON files decode the same way.
type Export struct {
	Title    string           `yaml:"title"`
	Database catalog.Database `yaml:"database"`
	Blocks   ExportBlocks     `yaml:"blocks"`
}

// ExportBlocks holds whichever aggregate blocks the export carries.
type ExportBlocks struct {
	Messages     *model.MessagesStats     `yaml:"messages/stats"`
	Interaction  *model.InteractionStats  `yaml:"interaction/stats"`
	Conversation *model.ConversationStats `yaml:"conversation/stats"`
	Language     *model.LanguageStats     `yaml:"language/stats"`
	Emojis       *model.EmojiStats        `yaml:"emojis/stats"`
	Domains      *model.DomainsStats      `yaml:"domains/stats"`
}

// Decode reads an export from r.
func Decode(r io.Reader) (*Export, error) {
	var exp Export
	if err := yaml.NewDecoder(r).Decode(&exp); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	for _, e := range exp.Database.Emojis {
		if e.Type != catalog.EmojiUnicode && e.Type != catalog.EmojiCustom {
			return nil, fmt.Errorf("emoji %q has unknown type %q", e.Name, e.Type)
		}
	}
	return &exp, nil
}

// ReadFile decodes the export stored at path.
func ReadFile(path string) (*Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return Decode(file)
}

// Values returns the blocks present in the export, keyed by block name.
func (e *Export) Values() map[string]any {
	out := map[string]any{}
	add := func(name string, present bool, v any) {
		if present {
			out[name] = v
		}
	}
	add(model.BlockMessages, e.Blocks.Messages != nil, e.Blocks.Messages)
	add(model.BlockInteraction, e.Blocks.Interaction != nil, e.Blocks.Interaction)
	add(model.BlockConversation, e.Blocks.Conversation != nil, e.Blocks.Conversation)
	add(model.BlockLanguage, e.Blocks.Language != nil, e.Blocks.Language)
	add(model.BlockEmojis, e.Blocks.Emojis != nil, e.Blocks.Emojis)
	add(model.BlockDomains, e.Blocks.Domains != nil, e.Blocks.Domains)
	return out
}
