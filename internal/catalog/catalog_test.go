package catalog

import "testing"

func testCatalog() *Catalog {
	return New(&Database{
		Authors:  []AuthorEntry{{Name: "alice"}, {Name: "bob"}},
		Channels: []ChannelEntry{{Name: "general"}},
		Words:    []string{"cafe\u0301", "tea"},
		Emojis: []EmojiEntry{
			{Type: EmojiUnicode, Name: "fire", Symbol: "🔥"},
			{Type: EmojiCustom, Name: "pepe"},
			{Type: EmojiUnicode, Name: "mystery"},
		},
		Domains:  []string{"github.com"},
		Mentions: []string{"alice"},
	})
}

func TestLabels(t *testing.T) {
	c := testCatalog()
	tests := []struct {
		kind Kind
		idx  int
		want string
	}{
		{Author, 1, "bob"},
		{Channel, 0, "general"},
		{Emoji, 0, "🔥"},
		{Emoji, 1, ":pepe:"},
		{Emoji, 2, ":mystery:"},
		{Mention, 0, "@alice"},
		{Domain, 0, "github.com"},
		{Author, 5, ""},
		{Word, -1, ""},
	}
	for _, tt := range tests {
		if got := c.Label(tt.kind, tt.idx); got != tt.want {
			t.Fatalf("Label(%s, %d) = %q, want %q", tt.kind, tt.idx, got, tt.want)
		}
	}
}

func TestFormatCache(t *testing.T) {
	c := testCatalog()
	if got := c.SearchLabel(Emoji, 0); got != "🔥 fire" {
		t.Fatalf("unexpected unicode emoji search label %q", got)
	}
	if got := c.SearchLabel(Emoji, 1); got != ":pepe:" {
		t.Fatalf("unexpected custom emoji search label %q", got)
	}
	if got := c.SearchLabel(Word, 0); got != "caf\u00e9" {
		t.Fatalf("expected NFC word, got %q", got)
	}
	if got := c.SearchLabel(Mention, 0); got != "alice" {
		t.Fatalf("unexpected mention search label %q", got)
	}
	if got := c.SearchLabel(Word, 9); got != "" {
		t.Fatalf("expected empty label out of range, got %q", got)
	}
}

func TestIndexOf(t *testing.T) {
	c := testCatalog()
	tests := []struct {
		kind  Kind
		value string
		want  int
	}{
		{Word, "caf\u00e9", 0},
		{Word, "cafe\u0301", 0},
		{Word, "te", NotFound},
		{Emoji, "pepe", 1},
		{Emoji, ":pepe:", 1},
		{Emoji, "fire", 0},
		{Author, "bob", 1},
		{Channel, "general", 0},
		{Channel, "off-topic", NotFound},
		{Mention, "alice", 0},
		{Domain, "github.com", 0},
	}
	for _, tt := range tests {
		if got := c.IndexOf(tt.kind, tt.value); got != tt.want {
			t.Fatalf("IndexOf(%s, %q) = %d, want %d", tt.kind, tt.value, got, tt.want)
		}
	}
}

func TestNilCatalogIsSafe(t *testing.T) {
	var c *Catalog
	if c.Size(Author) != 0 {
		t.Fatalf("expected zero size")
	}
	if c.Label(Author, 0) != "" || c.SearchLabel(Word, 0) != "" {
		t.Fatalf("expected empty labels")
	}
	if c.IndexOf(Word, "x") != NotFound {
		t.Fatalf("expected NotFound")
	}
	if c.IsEmojiType(0, EmojiCustom) {
		t.Fatalf("expected false")
	}
}

func TestIsEmojiType(t *testing.T) {
	c := testCatalog()
	if !c.IsEmojiType(1, EmojiCustom) || c.IsEmojiType(0, EmojiCustom) {
		t.Fatalf("unexpected emoji types")
	}
	if c.Size(Emoji) != 3 || New(nil).Size(Word) != 0 {
		t.Fatalf("unexpected sizes")
	}
}
