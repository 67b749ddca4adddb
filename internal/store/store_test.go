package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
	"github.com/kazin-kharizma/chat-analytics/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "reports.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func importSample(t *testing.T, st *Store, at time.Time) string {
	t.Helper()
	exp, err := report.ReadFile("../report/testdata/sample.yaml")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	id, err := st.InsertReport(context.Background(), exp, at)
	if err != nil {
		t.Fatalf("insert report: %v", err)
	}
	return id
}

func TestInsertAndListReports(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	older := importSample(t, st, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := importSample(t, st, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	reports, err := st.ListReports(ctx)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != newer || reports[1].ID != older {
		t.Fatalf("expected newest first, got %s then %s", reports[0].ID, reports[1].ID)
	}
	if reports[0].Title != "Team chat 2024" || reports[0].Blocks != 4 {
		t.Fatalf("unexpected report info: %+v", reports[0])
	}

	info, err := st.GetReport(ctx, older)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if !info.ImportedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected import time: %v", info.ImportedAt)
	}
}

func TestResolveReport(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.ResolveReport(ctx, ""); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound on empty store, got %v", err)
	}
	importSample(t, st, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newest := importSample(t, st, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	got, err := st.ResolveReport(ctx, "")
	if err != nil {
		t.Fatalf("resolve newest: %v", err)
	}
	if got != newest {
		t.Fatalf("expected %s, got %s", newest, got)
	}
	if _, err := st.ResolveReport(ctx, "missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if _, err := st.GetReport(ctx, "missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestLoadDatabase(t *testing.T) {
	st := openTestStore(t)
	id := importSample(t, st, time.Now())

	db, err := st.LoadDatabase(context.Background(), id)
	if err != nil {
		t.Fatalf("load database: %v", err)
	}
	wantAuthors := []catalog.AuthorEntry{{Name: "alice"}, {Name: "bob"}, {Name: "deploybot", Bot: true}}
	if !reflect.DeepEqual(db.Authors, wantAuthors) {
		t.Fatalf("unexpected authors: %+v", db.Authors)
	}
	wantEmojis := []catalog.EmojiEntry{
		{Type: catalog.EmojiUnicode, Name: "fire", Symbol: "🔥"},
		{Type: catalog.EmojiCustom, Name: "pepe"},
	}
	if !reflect.DeepEqual(db.Emojis, wantEmojis) {
		t.Fatalf("unexpected emojis: %+v", db.Emojis)
	}
	if !reflect.DeepEqual(db.Words, []string{"hello", "help", "world"}) {
		t.Fatalf("unexpected words: %v", db.Words)
	}
	if len(db.Channels) != 2 || len(db.Domains) != 2 || len(db.Mentions) != 2 {
		t.Fatalf("unexpected table sizes: %+v", db)
	}
}

func TestLoadBlock(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id := importSample(t, st, time.Now())

	value, err := st.LoadBlock(ctx, id, model.BlockEmojis)
	if err != nil {
		t.Fatalf("load emojis: %v", err)
	}
	emojis, ok := value.(*model.EmojiStats)
	if !ok {
		t.Fatalf("expected *model.EmojiStats, got %T", value)
	}
	if !reflect.DeepEqual(emojis.InReactions.Count, model.CountMapping{0: 3, 1: 8}) {
		t.Fatalf("unexpected reaction counts: %v", emojis.InReactions.Count)
	}

	value, err = st.LoadBlock(ctx, id, model.BlockDomains)
	if err != nil {
		t.Fatalf("load missing block: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil for a block the report lacks, got %T", value)
	}
}

func TestReportsAreIsolated(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	first := importSample(t, st, time.Now())

	exp := &report.Export{
		Title:    "tiny",
		Database: catalog.Database{Authors: []catalog.AuthorEntry{{Name: "zed"}}},
		Blocks: report.ExportBlocks{
			Messages: &model.MessagesStats{Counts: model.MessageCounts{Authors: model.CountMapping{0: 1}}},
		},
	}
	second, err := st.InsertReport(ctx, exp, time.Now())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct report IDs")
	}

	value, err := st.LoadBlock(ctx, second, model.BlockMessages)
	if err != nil {
		t.Fatalf("load block: %v", err)
	}
	msgs := value.(*model.MessagesStats)
	if !reflect.DeepEqual(msgs.Counts.Authors, model.CountMapping{0: 1}) {
		t.Fatalf("counts leaked across reports: %v", msgs.Counts.Authors)
	}
	if len(msgs.Counts.Channels) != 0 {
		t.Fatalf("expected no channel counts, got %v", msgs.Counts.Channels)
	}
}
