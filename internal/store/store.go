// Package store handles SQLite persistence of imported reports.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/logger"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
	"github.com/kazin-kharizma/chat-analytics/internal/report"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so imported_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrReportNotFound is returned when a report ID is unknown.
var ErrReportNotFound = errors.New("report not found")

// Store wraps SQLite access for report data.
type Store struct {
	db *sql.DB
}

// ReportInfo summarizes a stored report.
type ReportInfo struct {
	ID         string
	Title      string
	ImportedAt time.Time
	Blocks     int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			imported_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS entities (
			report_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			extra TEXT NOT NULL DEFAULT '',
			flag INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (report_id, kind, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			report_id TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (report_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS counts (
			report_id TEXT NOT NULL,
			block TEXT NOT NULL,
			series TEXT NOT NULL,
			idx INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (report_id, block, series, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_imported_at ON reports(imported_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type entityRow struct {
	kind  string
	idx   int
	name  string
	extra string
	flag  bool
}

func entityRows(db *catalog.Database) []entityRow {
	var rows []entityRow
	for i, a := range db.Authors {
		rows = append(rows, entityRow{kind: catalog.Author.String(), idx: i, name: a.Name, flag: a.Bot})
	}
	for i, c := range db.Channels {
		rows = append(rows, entityRow{kind: catalog.Channel.String(), idx: i, name: c.Name})
	}
	for i, w := range db.Words {
		rows = append(rows, entityRow{kind: catalog.Word.String(), idx: i, name: w})
	}
	for i, e := range db.Emojis {
		rows = append(rows, entityRow{kind: catalog.Emoji.String(), idx: i, name: e.Name, extra: e.Symbol, flag: e.Type == catalog.EmojiCustom})
	}
	for i, d := range db.Domains {
		rows = append(rows, entityRow{kind: catalog.Domain.String(), idx: i, name: d})
	}
	for i, m := range db.Mentions {
		rows = append(rows, entityRow{kind: catalog.Mention.String(), idx: i, name: m})
	}
	return rows
}

// InsertReport stores an export under a new report ID and returns the ID.
func (s *Store) InsertReport(ctx context.Context, exp *report.Export, importedAt time.Time) (id string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id = uuid.New().String()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, title, imported_at) VALUES (?, ?, ?)`,
		id, exp.Title, importedAt.UTC().Format(timeLayout),
	); err != nil {
		return "", err
	}

	entStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (report_id, kind, idx, name, extra, flag) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := entStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, row := range entityRows(&exp.Database) {
		if _, err = entStmt.ExecContext(ctx, id, row.kind, row.idx, row.name, row.extra, row.flag); err != nil {
			return "", err
		}
	}

	countStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO counts (report_id, block, series, idx, count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := countStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for name, value := range exp.Values() {
		series, serr := report.Series(value)
		if serr != nil {
			err = serr
			return "", err
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO blocks (report_id, name) VALUES (?, ?)`, id, name); err != nil {
			return "", err
		}
		for key, counts := range series {
			for idx, count := range counts {
				if _, err = countStmt.ExecContext(ctx, id, name, key, idx, count); err != nil {
					return "", err
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	logger.Info("imported report %s (%q)", id, exp.Title)
	return id, nil
}

// ListReports returns stored reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]ReportInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.title, r.imported_at,
		(SELECT COUNT(*) FROM blocks b WHERE b.report_id = r.id)
		FROM reports r
		ORDER BY r.imported_at DESC, r.id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var reports []ReportInfo
	for rows.Next() {
		var info ReportInfo
		var importedAt string
		if err := rows.Scan(&info.ID, &info.Title, &importedAt, &info.Blocks); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, importedAt)
		if err != nil {
			return nil, err
		}
		info.ImportedAt = parsed
		reports = append(reports, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetReport returns the summary of one report.
func (s *Store) GetReport(ctx context.Context, id string) (ReportInfo, error) {
	var info ReportInfo
	var importedAt string
	err := s.db.QueryRowContext(ctx, `SELECT r.id, r.title, r.imported_at,
		(SELECT COUNT(*) FROM blocks b WHERE b.report_id = r.id)
		FROM reports r WHERE r.id = ?`, id).Scan(&info.ID, &info.Title, &importedAt, &info.Blocks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReportInfo{}, ErrReportNotFound
		}
		return ReportInfo{}, err
	}
	parsed, err := time.Parse(timeLayout, importedAt)
	if err != nil {
		return ReportInfo{}, err
	}
	info.ImportedAt = parsed
	return info, nil
}

// ResolveReport returns id when it exists, or the newest report when id is empty.
func (s *Store) ResolveReport(ctx context.Context, id string) (string, error) {
	var row *sql.Row
	if id == "" {
		row = s.db.QueryRowContext(ctx, `SELECT id FROM reports ORDER BY imported_at DESC, id ASC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx, `SELECT id FROM reports WHERE id = ?`, id)
	}
	var found string
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReportNotFound
		}
		return "", err
	}
	return found, nil
}

// LoadDatabase reads the entity tables of a report.
func (s *Store) LoadDatabase(ctx context.Context, reportID string) (*catalog.Database, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, idx, name, extra, flag FROM entities WHERE report_id = ? ORDER BY kind, idx`, reportID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	db := &catalog.Database{}
	for rows.Next() {
		var r entityRow
		if err := rows.Scan(&r.kind, &r.idx, &r.name, &r.extra, &r.flag); err != nil {
			return nil, err
		}
		if err := placeEntity(db, r); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

// placeEntity puts r at its index, growing the table as needed.
func placeEntity(db *catalog.Database, r entityRow) error {
	if r.idx < 0 {
		return fmt.Errorf("negative %s index %d", r.kind, r.idx)
	}
	switch r.kind {
	case catalog.Author.String():
		db.Authors = grow(db.Authors, r.idx)
		db.Authors[r.idx] = catalog.AuthorEntry{Name: r.name, Bot: r.flag}
	case catalog.Channel.String():
		db.Channels = grow(db.Channels, r.idx)
		db.Channels[r.idx] = catalog.ChannelEntry{Name: r.name}
	case catalog.Word.String():
		db.Words = grow(db.Words, r.idx)
		db.Words[r.idx] = r.name
	case catalog.Emoji.String():
		db.Emojis = grow(db.Emojis, r.idx)
		typ := catalog.EmojiUnicode
		if r.flag {
			typ = catalog.EmojiCustom
		}
		db.Emojis[r.idx] = catalog.EmojiEntry{Type: typ, Name: r.name, Symbol: r.extra}
	case catalog.Domain.String():
		db.Domains = grow(db.Domains, r.idx)
		db.Domains[r.idx] = r.name
	case catalog.Mention.String():
		db.Mentions = grow(db.Mentions, r.idx)
		db.Mentions[r.idx] = r.name
	default:
		return fmt.Errorf("unknown entity kind %q", r.kind)
	}
	return nil
}

func grow[T any](s []T, idx int) []T {
	for len(s) <= idx {
		var zero T
		s = append(s, zero)
	}
	return s
}

// LoadBlock reads one aggregate block. It returns nil, nil when the report
// does not carry that block.
func (s *Store) LoadBlock(ctx context.Context, reportID, name string) (any, error) {
	var present int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blocks WHERE report_id = ? AND name = ?`, reportID, name,
	).Scan(&present); err != nil {
		return nil, err
	}
	if present == 0 {
		logger.Warn("report %s has no %s block", reportID, name)
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT series, idx, count FROM counts WHERE report_id = ? AND block = ?`, reportID, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	series := map[string]model.CountMapping{}
	for rows.Next() {
		var key string
		var idx, count int
		if err := rows.Scan(&key, &idx, &count); err != nil {
			return nil, err
		}
		if series[key] == nil {
			series[key] = model.CountMapping{}
		}
		series[key][idx] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report.FromSeries(name, series)
}
