package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/search"
)

// SQLiteStore implements Store on a single-file SQLite database
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tracks (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	artist        TEXT NOT NULL,
	album         TEXT NOT NULL,
	filename      TEXT NOT NULL,
	path          TEXT NOT NULL,
	relative_path TEXT NOT NULL,
	duration      REAL NOT NULL DEFAULT 0,
	size          INTEGER NOT NULL DEFAULT 0,
	format        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tracks_title  ON tracks (title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks (artist COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_tracks_album  ON tracks (album COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_tracks_relpath ON tracks (relative_path);
`

// NewSQLiteStore opens (and if needed creates) the index database at path.
// Use ":memory:" for an ephemeral index.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	if path == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// DB exposes the underlying database for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// ReplaceLibrary implements Store.ReplaceLibrary
func (s *SQLiteStore) ReplaceLibrary(ctx context.Context, tracks []*library.Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracks`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (id, title, artist, album, filename, path, relative_path, duration, size, format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare index insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tracks {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Title, t.Artist, t.Album, t.Filename,
			t.Path, t.RelativePath, t.Duration, t.Size, t.Format,
		); err != nil {
			return fmt.Errorf("failed to index track %s: %w", t.RelativePath, err)
		}
	}

	return tx.Commit()
}

// GetTrack implements Store.GetTrack
func (s *SQLiteStore) GetTrack(ctx context.Context, id string) (*library.Track, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist, album, filename, path, relative_path, duration, size, format
		FROM tracks WHERE id = ?`, id)

	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read track: %w", err)
	}
	return track, nil
}

// ListTracks implements Store.ListTracks
func (s *SQLiteStore) ListTracks(ctx context.Context, limit, offset int) ([]*library.Track, int64, error) {
	total, err := s.CountTracks(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, artist, album, filename, path, relative_path, duration, size, format
		FROM tracks ORDER BY relative_path`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	tracks, err := collectTracks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tracks, total, nil
}

// CountTracks implements Store.CountTracks
func (s *SQLiteStore) CountTracks(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

// SearchTracks implements search.Index using LIKE matching. Free-text terms
// must each match title, artist, or album; filters narrow a single column.
func (s *SQLiteStore) SearchTracks(ctx context.Context, query *search.ParsedQuery, limit, offset int) ([]*library.Track, int64, error) {
	where, args := buildSearchWhere(query)

	countQuery := `SELECT COUNT(*) FROM tracks` + where
	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	listQuery := `
		SELECT id, title, artist, album, filename, path, relative_path, duration, size, format
		FROM tracks` + where + ` ORDER BY relative_path`
	listArgs := args
	if limit > 0 {
		listQuery += ` LIMIT ? OFFSET ?`
		listArgs = append(append([]interface{}{}, args...), limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tracks: %w", err)
	}
	defer rows.Close()

	tracks, err := collectTracks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tracks, total, nil
}

// buildSearchWhere renders the parsed query as a WHERE clause
func buildSearchWhere(query *search.ParsedQuery) (string, []interface{}) {
	if query == nil || query.IsEmpty() {
		return "", nil
	}

	var conds []string
	var args []interface{}

	for _, term := range query.Terms {
		conds = append(conds, `(title LIKE ? ESCAPE '\' COLLATE NOCASE OR artist LIKE ? ESCAPE '\' COLLATE NOCASE OR album LIKE ? ESCAPE '\' COLLATE NOCASE)`)
		pattern := likePattern(term)
		args = append(args, pattern, pattern, pattern)
	}

	for field, value := range query.Filters {
		switch field {
		case search.FilterFormat:
			conds = append(conds, `format = ?`)
			args = append(args, value)
		case search.FilterTitle, search.FilterArtist, search.FilterAlbum:
			conds = append(conds, fmt.Sprintf(`%s LIKE ? ESCAPE '\' COLLATE NOCASE`, field))
			args = append(args, likePattern(value))
		}
	}

	return ` WHERE ` + strings.Join(conds, " AND "), args
}

// likePattern escapes LIKE metacharacters and wraps the term for substring match
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// HealthCheck implements Store.HealthCheck
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.Close
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (*library.Track, error) {
	var t library.Track
	if err := row.Scan(
		&t.ID, &t.Title, &t.Artist, &t.Album, &t.Filename,
		&t.Path, &t.RelativePath, &t.Duration, &t.Size, &t.Format,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTracks(rows *sql.Rows) ([]*library.Track, error) {
	var tracks []*library.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track rows: %w", err)
	}
	return tracks, nil
}

var _ Store = (*SQLiteStore)(nil)
