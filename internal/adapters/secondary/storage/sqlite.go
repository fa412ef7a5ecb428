package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository keeps deck history in a SQLite file
type SQLiteRepository struct {
	conn *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer
	conn.SetMaxOpenConns(1)

	repo := &SQLiteRepository{conn: conn}
	if err := repo.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repo, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}

func (r *SQLiteRepository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			filename TEXT NOT NULL,
			slide_count INTEGER NOT NULL,
			slides_json TEXT NOT NULL DEFAULT '[]',
			style_json TEXT NOT NULL DEFAULT '{}',
			data BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decks_created ON decks(created_at)`,
	}
	for _, m := range migrations {
		if _, err := r.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save stores a deck, replacing any deck with the same ID
func (r *SQLiteRepository) Save(ctx context.Context, deck *entities.Deck) error {
	if deck == nil || deck.ID == "" {
		return errors.New("deck must have an ID")
	}
	slides, err := json.Marshal(deck.Slides)
	if err != nil {
		return fmt.Errorf("encode slides: %w", err)
	}
	style, err := json.Marshal(deck.Style)
	if err != nil {
		return fmt.Errorf("encode style: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, `INSERT OR REPLACE INTO decks
		(id, topic, filename, slide_count, slides_json, style_json, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		deck.ID, deck.Topic, deck.Filename, deck.SlideCount,
		string(slides), string(style), deck.Data,
		deck.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save deck %s: %w", deck.ID, err)
	}
	return nil
}

// Get returns a deck with its payload
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*entities.Deck, error) {
	row := r.conn.QueryRowContext(ctx, `SELECT id, topic, filename, slide_count, slides_json, style_json, data, created_at
		FROM decks WHERE id = ?`, id)

	var (
		deck          entities.Deck
		slides, style string
		created       string
	)
	err := row.Scan(&deck.ID, &deck.Topic, &deck.Filename, &deck.SlideCount, &slides, &style, &deck.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrDeckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deck %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(slides), &deck.Slides); err != nil {
		return nil, fmt.Errorf("decode slides of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(style), &deck.Style); err != nil {
		return nil, fmt.Errorf("decode style of %s: %w", id, err)
	}
	if deck.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("decode created_at of %s: %w", id, err)
	}
	return &deck, nil
}

// List returns the most recent decks first
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]entities.DeckSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.conn.QueryContext(ctx, `SELECT id, topic, filename, slide_count, length(data), created_at
		FROM decks ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entities.DeckSummary
	for rows.Next() {
		var s entities.DeckSummary
		var created string
		if err := rows.Scan(&s.ID, &s.Topic, &s.Filename, &s.SlideCount, &s.Size, &created); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		if s.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("decode created_at of %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a deck
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	if n == 0 {
		return entities.ErrDeckNotFound
	}
	return nil
}

var _ ports.DeckRepository = (*SQLiteRepository)(nil)
