package ratecard

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Simplici0/stitchworks/internal/money"
)

// ErrNotFound is returned when a rate card does not exist.
var ErrNotFound = errors.New("rate card not found")

// ListItem is a rate card row with its totals derived at read time.
type ListItem struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"created_at"`
	StyleName string  `json:"style_name"`
	Summary   Summary `json:"summary"`
}

// Store persists rate cards. Operations are kept as the nested JSON document;
// totals are never stored.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Decode reads a rate card document, keeping numbers as json.Number so no precision is lost.
func Decode(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode rate card: %w", err)
	}
	return rec, nil
}

// Create inserts the record and returns its id.
func (s *Store) Create(ctx context.Context, rec Record) (int64, error) {
	operations, err := json.Marshal(rec.Operations)
	if err != nil {
		return 0, fmt.Errorf("encode rate card operations: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_cards (style_name, rate_per_piece, operations_json, notes)
		VALUES (?, ?, ?, ?)
	`, strings.TrimSpace(rec.StyleName), money.Coerce(rec.RatePerPiece).String(), string(operations), strings.TrimSpace(rec.Notes))
	if err != nil {
		return 0, fmt.Errorf("insert rate card: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read rate card id: %w", err)
	}
	return id, nil
}

// Get loads a rate card by id.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, style_name, rate_per_piece, operations_json, COALESCE(notes, '')
		FROM rate_cards
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query rate card %d: %w", id, err)
	}
	return rec, nil
}

// List returns rate cards newest first, filtered by style name or notes when query is set.
func (s *Store) List(ctx context.Context, query string) ([]ListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, style_name, rate_per_piece, operations_json, COALESCE(notes, '')
		FROM rate_cards
		WHERE (? = '' OR style_name LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query rate cards: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rate card: %w", err)
		}
		items = append(items, ListItem{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			StyleName: rec.StyleName,
			Summary:   Summarize(rec),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate cards: %w", err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec        Record
		rate       string
		operations string
	)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.StyleName, &rate, &operations, &rec.Notes); err != nil {
		return Record{}, err
	}
	rec.RatePerPiece = json.Number(rate)

	dec := json.NewDecoder(bytes.NewBufferString(operations))
	dec.UseNumber()
	if err := dec.Decode(&rec.Operations); err != nil {
		return Record{}, fmt.Errorf("decode rate card %d operations: %w", rec.ID, err)
	}
	return rec, nil
}
