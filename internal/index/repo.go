package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/evalview/internal/models"
)

// OutputRow represents a row in the outputs table.
type OutputRow struct {
	Name               string
	Ordinal            int
	Description        string
	Checksum           string
	CharacterCount     int
	CodeCharacterCount int
	CodePercentage     float64
	CodeBlocks         int
	UpdatedAt          time.Time
}

// Record returns the metrics of the row as an extractor record.
func (o OutputRow) Record() models.EvaluationRecord {
	return models.EvaluationRecord{
		Identifier:         models.OutputMetadata{Name: o.Name}.Identifier(),
		Description:        o.Description,
		CharacterCount:     o.CharacterCount,
		CodeCharacterCount: o.CodeCharacterCount,
		CodePercentage:     o.CodePercentage,
		CodeBlockCount:     o.CodeBlocks,
	}
}

// SearchResult represents one search hit.
type SearchResult struct {
	Name        string
	Description string
	Snippet     string
}

// Output listings follow the storage order: numbered names first.
const outputOrder = `ORDER BY (ordinal < 0), ordinal, name`

const outputColumns = `name, ordinal, description, checksum, character_count,
	code_character_count, code_percentage, code_blocks, updated_at`

// UpsertOutput inserts or replaces an output and its FTS entry within a transaction.
func (db *DB) UpsertOutput(o OutputRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO outputs (name, ordinal, description, checksum, character_count,
			code_character_count, code_percentage, code_blocks, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			ordinal              = excluded.ordinal,
			description          = excluded.description,
			checksum             = excluded.checksum,
			character_count      = excluded.character_count,
			code_character_count = excluded.code_character_count,
			code_percentage      = excluded.code_percentage,
			code_blocks          = excluded.code_blocks,
			body                 = excluded.body,
			updated_at           = excluded.updated_at
	`, o.Name, o.Ordinal, o.Description, o.Checksum, o.CharacterCount,
		o.CodeCharacterCount, o.CodePercentage, o.CodeBlocks, body, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert output: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, o.Name, o.Description, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteOutput removes an output and its FTS entry.
func (db *DB) DeleteOutput(name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, name)
	if _, err := tx.Exec(`DELETE FROM outputs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("index: delete output: %w", err)
	}

	return tx.Commit()
}

// GetChecksum returns the stored checksum for an output, or "" when the name is
// not indexed.
func (db *DB) GetChecksum(name string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM outputs WHERE name = ?`, name).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// ListOutputs returns every indexed output in display order.
func (db *DB) ListOutputs() ([]OutputRow, error) {
	rows, err := db.conn.Query(`SELECT ` + outputColumns + ` FROM outputs ` + outputOrder)
	if err != nil {
		return nil, fmt.Errorf("index: list outputs: %w", err)
	}
	defer rows.Close()

	out := []OutputRow{}
	for rows.Next() {
		o, err := scanOutput(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// AllChecksums returns name → checksum for every indexed output.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, checksum FROM outputs`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOutput(s scanner) (*OutputRow, error) {
	var o OutputRow
	err := s.Scan(&o.Name, &o.Ordinal, &o.Description, &o.Checksum, &o.CharacterCount,
		&o.CodeCharacterCount, &o.CodePercentage, &o.CodeBlocks, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
