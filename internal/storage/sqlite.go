package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/bibstyle/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRecordFields contains the standard field list for SELECT queries.
const selectRecordFields = `key, entry_type, fields_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			entry_type TEXT NOT NULL,
			doi TEXT,
			position INTEGER NOT NULL,
			fields_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			key,
			title,
			authors_text,
			journal,
			year
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL snapshot.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	recs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	return d.Rebuild(recs)
}

// Rebuild replaces the indexed records with recs, preserving their order.
func (d *DB) Rebuild(recs []reference.Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO records (key, entry_type, doi, position, fields_json)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO records_fts (key, title, authors_text, journal, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, rec := range recs {
		fieldsJSON, err := json.Marshal(rec.Fields)
		if err != nil {
			return 0, fmt.Errorf("marshaling fields for %s: %w", rec.Key, err)
		}

		_, err = recStmt.Exec(rec.Key, rec.Type, nullableStringValue(rec.Get("doi")), i, string(fieldsJSON))
		if err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", rec.Key, err)
		}

		venue := rec.Get("journal")
		if venue == "" {
			venue = rec.Get("booktitle")
		}
		_, err = ftsStmt.Exec(rec.Key, stripBraces(rec.Get("title")), formatAuthorsText(rec), stripBraces(venue), rec.Get("year"))
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(recs), nil
}

// formatAuthorsText creates a searchable text representation of authors and editors.
func formatAuthorsText(rec reference.Record) string {
	var names []string
	for _, role := range []string{"author", "editor"} {
		for _, p := range rec.Persons(role) {
			names = append(names, stripBraces(p.Format(false)))
		}
	}
	return strings.Join(names, ", ")
}

var braceStripper = strings.NewReplacer("{", "", "}", "")

func stripBraces(s string) string {
	return braceStripper.Replace(s)
}

// GetByKey retrieves a record by citation key. It returns nil, nil when
// no record has that key.
func (d *DB) GetByKey(key string) (*reference.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE key = ?`, key)
	return scanRecord(row)
}

// Search performs a full-text search over titles, authors, and venues.
func (d *DB) Search(query string, limit int) ([]reference.Record, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE key IN (SELECT key FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListAll returns all records in source order, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Record, error) {
	query := `SELECT ` + selectRecordFields + ` FROM records ORDER BY position`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*reference.Record, error) {
	var rec reference.Record
	var entryType, fieldsJSON string

	if err := s.Scan(&rec.Key, &entryType, &fieldsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.Type = entryType

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields JSON for %s: %w", rec.Key, err)
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]reference.Record, error) {
	var recs []reference.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery quotes each whitespace-separated term as an FTS5 string,
// so words such as NOT, OR and NEAR match literally. Terms are ANDed.
func prepareFTSQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = "\"" + strings.ReplaceAll(term, "\"", "\"\"") + "\""
	}
	return strings.Join(terms, " ")
}
