// Package storage keeps a searchable SQLite index of the publication list.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gpmaia/homepage/internal/bibtex"
	_ "modernc.org/sqlite"
)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 50

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPubFields contains the field list for SELECT queries, in the order
// scanPublication expects.
const selectPubFields = `key, title, author, year, doi, abstract`

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

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Publications in bibliography order
		CREATE TABLE IF NOT EXISTS publications (
			position INTEGER PRIMARY KEY,
			key TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi) WHERE doi != '';

		-- Full-text search, rowid mirrors publications.position
		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			title,
			author,
			abstract
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild replaces the index contents with pubs and returns how many rows
// were written.
func (d *DB) Rebuild(pubs []bibtex.Publication) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return 0, fmt.Errorf("clearing publications table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM publications_fts"); err != nil {
		return 0, fmt.Errorf("clearing publications_fts table: %w", err)
	}

	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (position, key, title, author, year, doi, abstract)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO publications_fts (rowid, title, author, abstract)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, p := range pubs {
		pos := i + 1
		if _, err := pubStmt.Exec(pos, p.Key, p.Title, p.Author, p.Year, p.DOI, p.Abstract); err != nil {
			return 0, fmt.Errorf("inserting publication %d: %w", pos, err)
		}
		if _, err := ftsStmt.Exec(pos, p.Title, p.Author, p.Abstract); err != nil {
			return 0, fmt.Errorf("inserting fts for publication %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(pubs), nil
}

// Count returns the number of indexed publications.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

// List returns publications in bibliography order. A limit of 0 means all.
func (d *DB) List(limit int) ([]bibtex.Publication, error) {
	query := `SELECT ` + selectPubFields + ` FROM publications ORDER BY position`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// GetByDOI returns the publication with the given DOI, or nil.
func (d *DB) GetByDOI(doi string) (*bibtex.Publication, error) {
	row := d.db.QueryRow(`SELECT `+selectPubFields+` FROM publications WHERE doi = ? ORDER BY position LIMIT 1`, doi)
	p, err := scanPublication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Search performs a full-text search over title, author and abstract and
// returns matches in bibliography order.
func (d *DB) Search(query string, limit int) ([]bibtex.Publication, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := d.db.Query(`
		SELECT `+selectPubFields+`
		FROM publications
		WHERE position IN (SELECT rowid FROM publications_fts WHERE publications_fts MATCH ?)
		ORDER BY position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// prepareFTSQuery quotes queries containing FTS5 operators so they are
// matched literally.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(row rowScanner) (bibtex.Publication, error) {
	var p bibtex.Publication
	err := row.Scan(&p.Key, &p.Title, &p.Author, &p.Year, &p.DOI, &p.Abstract)
	return p, err
}

func scanPublications(rows *sql.Rows) ([]bibtex.Publication, error) {
	var pubs []bibtex.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}
