package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend implements Backend using a SQLite database file.
type SQLiteBackend struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for the SQLite backend
type SQLiteConfig struct {
	DBPath string
}

// NewSQLiteBackend creates a new SQLite storage backend
func NewSQLiteBackend(config SQLiteConfig) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// SaveMetadata inserts one attribute metadata document.
func (s *SQLiteBackend) SaveMetadata(doc []byte) error {
	_, err := s.db.Exec("INSERT INTO attribute_metadata (doc) VALUES (?)", string(doc))
	if err != nil {
		return fmt.Errorf("failed to insert attribute metadata: %w", err)
	}
	return nil
}

// LoadMetadata returns the most recently inserted metadata document, or nil
// when the table is empty.
func (s *SQLiteBackend) LoadMetadata() ([]byte, error) {
	var doc string
	err := s.db.QueryRow("SELECT doc FROM attribute_metadata ORDER BY id DESC LIMIT 1").Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attribute metadata: %w", err)
	}
	return []byte(doc), nil
}

// InsertBatch records one processing batch.
func (s *SQLiteBackend) InsertBatch(id string, createdAt time.Time) error {
	_, err := s.db.Exec("INSERT INTO batches (id, created_at) VALUES (?, ?)", id, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

// InsertValues records the values row for a batch, adding any attribute
// columns the batch_values table does not have yet. Columns are added rather
// than declared up front because the attribute set is runtime configuration.
func (s *SQLiteBackend) InsertValues(batchID string, values map[string]any) error {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	if err := s.ensureValueColumns(columns, values); err != nil {
		return err
	}

	names := make([]string, 0, len(columns)+1)
	placeholders := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)

	names = append(names, "batch_id")
	placeholders = append(placeholders, "?")
	args = append(args, batchID)

	for _, column := range columns {
		names = append(names, quoteIdent(column))
		placeholders = append(placeholders, "?")
		args = append(args, values[column])
	}

	query := fmt.Sprintf("INSERT INTO batch_values (%s) VALUES (%s)",
		strings.Join(names, ", "), strings.Join(placeholders, ", "))

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert batch values: %w", err)
	}
	return nil
}

// Close shuts down the SQLite backend.
func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ensureValueColumns adds missing attribute columns to batch_values. Numeric
// values get REAL columns, JSON-encoded complex values get TEXT.
func (s *SQLiteBackend) ensureValueColumns(columns []string, values map[string]any) error {
	existing, err := s.valueColumns()
	if err != nil {
		return err
	}

	for _, column := range columns {
		if existing[column] {
			continue
		}

		columnType := "REAL"
		if _, isText := values[column].(string); isText {
			columnType = "TEXT"
		}

		query := fmt.Sprintf("ALTER TABLE batch_values ADD COLUMN %s %s", quoteIdent(column), columnType)
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to add column %q: %w", column, err)
		}
	}
	return nil
}

// valueColumns returns the current column set of batch_values.
func (s *SQLiteBackend) valueColumns() (map[string]bool, error) {
	rows, err := s.db.Query("PRAGMA table_info(batch_values)")
	if err != nil {
		return nil, fmt.Errorf("failed to query table info: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			columnType string
			notNull    int
			dflt       sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		columns[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return columns, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
