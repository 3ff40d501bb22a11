package db

import (
	"database/sql"
	"fmt"
)

const postgresDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
    id                BIGSERIAL PRIMARY KEY,
    owner_id          TEXT NOT NULL,
    filename          TEXT NOT NULL,
    file_type         VARCHAR(16) NOT NULL,
    file_size         BIGINT NOT NULL DEFAULT 0,
    extracted_text    TEXT NOT NULL,
    word_count        INTEGER NOT NULL DEFAULT 0,
    summary           TEXT NOT NULL DEFAULT '',
    summary_method    VARCHAR(32) NOT NULL DEFAULT '',
    summary_model     VARCHAR(128) NOT NULL DEFAULT '',
    compression_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
    reading_time      INTEGER NOT NULL DEFAULT 0,
    keywords          JSONB NOT NULL DEFAULT '[]',
    summary_status    VARCHAR(16) NOT NULL DEFAULT 'pending'
                      CHECK (summary_status IN ('pending', 'processing', 'completed', 'failed')),
    summary_error     TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const sqliteDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id          TEXT NOT NULL,
    filename          TEXT NOT NULL,
    file_type         TEXT NOT NULL,
    file_size         INTEGER NOT NULL DEFAULT 0,
    extracted_text    TEXT NOT NULL,
    word_count        INTEGER NOT NULL DEFAULT 0,
    summary           TEXT NOT NULL DEFAULT '',
    summary_method    TEXT NOT NULL DEFAULT '',
    summary_model     TEXT NOT NULL DEFAULT '',
    compression_ratio REAL NOT NULL DEFAULT 0,
    reading_time      INTEGER NOT NULL DEFAULT 0,
    keywords          TEXT NOT NULL DEFAULT '[]',
    summary_status    TEXT NOT NULL DEFAULT 'pending'
                      CHECK (summary_status IN ('pending', 'processing', 'completed', 'failed')),
    summary_error     TEXT NOT NULL DEFAULT '',
    created_at        DATETIME NOT NULL,
    updated_at        DATETIME NOT NULL
)`

// documentIndexes serve the owner listing (newest first) and the worker's status scan.
var documentIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_documents_owner_created ON documents(owner_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_status_updated ON documents(summary_status, updated_at)`,
}

// MigrateUp creates the schema for dialect. It is idempotent.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	table := postgresDocumentsTable
	switch dialect {
	case DialectPostgres:
	case DialectSQLite:
		table = sqliteDocumentsTable
	default:
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}

	if _, err := db.Exec(table); err != nil {
		return err
	}
	for _, idx := range documentIndexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops the schema. All documents are lost.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_documents_status_updated`,
		`DROP INDEX IF EXISTS idx_documents_owner_created`,
		`DROP TABLE IF EXISTS documents`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
