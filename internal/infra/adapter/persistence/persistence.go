// Package persistence picks the document repository matching the database dialect.
package persistence

import (
	"fmt"

	"docsumm/internal/infra/adapter/persistence/postgres"
	"docsumm/internal/infra/adapter/persistence/sqlite"
	"docsumm/internal/infra/db"
	"docsumm/internal/repository"
)

// NewDocumentRepo returns the repository for dialect on top of conn, which is
// usually a circuit-breaker wrapper around the pool.
func NewDocumentRepo(dialect db.Dialect, conn repository.DBTX) (repository.DocumentRepository, error) {
	switch dialect {
	case db.DialectPostgres:
		return postgres.NewDocumentRepo(conn), nil
	case db.DialectSQLite:
		return sqlite.NewDocumentRepo(conn), nil
	default:
		return nil, fmt.Errorf("no document repository for dialect %q", dialect)
	}
}
