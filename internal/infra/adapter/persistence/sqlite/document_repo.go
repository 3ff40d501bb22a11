// Package sqlite provides SQLite implementations of repository interfaces for
// single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docsumm/internal/domain/entity"
	"docsumm/internal/repository"
)

type DocumentRepo struct{ db repository.DBTX }

func NewDocumentRepo(db repository.DBTX) repository.DocumentRepository {
	return &DocumentRepo{db: db}
}

const selectDocument = `
SELECT id, owner_id, filename, file_type, file_size, extracted_text, word_count,
       summary, summary_method, summary_model, compression_ratio, reading_time, keywords,
       summary_status, summary_error, created_at, updated_at
FROM documents`

const selectDocumentSummary = `
SELECT id, owner_id, filename, file_type, file_size, '', word_count,
       summary, summary_method, summary_model, compression_ratio, reading_time, keywords,
       summary_status, summary_error, created_at, updated_at
FROM documents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var status, keywordsJSON string
	if err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Filename, &doc.FileType, &doc.FileSize, &doc.ExtractedText,
		&doc.WordCount, &doc.Summary, &doc.SummaryMethod, &doc.SummaryModel,
		&doc.CompressionRatio, &doc.ReadingTime, &keywordsJSON,
		&status, &doc.SummaryError, &doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	doc.SummaryStatus = entity.SummaryStatus(status)
	if keywordsJSON != "" {
		if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return &doc, nil
}

func (repo *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	const query = `
INSERT INTO documents
       (owner_id, filename, file_type, file_size, extracted_text, word_count,
        summary_status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	res, err := repo.db.ExecContext(ctx, query,
		doc.OwnerID, doc.Filename, doc.FileType, doc.FileSize,
		doc.ExtractedText, doc.WordCount, string(doc.SummaryStatus), now, now,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

func (repo *DocumentRepo) Get(ctx context.Context, id int64) (*entity.Document, error) {
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, selectDocument+"\nWHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return doc, nil
}

func buildWhere(filter repository.DocumentFilter) (string, []interface{}) {
	conditions := []string{"owner_id = ?"}
	args := []interface{}{filter.OwnerID}

	if filter.Search != "" {
		conditions = append(conditions, `filename LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	if filter.FileType != "" {
		conditions = append(conditions, "file_type = ?")
		args = append(args, filter.FileType)
	}
	if filter.Status != "" {
		conditions = append(conditions, "summary_status = ?")
		args = append(args, string(filter.Status))
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (repo *DocumentRepo) ListByOwner(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	where, args := buildWhere(filter)
	query := selectDocumentSummary + where + "\nORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += "\nLIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: QueryContext: %w", err)
	}
	return collect(rows, "ListByOwner")
}

func (repo *DocumentRepo) CountByOwner(ctx context.Context, filter repository.DocumentFilter) (int64, error) {
	where, args := buildWhere(filter)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByOwner: QueryRowContext: %w", err)
	}
	return count, nil
}

func (repo *DocumentRepo) StatsByOwner(ctx context.Context, ownerID string) (*repository.DocumentStats, error) {
	const query = `
SELECT COUNT(*),
       COALESCE(SUM(summary_status = 'pending'), 0),
       COALESCE(SUM(summary_status = 'processing'), 0),
       COALESCE(SUM(summary_status = 'completed'), 0),
       COALESCE(SUM(summary_status = 'failed'), 0),
       COALESCE(SUM(word_count), 0),
       COALESCE(SUM(reading_time), 0),
       COALESCE(AVG(CASE WHEN summary_status = 'completed' THEN compression_ratio END), 0.0)
FROM documents
WHERE owner_id = ?`
	var st repository.DocumentStats
	err := repo.db.QueryRowContext(ctx, query, ownerID).Scan(
		&st.Total, &st.Pending, &st.Processing, &st.Completed, &st.Failed,
		&st.TotalWords, &st.TotalReadingTime, &st.AverageCompressionRatio,
	)
	if err != nil {
		return nil, fmt.Errorf("StatsByOwner: QueryRowContext: %w", err)
	}
	return &st, nil
}

func (repo *DocumentRepo) ListByStatus(ctx context.Context, statuses []entity.SummaryStatus, limit int) ([]*entity.Document, error) {
	if len(statuses) == 0 {
		return []*entity.Document{}, nil
	}

	args := make([]interface{}, 0, len(statuses)+1)
	for _, s := range statuses {
		args = append(args, string(s))
	}
	args = append(args, limit)

	query := selectDocument + `
WHERE summary_status IN (?` + strings.Repeat(", ?", len(statuses)-1) + `)
ORDER BY updated_at ASC, id ASC
LIMIT ?`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByStatus: QueryContext: %w", err)
	}
	return collect(rows, "ListByStatus")
}

func collect(rows *sql.Rows, op string) ([]*entity.Document, error) {
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, 10)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return docs, nil
}

func (repo *DocumentRepo) UpdateSummary(ctx context.Context, doc *entity.Document) error {
	keywords := doc.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("UpdateSummary: %w", err)
	}

	const query = `
UPDATE documents SET
       summary           = ?,
       summary_method    = ?,
       summary_model     = ?,
       compression_ratio = ?,
       reading_time      = ?,
       word_count        = ?,
       keywords          = ?,
       summary_status    = 'completed',
       summary_error     = '',
       updated_at        = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		doc.Summary, doc.SummaryMethod, doc.SummaryModel, doc.CompressionRatio,
		doc.ReadingTime, doc.WordCount, string(keywordsJSON), time.Now().UTC(), doc.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateSummary: ExecContext: %w", err)
	}
	return requireAffected(res, "UpdateSummary")
}

func (repo *DocumentRepo) UpdateStatus(ctx context.Context, id int64, status entity.SummaryStatus, summaryErr string) error {
	const query = `
UPDATE documents SET
       summary_status = ?,
       summary_error  = ?,
       updated_at     = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, string(status), summaryErr, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: ExecContext: %w", err)
	}
	return requireAffected(res, "UpdateStatus")
}

func (repo *DocumentRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	return requireAffected(res, "Delete")
}

func requireAffected(res sql.Result, op string) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
