// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"docsumm/internal/domain/entity"
	"docsumm/internal/repository"
)

type DocumentRepo struct{ db repository.DBTX }

func NewDocumentRepo(db repository.DBTX) repository.DocumentRepository {
	return &DocumentRepo{db: db}
}

const documentColumns = `id, owner_id, filename, file_type, file_size, extracted_text, word_count,
       summary, summary_method, summary_model, compression_ratio, reading_time, keywords,
       summary_status, summary_error, created_at, updated_at`

// listColumns leaves out extracted_text, which list views never show.
const listColumns = `id, owner_id, filename, file_type, file_size, '' AS extracted_text, word_count,
       summary, summary_method, summary_model, compression_ratio, reading_time, keywords,
       summary_status, summary_error, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var keywordsJSON []byte
	if err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Filename, &doc.FileType, &doc.FileSize, &doc.ExtractedText,
		&doc.WordCount, &doc.Summary, &doc.SummaryMethod, &doc.SummaryModel,
		&doc.CompressionRatio, &doc.ReadingTime, &keywordsJSON,
		&doc.SummaryStatus, &doc.SummaryError, &doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &doc.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return &doc, nil
}

func marshalKeywords(keywords []string) ([]byte, error) {
	if keywords == nil {
		keywords = []string{}
	}
	return json.Marshal(keywords)
}

func (repo *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	const query = `
INSERT INTO documents
       (owner_id, filename, file_type, file_size, extracted_text, word_count, summary_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		doc.OwnerID, doc.Filename, doc.FileType, doc.FileSize,
		doc.ExtractedText, doc.WordCount, string(doc.SummaryStatus),
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DocumentRepo) Get(ctx context.Context, id int64) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE id = $1`
	doc, err := scanDocument(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return doc, nil
}

// buildWhere returns the WHERE clause for filter using $N placeholders.
func buildWhere(filter repository.DocumentFilter) (string, []interface{}) {
	conditions := []string{"owner_id = $1"}
	args := []interface{}{filter.OwnerID}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("filename ILIKE $%d", len(args)))
	}
	if filter.FileType != "" {
		args = append(args, filter.FileType)
		conditions = append(conditions, fmt.Sprintf("file_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("summary_status = $%d", len(args)))
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (repo *DocumentRepo) ListByOwner(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + listColumns + `
FROM documents
` + where + `
ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf("\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, max(filter.Limit, 10))
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (repo *DocumentRepo) CountByOwner(ctx context.Context, filter repository.DocumentFilter) (int64, error) {
	where, args := buildWhere(filter)
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByOwner: %w", err)
	}
	return count, nil
}

func (repo *DocumentRepo) StatsByOwner(ctx context.Context, ownerID string) (*repository.DocumentStats, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE summary_status = 'pending'),
       COUNT(*) FILTER (WHERE summary_status = 'processing'),
       COUNT(*) FILTER (WHERE summary_status = 'completed'),
       COUNT(*) FILTER (WHERE summary_status = 'failed'),
       COALESCE(SUM(word_count), 0),
       COALESCE(SUM(reading_time), 0),
       COALESCE(AVG(compression_ratio) FILTER (WHERE summary_status = 'completed'), 0)
FROM documents
WHERE owner_id = $1`
	var st repository.DocumentStats
	err := repo.db.QueryRowContext(ctx, query, ownerID).Scan(
		&st.Total, &st.Pending, &st.Processing, &st.Completed, &st.Failed,
		&st.TotalWords, &st.TotalReadingTime, &st.AverageCompressionRatio,
	)
	if err != nil {
		return nil, fmt.Errorf("StatsByOwner: %w", err)
	}
	return &st, nil
}

func (repo *DocumentRepo) ListByStatus(ctx context.Context, statuses []entity.SummaryStatus, limit int) ([]*entity.Document, error) {
	if len(statuses) == 0 {
		return []*entity.Document{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]interface{}, 0, len(statuses)+1)
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, string(s))
	}
	args = append(args, limit)

	query := `SELECT ` + documentColumns + `
FROM documents
WHERE summary_status IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY updated_at ASC, id ASC
LIMIT $` + fmt.Sprint(len(args))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByStatus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByStatus: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (repo *DocumentRepo) UpdateSummary(ctx context.Context, doc *entity.Document) error {
	keywords, err := marshalKeywords(doc.Keywords)
	if err != nil {
		return fmt.Errorf("UpdateSummary: %w", err)
	}

	const query = `
UPDATE documents SET
       summary           = $1,
       summary_method    = $2,
       summary_model     = $3,
       compression_ratio = $4,
       reading_time      = $5,
       word_count        = $6,
       keywords          = $7,
       summary_status    = 'completed',
       summary_error     = '',
       updated_at        = now()
WHERE id = $8`
	res, err := repo.db.ExecContext(ctx, query,
		doc.Summary, doc.SummaryMethod, doc.SummaryModel, doc.CompressionRatio,
		doc.ReadingTime, doc.WordCount, string(keywords), doc.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateSummary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateSummary: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *DocumentRepo) UpdateStatus(ctx context.Context, id int64, status entity.SummaryStatus, summaryErr string) error {
	const query = `
UPDATE documents SET
       summary_status = $1,
       summary_error  = $2,
       updated_at     = now()
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, string(status), summaryErr, id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateStatus: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *DocumentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
