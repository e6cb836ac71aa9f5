package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aws-tutor/internal/models"
)

const defaultSource = "AWS Documentation"

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

// Upsert stores a scraped page, replacing any earlier copy of the same URL.
func (r *DocumentRepo) Upsert(ctx context.Context, d *models.Document) error {
	source := d.Source
	if source == "" {
		source = defaultSource
	}
	var scrapedAt *time.Time
	if !d.Timestamp.IsZero() {
		scrapedAt = &d.Timestamp
	}

	query := `INSERT INTO documents (url, title, section, content, source, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			section = EXCLUDED.section,
			content = EXCLUDED.content,
			source = EXCLUDED.source,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, d.URL, d.Title, d.Section, d.Content, source, scrapedAt)
	return err
}

// Search ranks documents against a free-text query using PostgreSQL
// full-text search.
func (r *DocumentRepo) Search(ctx context.Context, query string, limit int) ([]models.Document, error) {
	sql := `SELECT title, content, url, section, source, scraped_at
		FROM documents, websearch_to_tsquery('english', $1) AS q
		WHERE search_vector @@ q
		ORDER BY ts_rank(search_vector, q) DESC, updated_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		var scrapedAt *time.Time
		if err := rows.Scan(&d.Title, &d.Content, &d.URL, &d.Section, &d.Source, &scrapedAt); err != nil {
			return nil, err
		}
		if scrapedAt != nil {
			d.Timestamp = *scrapedAt
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}
