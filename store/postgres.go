package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/NikshepShetty/vaa-genai-technical-test/content"
	"github.com/NikshepShetty/vaa-genai-technical-test/embeddings"
)

// PostgresIndex stores chunks in a help_chunks table with a pgvector
// embedding column in cosine space.
type PostgresIndex struct {
	pool     *pgxpool.Pool
	embedder embeddings.Embedder
}

func NewPostgresIndex(pool *pgxpool.Pool, embedder embeddings.Embedder) *PostgresIndex {
	return &PostgresIndex{pool: pool, embedder: embedder}
}

func (s *PostgresIndex) Upsert(ctx context.Context, chunks []content.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if s.embedder == nil {
		return fmt.Errorf("embedder is not configured")
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	for i, chunk := range chunks {
		_, err := s.pool.Exec(ctx, `
            INSERT INTO help_chunks (id, title, category, content, embedding)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE SET
                title = EXCLUDED.title,
                category = EXCLUDED.category,
                content = EXCLUDED.content,
                embedding = EXCLUDED.embedding,
                updated_at = NOW()
        `, chunk.ID, chunk.Title, chunk.Category, chunk.Text, pgvector.NewVector(vectors[i]))
		if err != nil {
			return fmt.Errorf("%w: upsert chunk %s: %v", ErrUnavailable, chunk.ID, err)
		}
	}

	return nil
}

func (s *PostgresIndex) Search(ctx context.Context, text string, limit int, category string) ([]Hit, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}

	limit = ClampLimit(limit)

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	query := pgvector.NewVector(vectors[0])

	// <=> is cosine distance, so similarity is 1 - distance.
	sql := `
        SELECT id, title, category, content, (embedding <=> $1) AS distance
        FROM help_chunks
        ORDER BY embedding <=> $1
        LIMIT $2
    `
	args := []any{query, limit}
	if category != "" {
		sql = `
            SELECT id, title, category, content, (embedding <=> $1) AS distance
            FROM help_chunks
            WHERE category = $3
            ORDER BY embedding <=> $1
            LIMIT $2
        `
		args = append(args, category)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query similar chunks: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var hit Hit
		var distance float64
		if scanErr := rows.Scan(&hit.ID, &hit.Title, &hit.Category, &hit.Text, &distance); scanErr != nil {
			return nil, fmt.Errorf("%w: scan similar chunk: %v", ErrUnavailable, scanErr)
		}
		hit.Similarity = 1 - distance
		hits = append(hits, hit)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate similar chunks: %v", ErrUnavailable, rows.Err())
	}

	return hits, nil
}

func (s *PostgresIndex) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT category FROM help_chunks ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("%w: query categories: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if scanErr := rows.Scan(&category); scanErr != nil {
			return nil, fmt.Errorf("%w: scan category: %v", ErrUnavailable, scanErr)
		}
		categories = append(categories, category)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", ErrUnavailable, rows.Err())
	}

	return categories, nil
}

func (s *PostgresIndex) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM help_chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count chunks: %v", ErrUnavailable, err)
	}
	return count, nil
}

var _ Index = (*PostgresIndex)(nil)
