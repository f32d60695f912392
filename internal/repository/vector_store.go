package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/documind/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// VectorStoreRepository handles persistence of chunk embeddings.
type VectorStoreRepository struct {
	db dbtx
}

func NewVectorStoreRepository(pool *pgxpool.Pool) *VectorStoreRepository {
	return &VectorStoreRepository{db: pool}
}

func NewVectorStoreRepositoryWithTx(tx dbtx) *VectorStoreRepository {
	return &VectorStoreRepository{db: tx}
}

// InsertChunks appends a batch of embedded chunks to the store.
func (r *VectorStoreRepository) InsertChunks(ctx context.Context, chunks []domain.ChunkEmbedding) error {
	now := time.Now().UTC()
	for _, c := range chunks {
		metadata := c.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO vector_store (content, metadata, embedding, created_at)
			 VALUES ($1, $2, $3, $4)`,
			c.Text,
			metadata,
			pgvector.NewVector(c.Embedding),
			now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SearchByEmbedding returns up to limit chunks whose cosine similarity to
// the query embedding clears the threshold, most similar first. An empty
// result is a normal outcome, not an error.
func (r *VectorStoreRepository) SearchByEmbedding(ctx context.Context, embedding []float32, threshold float32, limit int) ([]domain.ScoredChunk, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := r.db.Query(ctx,
		`SELECT content, metadata, 1 - (embedding <=> $1) AS score
		 FROM vector_store
		 WHERE 1 - (embedding <=> $1) >= $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.ScoredChunk, 0, limit)
	for rows.Next() {
		var sc domain.ScoredChunk
		if err := rows.Scan(&sc.Text, &sc.Metadata, &sc.Score); err != nil {
			return nil, err
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// Truncate removes every stored chunk. Administrative reset only.
func (r *VectorStoreRepository) Truncate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE TABLE vector_store`)
	return err
}

// Count returns the number of stored chunks.
func (r *VectorStoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM vector_store`).Scan(&count)
	return count, err
}
