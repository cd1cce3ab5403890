package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdfchat/internal/vectorstore"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ChunkID       string    `bun:"chunk_id,notnull"`
	Ordinal       int       `bun:"ordinal,notnull"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	Distance      float64   `bun:"distance,scanonly"`
}

// Store indexes chunks in a Postgres table with a pgvector column.
type Store struct {
	db *bun.DB
}

func New(dsn string, debug bool) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Reset drops and recreates the chunks table, discarding any prior index.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*chunkRow)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("drop chunks table: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	rows := make([]chunkRow, len(entries))
	for i, e := range entries {
		rows[i] = chunkRow{
			ChunkID:   e.ID,
			Ordinal:   e.Ordinal,
			Content:   e.Text,
			Embedding: e.Vector,
		}
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.Result, error) {
	var rows []chunkRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("chunk_id", "ordinal", "content", "embedding").
		ColumnExpr("embedding <-> ? AS distance", vector).
		OrderExpr("embedding <-> ?", vector).
		OrderExpr("ordinal ASC").
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	out := make([]vectorstore.Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, vectorstore.Result{
			Entry: vectorstore.Entry{ID: r.ChunkID, Ordinal: r.Ordinal, Text: r.Content, Vector: r.Embedding},
			// pgvector returns a distance; negate so larger still means closer.
			Score: float32(-r.Distance),
		})
	}
	return out, nil
}
