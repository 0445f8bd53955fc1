package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amityadav/policyfeed/internal/feed"
)

const createRecordsTable = `
	CREATE TABLE IF NOT EXISTS policy_records (
		position INT NOT NULL,
		title    TEXT PRIMARY KEY,
		link     TEXT NOT NULL DEFAULT '',
		date     TEXT NOT NULL DEFAULT '',
		source   TEXT NOT NULL DEFAULT '',
		summary  TEXT
	);
`

// PostgresStore keeps the dataset in the policy_records table, ordered by position
type PostgresStore struct {
	db         *pgxpool.Pool
	maxRecords int
}

func NewPostgresStore(ctx context.Context, connString string, maxRecords int) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if _, err := db.Exec(ctx, createRecordsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create policy_records: %w", err)
	}
	return &PostgresStore{db: db, maxRecords: maxRecords}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Load(ctx context.Context) feed.Dataset {
	query := `SELECT title, link, date, source, COALESCE(summary, '') FROM policy_records ORDER BY position`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		log.Printf("[PostgresStore.Load] Query failed, starting empty: %v", err)
		return feed.Dataset{}
	}
	defer rows.Close()

	data := feed.Dataset{}
	for rows.Next() {
		var r feed.Record
		if err := rows.Scan(&r.Title, &r.Link, &r.Date, &r.Source, &r.Summary); err != nil {
			log.Printf("[PostgresStore.Load] Scan failed, starting empty: %v", err)
			return feed.Dataset{}
		}
		data = append(data, r)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresStore.Load] Rows error, starting empty: %v", err)
		return feed.Dataset{}
	}

	log.Printf("[PostgresStore.Load] Loaded %d records", len(data))
	return data
}

// Save replaces every row in a single transaction
func (s *PostgresStore) Save(ctx context.Context, data feed.Dataset) error {
	data = data.Truncate(s.maxRecords)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM policy_records`); err != nil {
		return fmt.Errorf("failed to clear policy_records: %w", err)
	}

	batch := &pgx.Batch{}
	for i, r := range data {
		var summary *string
		if r.Summary != "" {
			summary = &r.Summary
		}
		batch.Queue(`INSERT INTO policy_records (position, title, link, date, source, summary) VALUES ($1, $2, $3, $4, $5, $6)`,
			i, r.Title, r.Link, r.Date, r.Source, summary)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	log.Printf("[PostgresStore.Save] Persisted %d records", len(data))
	return nil
}
