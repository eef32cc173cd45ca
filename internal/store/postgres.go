package store

import (
	"context"
	"database/sql"
	"time"
)

// PostgresStore keeps every collection in a single records table keyed by
// (collection, key), with the document itself in a jsonb column. Schema:
//
//	CREATE TABLE IF NOT EXISTS records (
//	    collection text NOT NULL,
//	    key        text NOT NULL,
//	    data       jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (collection, key)
//	);
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (ps *PostgresStore) List(ctx context.Context, collection string) ([]Record, error) {
	query := `
		SELECT key, data
		FROM records
		WHERE collection = $1
		ORDER BY key ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := ps.DB.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}

	for rows.Next() {
		var record Record

		err := rows.Scan(&record.Key, &record.Data)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (ps *PostgresStore) Put(ctx context.Context, collection, key string, data []byte) error {
	query := `
		INSERT INTO records (collection, key, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := ps.DB.ExecContext(ctx, query, collection, key, data)
	return err
}

func (ps *PostgresStore) Delete(ctx context.Context, collection, key string) error {
	query := `DELETE FROM records WHERE collection = $1 AND key = $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := ps.DB.ExecContext(ctx, query, collection, key)
	return err
}
