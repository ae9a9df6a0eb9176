package store

import (
	"context"

	"backend-mapty/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/luno/jettison/errors"
)

// PostgresMedium stores snapshots in a single-row-per-key table:
//
//	CREATE TABLE snapshots (
//		key        TEXT PRIMARY KEY,
//		payload    JSONB NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresMedium struct {
	db db.Querier
}

func NewPostgresMedium(db db.Querier) *PostgresMedium {
	return &PostgresMedium{db: db}
}

func (m *PostgresMedium) Save(ctx context.Context, key string, payload []byte) error {
	_, err := m.db.Exec(ctx, `
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at
	`, key, string(payload))
	return err
}

func (m *PostgresMedium) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := m.db.QueryRow(ctx, `SELECT payload::text FROM snapshots WHERE key=$1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}
