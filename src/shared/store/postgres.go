package store

import (
	"context"
	"database/sql"
	"errors"
)

// Postgres persists records over database/sql (lib/pq driver).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) (*Postgres, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_records (
			k          TEXT PRIMARY KEY,
			v          BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) Get(ctx context.Context, k Key) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM ledger_records WHERE k = $1`, k.Encode()).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Postgres) Has(ctx context.Context, k Key) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM ledger_records WHERE k = $1`, k.Encode()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Postgres) Set(ctx context.Context, k Key, v []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_records (k, v) VALUES ($1, $2)
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()
	`, k.Encode(), v)
	return err
}

func (s *Postgres) Apply(ctx context.Context, puts []Put) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, p := range puts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_records (k, v) VALUES ($1, $2)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()
		`, p.Key.Encode(), p.Value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
