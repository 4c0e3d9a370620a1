package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tablegate/internal/core"
)

// Load implements core.RowStore. Rows come back in insertion order via
// their stored position; a missing key yields an empty sequence.
func (s *Store) Load(ctx context.Context, key string) ([]core.Row, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM tg_rows WHERE key = $1 ORDER BY pos`, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	defer rows.Close()

	var out []core.Row
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", key, err)
		}
		var r core.Row
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode row of %s: %w", key, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Replace implements core.RowStore. The delete and the inserts share a
// transaction, so concurrent readers see either the old sequence or the
// new one, never a partial swap.
func (s *Store) Replace(ctx context.Context, key string, rowSeq []core.Row) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replace %s: begin: %w", key, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO tg_tables (key) VALUES ($1) ON CONFLICT (key) DO NOTHING`, key); err != nil {
		return fmt.Errorf("replace %s: register key: %w", key, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tg_rows WHERE key = $1`, key); err != nil {
		return fmt.Errorf("replace %s: clear: %w", key, err)
	}

	batch := &pgx.Batch{}
	for pos, r := range rowSeq {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("replace %s: encode row %d: %w", key, pos, err)
		}
		batch.Queue(`INSERT INTO tg_rows (key, pos, data) VALUES ($1, $2, $3)`, key, pos, data)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace %s: insert: %w", key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replace %s: commit: %w", key, err)
	}
	return nil
}

// Keys implements core.RowStore, ordered by when each table was first
// created.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key FROM tg_tables ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
