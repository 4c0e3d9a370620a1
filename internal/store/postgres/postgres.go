// Package postgres provides the durable pgx-backed implementations of
// the core store interfaces. One Store satisfies core.RowStore,
// core.PermissionStore, and core.UserStore; it is selected with
// STORE_BACKEND=postgres.
//
// Unlike the in-memory permission store, the grants table enforces
// uniqueness per (group_id, schema_name) with a constraint, so the
// documented first-match-wins tie-break never has duplicates to break.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tablegate/internal/core"
)

// Store wraps a connection pool. All methods are safe for concurrent
// use; the pool handles connection management.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the backing tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tg_tables (
			seq  bigint GENERATED BY DEFAULT AS IDENTITY,
			key  text PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS tg_rows (
			key  text NOT NULL REFERENCES tg_tables(key) ON DELETE CASCADE,
			pos  int  NOT NULL,
			data jsonb NOT NULL,
			PRIMARY KEY (key, pos)
		)`,
		`CREATE TABLE IF NOT EXISTS tg_grants (
			id          int GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			group_id    int  NOT NULL,
			schema_name text NOT NULL,
			level       text NOT NULL,
			UNIQUE (group_id, schema_name)
		)`,
		`CREATE TABLE IF NOT EXISTS tg_users (
			id         int GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			email      text NOT NULL UNIQUE,
			active     bool NOT NULL DEFAULT true,
			group_id   int  NOT NULL DEFAULT 0,
			group_name text NOT NULL DEFAULT '',
			secret     text NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// EnsureGrants inserts the provisioned grants, leaving existing records
// for a (group, schema) pair untouched.
func (s *Store) EnsureGrants(ctx context.Context, grants []core.SchemaPermission) error {
	for _, g := range grants {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO tg_grants (group_id, schema_name, level)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (group_id, schema_name) DO NOTHING`,
			g.GroupID, g.Schema, string(g.Level),
		)
		if err != nil {
			return fmt.Errorf("ensure grant %d/%s: %w", g.GroupID, g.Schema, err)
		}
	}
	return nil
}

// PermissionFor implements core.PermissionStore. Lowest id first keeps
// the lookup deterministic even if the uniqueness constraint is ever
// relaxed.
func (s *Store) PermissionFor(ctx context.Context, groupID int, schema string) (core.PermissionLevel, bool, error) {
	var level string
	err := s.pool.QueryRow(ctx,
		`SELECT level FROM tg_grants
		 WHERE group_id = $1 AND schema_name = $2
		 ORDER BY id LIMIT 1`,
		groupID, schema,
	).Scan(&level)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("permission lookup: %w", err)
	}
	return core.PermissionLevel(level), true, nil
}

// GrantsFor implements core.PermissionStore.
func (s *Store) GrantsFor(ctx context.Context, groupID int) ([]core.SchemaPermission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT group_id, schema_name, level FROM tg_grants
		 WHERE group_id = $1 ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("grants lookup: %w", err)
	}
	defer rows.Close()

	var out []core.SchemaPermission
	for rows.Next() {
		var g core.SchemaPermission
		var level string
		if err := rows.Scan(&g.GroupID, &g.Schema, &level); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		g.Level = core.PermissionLevel(level)
		out = append(out, g)
	}
	return out, rows.Err()
}
