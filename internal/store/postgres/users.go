package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"tablegate/internal/core"
)

// ByEmail implements core.UserStore.
func (s *Store) ByEmail(ctx context.Context, email string) (core.User, string, bool, error) {
	var u core.User
	var secret string
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, active, group_id, group_name, secret
		 FROM tg_users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Active, &u.GroupID, &u.GroupName, &secret)
	if err != nil {
		if isNoRows(err) {
			return core.User{}, "", false, nil
		}
		return core.User{}, "", false, fmt.Errorf("user lookup: %w", err)
	}
	return u, secret, true, nil
}

// Create implements core.UserStore. The identity column assigns the
// next sequential id; the UNIQUE constraint on email makes concurrent
// registrations for the same address lose with ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u core.User, secret string) (core.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tg_users (email, active, group_id, group_name, secret)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		u.Email, u.Active, u.GroupID, u.GroupName, secret,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.User{}, core.ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return u, nil
}
