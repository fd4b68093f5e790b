package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"teamup/internal/repository"
)

// querier is the subset of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so every repo works pool-bound or inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Repos() repository.Repos { return newRepos(s.pool) }

// InTx runs fn against repos bound to one database transaction,
// committing if fn returns nil and rolling back otherwise. Row locks
// taken by the Lock* methods live until then.
func (s *Store) InTx(ctx context.Context, fn func(repository.Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(newRepos(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func newRepos(q querier) repository.Repos {
	return repository.Repos{
		Users:   &usersRepo{q},
		Teams:   &teamsRepo{q},
		Venues:  &venuesRepo{q},
		Events:  &eventsRepo{q},
		Signups: &signupsRepo{q},
		Wallets: &walletsRepo{q},
	}
}

// isUniqueViolation reports a postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
