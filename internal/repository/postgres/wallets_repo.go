package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
	"teamup/internal/repository"
)

type walletsRepo struct{ q querier }

func (r *walletsRepo) GetOrCreate(ctx context.Context, userID string) (models.Wallet, error) {
	if w, err := r.get(ctx, userID, ""); err == nil {
		return w, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return models.Wallet{}, err
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO wallets(id, user_id, balance) VALUES($1, $2, 0)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID,
	)
	if err != nil {
		return models.Wallet{}, err
	}
	return r.get(ctx, userID, "")
}

func (r *walletsRepo) LockGetOrCreate(ctx context.Context, userID string) (models.Wallet, error) {
	// ensure the row exists, then take the lock
	if _, err := r.GetOrCreate(ctx, userID); err != nil {
		return models.Wallet{}, err
	}
	return r.get(ctx, userID, " FOR UPDATE")
}

func (r *walletsRepo) get(ctx context.Context, userID, suffix string) (models.Wallet, error) {
	var w models.Wallet
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id=$1`+suffix,
		userID,
	).Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt)
	return w, err
}

// Apply moves the balance and appends the ledger row together, so the
// two can never drift apart. Callers run it inside InTx.
func (r *walletsRepo) Apply(ctx context.Context, ch repository.WalletChange) (models.WalletTransaction, error) {
	_, err := r.q.Exec(ctx,
		`UPDATE wallets SET balance = balance + $2, updated_at = now() WHERE id=$1`,
		ch.WalletID, ch.Amount,
	)
	if err != nil {
		return models.WalletTransaction{}, err
	}

	var t models.WalletTransaction
	err = r.q.QueryRow(ctx,
		`INSERT INTO wallet_transactions(id, wallet_id, amount, kind, event_id, payment_session_id, payment_intent_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id, wallet_id, amount, kind, event_id, payment_session_id, payment_intent_id, created_at`,
		uuid.NewString(), ch.WalletID, ch.Amount, ch.Kind, ch.EventID, ch.PaymentSessionID, ch.PaymentIntentID,
	).Scan(&t.ID, &t.WalletID, &t.Amount, &t.Kind, &t.EventID, &t.PaymentSessionID, &t.PaymentIntentID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return models.WalletTransaction{}, repository.ErrDuplicateSession
	}
	return t, err
}

func (r *walletsRepo) HasSession(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wallet_transactions WHERE payment_session_id=$1)`,
		sessionID,
	).Scan(&exists)
	return exists, err
}

func (r *walletsRepo) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.WalletTransaction, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, wallet_id, amount, kind, event_id, payment_session_id, payment_intent_id, created_at
		   FROM wallet_transactions
		  WHERE wallet_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		walletID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WalletTransaction
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Amount, &t.Kind, &t.EventID, &t.PaymentSessionID, &t.PaymentIntentID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
