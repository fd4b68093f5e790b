package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
)

type signupsRepo struct{ q querier }

func (r *signupsRepo) LockGet(ctx context.Context, eventID, userID string) (*models.EventSignup, error) {
	var s models.EventSignup
	err := r.q.QueryRow(ctx,
		`SELECT id, event_id, user_id, status, created_at
		   FROM event_signups
		  WHERE event_id=$1 AND user_id=$2
		    FOR UPDATE`,
		eventID, userID,
	).Scan(&s.ID, &s.EventID, &s.UserID, &s.Status, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *signupsRepo) Upsert(ctx context.Context, eventID, userID string, status models.SignupStatus) (models.EventSignup, error) {
	var s models.EventSignup
	err := r.q.QueryRow(ctx,
		`INSERT INTO event_signups(id, event_id, user_id, status)
		 VALUES($1,$2,$3,$4)
		 ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status
		 RETURNING id, event_id, user_id, status, created_at`,
		uuid.NewString(), eventID, userID, status,
	).Scan(&s.ID, &s.EventID, &s.UserID, &s.Status, &s.CreatedAt)
	return s, err
}

func (r *signupsRepo) CountYes(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM event_signups WHERE event_id=$1 AND status='yes'`,
		eventID,
	).Scan(&n)
	return n, err
}

func (r *signupsRepo) LockWaitlisted(ctx context.Context, eventID, excludeUserID string) ([]models.EventSignup, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, event_id, user_id, status, created_at
		   FROM event_signups
		  WHERE event_id=$1 AND status='waitlist' AND user_id <> $2
		  ORDER BY created_at
		    FOR UPDATE`,
		eventID, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventSignup
	for rows.Next() {
		var s models.EventSignup
		if err := rows.Scan(&s.ID, &s.EventID, &s.UserID, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *signupsRepo) ListByEvent(ctx context.Context, eventID string) ([]models.SignupWithUser, error) {
	rows, err := r.q.Query(ctx,
		`SELECT s.id, s.event_id, s.user_id, s.status, s.created_at, u.username
		   FROM event_signups s
		   JOIN users u ON u.id = s.user_id
		  WHERE s.event_id=$1
		  ORDER BY s.created_at`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SignupWithUser
	for rows.Next() {
		var s models.SignupWithUser
		if err := rows.Scan(&s.ID, &s.EventID, &s.UserID, &s.Status, &s.CreatedAt, &s.Username); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
