package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
	"teamup/internal/repository"
)

type eventsRepo struct{ q querier }

const eventCols = `id, team_id, title, starts_at, ends_at, venue_id, min_participants, max_participants, price, created_by, created_at`

func (r *eventsRepo) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = uuid.NewString()
	err := r.q.QueryRow(ctx,
		`INSERT INTO events(id, team_id, title, starts_at, ends_at, venue_id, min_participants, max_participants, price, created_by)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING created_at`,
		e.ID, e.TeamID, e.Title, e.StartsAt, e.EndsAt, e.VenueID,
		e.MinParticipants, e.MaxParticipants, e.Price, e.CreatedBy,
	).Scan(&e.CreatedAt)
	return e, err
}

func (r *eventsRepo) GetByID(ctx context.Context, id string) (models.Event, error) {
	return r.get(ctx, id, "")
}

func (r *eventsRepo) LockGet(ctx context.Context, id string) (models.Event, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *eventsRepo) get(ctx context.Context, id, suffix string) (models.Event, error) {
	var e models.Event
	err := r.q.QueryRow(ctx,
		`SELECT `+eventCols+` FROM events WHERE id=$1`+suffix, id,
	).Scan(&e.ID, &e.TeamID, &e.Title, &e.StartsAt, &e.EndsAt, &e.VenueID,
		&e.MinParticipants, &e.MaxParticipants, &e.Price, &e.CreatedBy, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Event{}, repository.ErrNotFound
	}
	return e, err
}

func (r *eventsRepo) ListByTeam(ctx context.Context, teamID, viewerID string) ([]models.EventSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.id, e.team_id, e.title, e.starts_at, e.ends_at, e.venue_id,
		       e.min_participants, e.max_participants, e.price, e.created_by, e.created_at,
		       count(s.id) FILTER (WHERE s.status='yes')      AS yes_count,
		       count(s.id) FILTER (WHERE s.status='waitlist') AS waitlist_count,
		       (SELECT status FROM event_signups WHERE event_id=e.id AND user_id=$2) AS my_status
		  FROM events e
		  LEFT JOIN event_signups s ON s.event_id = e.id
		 WHERE e.team_id = $1
		 GROUP BY e.id
		 ORDER BY e.starts_at`,
		teamID, viewerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventSummary
	for rows.Next() {
		var s models.EventSummary
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Title, &s.StartsAt, &s.EndsAt, &s.VenueID,
			&s.MinParticipants, &s.MaxParticipants, &s.Price, &s.CreatedBy, &s.CreatedAt,
			&s.YesCount, &s.WaitlistCount, &s.MyStatus); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
