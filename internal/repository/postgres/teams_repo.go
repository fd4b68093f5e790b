package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
	"teamup/internal/repository"
)

type teamsRepo struct{ q querier }

func (r *teamsRepo) EnsureByName(ctx context.Context, name string) (models.Team, error) {
	_, err := r.q.Exec(ctx,
		`INSERT INTO teams(id, name) VALUES($1, $2) ON CONFLICT (name) DO NOTHING`,
		uuid.NewString(), name,
	)
	if err != nil {
		return models.Team{}, err
	}
	var t models.Team
	err = r.q.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM teams WHERE name=$1`, name,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	return t, err
}

func (r *teamsRepo) GetByID(ctx context.Context, id string) (models.Team, error) {
	var t models.Team
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM teams WHERE id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Team{}, repository.ErrNotFound
	}
	return t, err
}

func (r *teamsRepo) Join(ctx context.Context, teamID, userID string, role models.MembershipRole) (models.TeamMembership, error) {
	// keep the existing row (and role) if the user already joined
	_, err := r.q.Exec(ctx,
		`INSERT INTO team_memberships(id, team_id, user_id, role)
		 VALUES($1,$2,$3,$4)
		 ON CONFLICT (team_id, user_id) DO NOTHING`,
		uuid.NewString(), teamID, userID, role,
	)
	if err != nil {
		return models.TeamMembership{}, err
	}
	var m models.TeamMembership
	err = r.q.QueryRow(ctx,
		`SELECT id, team_id, user_id, role, joined_at
		   FROM team_memberships WHERE team_id=$1 AND user_id=$2`,
		teamID, userID,
	).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	return m, err
}

func (r *teamsRepo) Role(ctx context.Context, teamID, userID string) (models.MembershipRole, bool, error) {
	var role models.MembershipRole
	err := r.q.QueryRow(ctx,
		`SELECT role FROM team_memberships WHERE team_id=$1 AND user_id=$2`,
		teamID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}
