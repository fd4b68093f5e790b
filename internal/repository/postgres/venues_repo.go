package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"teamup/internal/models"
	"teamup/internal/repository"
)

type venuesRepo struct{ q querier }

const venueCols = `id, name, address_line1, address_line2, city, postcode, url, info`

func (r *venuesRepo) Create(ctx context.Context, v models.Venue) (models.Venue, error) {
	v.ID = uuid.NewString()
	_, err := r.q.Exec(ctx,
		`INSERT INTO venues(`+venueCols+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.Name, v.AddressLine1, v.AddressLine2, v.City, v.Postcode, v.URL, v.Info,
	)
	return v, err
}

func (r *venuesRepo) GetByID(ctx context.Context, id string) (models.Venue, error) {
	var v models.Venue
	err := r.q.QueryRow(ctx,
		`SELECT `+venueCols+` FROM venues WHERE id=$1`, id,
	).Scan(&v.ID, &v.Name, &v.AddressLine1, &v.AddressLine2, &v.City, &v.Postcode, &v.URL, &v.Info)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Venue{}, repository.ErrNotFound
	}
	return v, err
}

func (r *venuesRepo) List(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.q.Query(ctx, `SELECT `+venueCols+` FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Venue
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.AddressLine1, &v.AddressLine2, &v.City, &v.Postcode, &v.URL, &v.Info); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
