package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/renoflade/renoflade-api/internal/domain"
)

type LeadsRepo interface {
	Create(ctx context.Context, lead *domain.Lead) error
	List(ctx context.Context, limit, offset int) ([]domain.Lead, error)
}

type leadsRepo struct{ pool *pgxpool.Pool }

func NewLeadsRepo(pool *pgxpool.Pool) LeadsRepo {
	return &leadsRepo{pool: pool}
}

func (r *leadsRepo) Create(ctx context.Context, lead *domain.Lead) error {
	const q = `INSERT INTO leads (
    id, name, email, phone, material, area_m2, message, estimate_low, estimate_high
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  RETURNING created_at`

	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return r.pool.QueryRow(ctx, q,
		lead.ID, lead.Name, lead.Email, lead.Phone,
		lead.Material, lead.AreaM2, lead.Message,
		lead.EstimateLow, lead.EstimateHigh,
	).Scan(&lead.CreatedAt)
}

func (r *leadsRepo) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT id, name, email, phone, material, area_m2, message, estimate_low, estimate_high, created_at
  FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ls := make([]domain.Lead, 0, limit)
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Email, &l.Phone,
			&l.Material, &l.AreaM2, &l.Message,
			&l.EstimateLow, &l.EstimateHigh, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		ls = append(ls, l)
	}
	return ls, rows.Err()
}
