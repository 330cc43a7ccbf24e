package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/renoflade/renoflade-api/internal/domain"
)

type BookingsRepo interface {
	Create(ctx context.Context, in *domain.BookingRequest) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (bool, error)
	RequestReschedule(ctx context.Context, id uuid.UUID, requestedAt time.Time, note string) (bool, error)
	ApplyReschedule(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type bookingsRepo struct{ pool *pgxpool.Pool }

func NewBookingsRepo(pool *pgxpool.Pool) BookingsRepo {
	return &bookingsRepo{pool: pool}
}

const bookingCols = `id, status,
customer_name, customer_email, customer_phone,
address, material, area_m2, scheduled_at,
requested_at, reschedule_note, notes,
created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.Status,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.Address, &b.Material, &b.AreaM2, &b.ScheduledAt,
		&b.RequestedAt, &b.RescheduleNote, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingsRepo) Create(ctx context.Context, in *domain.BookingRequest) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
    id, status,
    customer_name, customer_email, customer_phone,
    address, material, area_m2, scheduled_at, notes
  ) VALUES ($1,'pending',$2,$3,$4,$5,$6,$7,$8,$9)
  RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q, uuid.New(),
		in.CustomerName, in.CustomerEmail, in.CustomerPhone,
		in.Address, in.Material, in.AreaM2, in.ScheduledAt, in.Notes,
	))
}

func (r *bookingsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bookingsRepo) List(ctx context.Context, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		const q = `SELECT ` + bookingCols + ` FROM bookings WHERE status=$1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, q, *status, limit, offset)
	} else {
		const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, q, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bs := make([]domain.Booking, 0, limit)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bs = append(bs, *b)
	}
	return bs, rows.Err()
}

func (r *bookingsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (bool, error) {
	const q = `UPDATE bookings SET status=$2, requested_at=NULL, reschedule_note='', updated_at=now()
  WHERE id=$1 AND status <> $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *bookingsRepo) RequestReschedule(ctx context.Context, id uuid.UUID, requestedAt time.Time, note string) (bool, error) {
	const q = `UPDATE bookings
  SET status='reschedule_requested', requested_at=$2, reschedule_note=$3, updated_at=now()
  WHERE id=$1 AND status IN ('pending','confirmed','reschedule_requested')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, requestedAt, note)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *bookingsRepo) ApplyReschedule(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	const q = `UPDATE bookings
  SET status='confirmed', scheduled_at=$2, requested_at=NULL, reschedule_note='', updated_at=now()
  WHERE id=$1 AND status IN ('pending','confirmed','reschedule_requested')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *bookingsRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `UPDATE bookings SET status='canceled', updated_at=now()
  WHERE id=$1 AND status IN ('pending','confirmed','reschedule_requested')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
