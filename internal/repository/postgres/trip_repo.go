package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TripRepository implements domain.TripRepository using PostgreSQL
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const tripColumns = `id, name, currency, created_at, updated_at`

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	var t domain.Trip
	if err := row.Scan(&t.ID, &t.Name, &t.Currency, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a trip and its initial members in one transaction
func (r *TripRepository) Create(trip *domain.Trip) (*domain.Trip, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanTrip(tx.QueryRow(ctx,
		`INSERT INTO trips (name, currency) VALUES ($1, $2) RETURNING `+tripColumns,
		trip.Name, trip.Currency,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	created.Members = make([]*domain.Member, 0, len(trip.Members))
	for _, m := range trip.Members {
		member, err := scanMember(tx.QueryRow(ctx,
			`INSERT INTO members (trip_id, name) VALUES ($1, $2) RETURNING `+memberColumns,
			created.ID, m.Name,
		))
		if err != nil {
			if isPgError(err, pgUniqueViolation) {
				return nil, domain.ErrMemberNameTaken
			}
			return nil, fmt.Errorf("failed to insert member: %w", err)
		}
		created.Members = append(created.Members, member)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a trip by its ID
func (r *TripRepository) GetByID(id int32) (*domain.Trip, error) {
	ctx := context.Background()
	trip, err := scanTrip(r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAll retrieves all trips, newest first
func (r *TripRepository) GetAll() ([]*domain.Trip, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// Update changes a trip's name and currency
func (r *TripRepository) Update(id int32, name, currency string) (*domain.Trip, error) {
	ctx := context.Background()
	trip, err := scanTrip(r.pool.QueryRow(ctx,
		`UPDATE trips SET name = $2, currency = $3, updated_at = NOW() WHERE id = $1 RETURNING `+tripColumns,
		id, name, currency,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// Delete removes a trip; members, expenses and splits cascade
func (r *TripRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}
