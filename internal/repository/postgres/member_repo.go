package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, trip_id, name, created_at`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(&m.ID, &m.TripID, &m.Name, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create adds a member to a trip
func (r *MemberRepository) Create(member *domain.Member) (*domain.Member, error) {
	ctx := context.Background()
	created, err := scanMember(r.pool.QueryRow(ctx,
		`INSERT INTO members (trip_id, name) VALUES ($1, $2) RETURNING `+memberColumns,
		member.TripID, member.Name,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, domain.ErrMemberNameTaken
		}
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a member within a trip
func (r *MemberRepository) GetByID(tripID int32, id int32) (*domain.Member, error) {
	ctx := context.Background()
	member, err := scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE trip_id = $1 AND id = $2`, tripID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByTrip retrieves the members of a trip in creation order
func (r *MemberRepository) GetByTrip(tripID int32) ([]*domain.Member, error) {
	return queryMembers(context.Background(), r.pool, tripID)
}

// Delete removes a member
func (r *MemberRepository) Delete(tripID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE trip_id = $1 AND id = $2`, tripID, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.ErrMemberHasActivity
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func queryMembers(ctx context.Context, q querier, tripID int32) ([]*domain.Member, error) {
	rows, err := q.Query(ctx, `SELECT `+memberColumns+` FROM members WHERE trip_id = $1 ORDER BY id`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
