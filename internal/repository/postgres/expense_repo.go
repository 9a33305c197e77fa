package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, trip_id, payer_id, kind, description, amount, expense_date, receipt_path, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e      domain.Expense
		kind   string
		amount pgtype.Numeric
		date   pgtype.Date
	)
	if err := row.Scan(&e.ID, &e.TripID, &e.PayerID, &kind, &e.Description, &amount, &date, &e.ReceiptPath, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Kind = domain.ExpenseKind(kind)
	e.Amount = pgNumericToDecimal(amount)
	if date.Valid {
		e.ExpenseDate = date.Time
	}
	e.Splits = make([]domain.ExpenseSplit, 0)
	return &e, nil
}

// Create inserts an expense and its splits in one transaction
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanExpense(tx.QueryRow(ctx,
		`INSERT INTO expenses (trip_id, payer_id, kind, description, amount, expense_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+expenseColumns,
		expense.TripID, expense.PayerID, string(expense.Kind), expense.Description, amount,
		pgtype.Date{Time: expense.ExpenseDate, Valid: true},
	))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrPayerNotMember
		}
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	batch := &pgx.Batch{}
	for _, split := range expense.Splits {
		splitAmount, err := decimalToPgNumeric(split.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid split amount: %w", err)
		}
		batch.Queue(`INSERT INTO expense_splits (expense_id, member_id, amount) VALUES ($1, $2, $3)`,
			created.ID, split.MemberID, splitAmount)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isPgError(err, pgForeignKeyViolation) || isPgError(err, pgUniqueViolation) {
			return nil, domain.ErrInvalidSplit
		}
		return nil, fmt.Errorf("failed to insert splits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	created.Splits = append(created.Splits, expense.Splits...)
	return created, nil
}

// GetByID retrieves an expense with its splits
func (r *ExpenseRepository) GetByID(tripID int32, id int32) (*domain.Expense, error) {
	ctx := context.Background()
	expense, err := scanExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE trip_id = $1 AND id = $2`, tripID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if err := r.loadSplits(ctx, tripID, map[int32]*domain.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetByTrip retrieves all expenses of a trip with their splits, most recent first
func (r *ExpenseRepository) GetByTrip(tripID int32) ([]*domain.Expense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE trip_id = $1 ORDER BY expense_date DESC, id DESC`, tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	byID := make(map[int32]*domain.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(byID) > 0 {
		if err := r.loadSplits(ctx, tripID, byID); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadSplits attaches splits to the given expenses of a trip
func (r *ExpenseRepository) loadSplits(ctx context.Context, tripID int32, byID map[int32]*domain.Expense) error {
	rows, err := r.pool.Query(ctx,
		`SELECT s.expense_id, s.member_id, s.amount
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.trip_id = $1
		 ORDER BY s.expense_id, s.member_id`, tripID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID, memberID int32
			amount              pgtype.Numeric
		)
		if err := rows.Scan(&expenseID, &memberID, &amount); err != nil {
			return err
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Splits = append(expense.Splits, domain.ExpenseSplit{
				MemberID: memberID,
				Amount:   pgNumericToDecimal(amount),
			})
		}
	}
	return rows.Err()
}

// Delete removes an expense; its splits cascade
func (r *ExpenseRepository) Delete(tripID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE trip_id = $1 AND id = $2`, tripID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptPath sets or clears the receipt object path of an expense
func (r *ExpenseRepository) SetReceiptPath(tripID int32, id int32, path *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET receipt_path = $3, updated_at = NOW() WHERE trip_id = $1 AND id = $2`,
		tripID, id, path,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// HasActivity reports whether a member paid for or shares in any expense
func (r *ExpenseRepository) HasActivity(tripID int32, memberID int32) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM expenses WHERE trip_id = $1 AND payer_id = $2
		 ) OR EXISTS (
		     SELECT 1 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		     WHERE e.trip_id = $1 AND s.member_id = $2
		 )`, tripID, memberID,
	).Scan(&exists)
	return exists, err
}

// GetLedgerSnapshot reads members and per-member paid/owed sums inside a
// single REPEATABLE READ transaction, so concurrent writes cannot make the
// totals disagree with each other.
func (r *ExpenseRepository) GetLedgerSnapshot(tripID int32) (*domain.LedgerSnapshot, error) {
	ctx := context.Background()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	snapshot := domain.NewLedgerSnapshot(tripID)

	snapshot.Members, err = queryMembers(ctx, tx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	if err := sumByMember(ctx, tx, snapshot.Paid,
		`SELECT payer_id, SUM(amount) FROM expenses WHERE trip_id = $1 GROUP BY payer_id`, tripID,
	); err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	if err := sumByMember(ctx, tx, snapshot.Owed,
		`SELECT s.member_id, SUM(s.amount)
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.trip_id = $1
		 GROUP BY s.member_id`, tripID,
	); err != nil {
		return nil, fmt.Errorf("failed to sum shares: %w", err)
	}

	var total pgtype.Numeric
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE trip_id = $1 AND kind = $2`,
		tripID, string(domain.ExpenseKindExpense),
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	snapshot.TotalExpenses = pgNumericToDecimal(total)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close snapshot: %w", err)
	}
	return snapshot, nil
}

func sumByMember(ctx context.Context, q querier, into map[int32]decimal.Decimal, sql string, tripID int32) error {
	rows, err := q.Query(ctx, sql, tripID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			memberID int32
			sum      pgtype.Numeric
		)
		if err := rows.Scan(&memberID, &sum); err != nil {
			return err
		}
		into[memberID] = pgNumericToDecimal(sum)
	}
	return rows.Err()
}
