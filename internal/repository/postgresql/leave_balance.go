package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Upsert implements leave.LeaveBalanceRepository. The balance row and its
// seeded entries are inserted with ON CONFLICT DO NOTHING so concurrent
// initialization of the same (entity, year) never creates duplicates.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO leave_balances (id, entity_kind, entity_id, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (entity_kind, entity_id, year) DO NOTHING
	`, uuid.NewString(), balance.Entity.Kind, balance.Entity.ID, balance.Year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}

	var balanceID string
	err = q.QueryRow(ctx, `
		SELECT id FROM leave_balances
		WHERE entity_kind = $1 AND entity_id = $2 AND year = $3
	`, balance.Entity.Kind, balance.Entity.ID, balance.Year).Scan(&balanceID)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to read upserted leave balance: %w", err)
	}

	for _, entry := range balance.Entries {
		if err := r.AddEntry(ctx, balanceID, entry); err != nil {
			return leave.LeaveBalance{}, err
		}
	}

	return r.getByID(ctx, balanceID)
}

// AddEntry implements leave.LeaveBalanceRepository. Idempotent.
func (r *leaveBalanceRepositoryImpl) AddEntry(ctx context.Context, balanceID string, entry leave.BalanceEntry) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO leave_balance_entries (
			balance_id, leave_type_id, allocated, used, pending, carry_forward, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (balance_id, leave_type_id) DO NOTHING
	`, balanceID, entry.LeaveTypeID, entry.Allocated, entry.Used, entry.Pending, entry.CarryForward)
	if err != nil {
		return fmt.Errorf("failed to add balance entry: %w", err)
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) getByID(ctx context.Context, id string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	var balance leave.LeaveBalance
	err := q.QueryRow(ctx, `
		SELECT id, entity_kind, entity_id, year, created_at, updated_at
		FROM leave_balances
		WHERE id = $1
	`, id).Scan(
		&balance.ID, &balance.Entity.Kind, &balance.Entity.ID, &balance.Year,
		&balance.CreatedAt, &balance.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	entries, err := r.listEntries(ctx, balance.ID)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	balance.Entries = entries

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) listEntries(ctx context.Context, balanceID string) ([]leave.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT e.leave_type_id, e.allocated, e.used, e.pending, e.carry_forward,
		       lt.name AS leave_type_name
		FROM leave_balance_entries e
		JOIN leave_types lt ON e.leave_type_id = lt.id
		WHERE e.balance_id = $1
		ORDER BY lt.name
	`, balanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]leave.BalanceEntry, 0)
	for rows.Next() {
		var entry leave.BalanceEntry
		if err := rows.Scan(
			&entry.LeaveTypeID, &entry.Allocated, &entry.Used, &entry.Pending,
			&entry.CarryForward, &entry.LeaveTypeName,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetByEntityYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEntityYear(ctx context.Context, ref directory.EntityRef, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		SELECT id FROM leave_balances
		WHERE entity_kind = $1 AND entity_id = $2 AND year = $3
	`, ref.Kind, ref.ID, year).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}

	return r.getByID(ctx, id)
}

// ListByEntity implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEntity(ctx context.Context, ref directory.EntityRef) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id FROM leave_balances
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY year DESC
	`, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	balances := make([]leave.LeaveBalance, 0, len(ids))
	for _, id := range ids {
		balance, err := r.getByID(ctx, id)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// AddPending implements leave.LeaveBalanceRepository. The availability check
// sits in the WHERE clause so the reserve is a single atomic statement;
// concurrent reservations on the same entry serialize on the row and can
// never push used+pending past allocated+carry_forward.
func (r *leaveBalanceRepositoryImpl) AddPending(ctx context.Context, balanceID, leaveTypeID string, days int) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `
		UPDATE leave_balance_entries
		SET pending = pending + $1, updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
		AND used + pending + $1 <= allocated + carry_forward
	`, days, balanceID, leaveTypeID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		entry, err := r.getEntry(ctx, balanceID, leaveTypeID)
		if err != nil {
			return err
		}
		return &leave.InsufficientBalanceError{
			LeaveTypeID: leaveTypeID,
			Available:   entry.Available(),
			Requested:   days,
		}
	}

	return nil
}

// ReleasePending implements leave.LeaveBalanceRepository. Clamped at zero.
func (r *leaveBalanceRepositoryImpl) ReleasePending(ctx context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutateEntry(ctx, balanceID, leaveTypeID, `
		UPDATE leave_balance_entries
		SET pending = GREATEST(pending - $1, 0), updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
	`, days)
}

// CommitPending implements leave.LeaveBalanceRepository. Both column updates
// read the pre-update pending, so the move is atomic; pending is clamped at
// zero to tolerate slack.
func (r *leaveBalanceRepositoryImpl) CommitPending(ctx context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutateEntry(ctx, balanceID, leaveTypeID, `
		UPDATE leave_balance_entries
		SET pending = GREATEST(pending - $1, 0), used = used + $1, updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
	`, days)
}

// ReverseUsed implements leave.LeaveBalanceRepository. Clamped at zero.
func (r *leaveBalanceRepositoryImpl) ReverseUsed(ctx context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutateEntry(ctx, balanceID, leaveTypeID, `
		UPDATE leave_balance_entries
		SET used = GREATEST(used - $1, 0), updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
	`, days)
}

// SetAllocation implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) SetAllocation(ctx context.Context, balanceID, leaveTypeID string, allocated int) error {
	return r.mutateEntry(ctx, balanceID, leaveTypeID, `
		UPDATE leave_balance_entries
		SET allocated = $1, updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
	`, allocated)
}

// SetCarryForward implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) SetCarryForward(ctx context.Context, balanceID, leaveTypeID string, carryForward int) error {
	return r.mutateEntry(ctx, balanceID, leaveTypeID, `
		UPDATE leave_balance_entries
		SET carry_forward = $1, updated_at = NOW()
		WHERE balance_id = $2 AND leave_type_id = $3
	`, carryForward)
}

func (r *leaveBalanceRepositoryImpl) mutateEntry(ctx context.Context, balanceID, leaveTypeID, query string, value int) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, query, value, balanceID, leaveTypeID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceEntryNotFound
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) getEntry(ctx context.Context, balanceID, leaveTypeID string) (leave.BalanceEntry, error) {
	q := GetQuerier(ctx, r.db)

	var entry leave.BalanceEntry
	err := q.QueryRow(ctx, `
		SELECT leave_type_id, allocated, used, pending, carry_forward
		FROM leave_balance_entries
		WHERE balance_id = $1 AND leave_type_id = $2
	`, balanceID, leaveTypeID).Scan(
		&entry.LeaveTypeID, &entry.Allocated, &entry.Used, &entry.Pending, &entry.CarryForward,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.BalanceEntry{}, leave.ErrBalanceEntryNotFound
		}
		return leave.BalanceEntry{}, err
	}
	return entry, nil
}
