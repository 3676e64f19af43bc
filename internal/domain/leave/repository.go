package leave

import (
	"context"
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByName(ctx context.Context, name string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, req UpdateLeaveTypeRequest) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	// CountRequestsUsingType reports how many leave requests reference the
	// type, so deletion of an in-use type can at least be warned about.
	CountRequestsUsingType(ctx context.Context, id string) (int64, error)
}

// LeaveBalanceRepository - interface for leave_balances/leave_balance_entries.
// The guarded counter mutations are the only write path for used/pending;
// each is a single atomic statement so concurrent transitions never interleave
// their read-modify-write.
type LeaveBalanceRepository interface {
	// Upsert creates the balance document if absent (ON CONFLICT DO NOTHING)
	// and returns the canonical record. Safe under concurrent initialization.
	Upsert(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByEntityYear(ctx context.Context, ref directory.EntityRef, year int) (LeaveBalance, error)
	ListByEntity(ctx context.Context, ref directory.EntityRef) ([]LeaveBalance, error)

	// AddEntry inserts a zero-counter entry for a leave type added after the
	// balance was initialized. Idempotent.
	AddEntry(ctx context.Context, balanceID string, entry BalanceEntry) error

	// AddPending increments pending by days, guarded so that
	// used + pending never exceeds allocated + carry_forward.
	// Returns ErrInsufficientBalance when the guard rejects the update.
	AddPending(ctx context.Context, balanceID, leaveTypeID string, days int) error
	// ReleasePending decrements pending by days, clamped at zero.
	ReleasePending(ctx context.Context, balanceID, leaveTypeID string, days int) error
	// CommitPending moves days from pending to used, both clamped at zero.
	CommitPending(ctx context.Context, balanceID, leaveTypeID string, days int) error
	// ReverseUsed decrements used by days, clamped at zero.
	ReverseUsed(ctx context.Context, balanceID, leaveTypeID string, days int) error

	SetAllocation(ctx context.Context, balanceID, leaveTypeID string, allocated int) error
	SetCarryForward(ctx context.Context, balanceID, leaveTypeID string, carryForward int) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, request LeaveRequest) error
	// ListActiveInWindow returns the entity's pending/approved requests whose
	// [start,end] envelope intersects [from,to], excluding excludeID when
	// non-empty. Exact day-set intersection happens in the service.
	ListActiveInWindow(ctx context.Context, ref directory.EntityRef, from, to time.Time, excludeID string) ([]LeaveRequest, error)
	ListByEntity(ctx context.Context, ref directory.EntityRef, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
}
