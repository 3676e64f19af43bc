package leave

import (
	"context"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
)

type LeaveService interface {
	// Type registry
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveType, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) error
	GetLeaveType(ctx context.Context, id string) (LeaveType, error)
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]LeaveTypeResponse, error)
	SetLeaveTypeActive(ctx context.Context, id string, active bool) error
	DeleteLeaveType(ctx context.Context, id string) error

	// Balance ledger
	GetOrInitBalance(ctx context.Context, ref directory.EntityRef, year int) (LeaveBalanceResponse, error)
	ListBalances(ctx context.Context, ref directory.EntityRef) ([]LeaveBalanceResponse, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (LeaveBalanceResponse, error)

	// Request lifecycle
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	UpdateLeaveRequest(ctx context.Context, actorID string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, actorID, requestID, reason string) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, adminID string, req ReviewRequestRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, adminID string, req ReviewRequestRequest) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListEntityLeaveRequests(ctx context.Context, ref directory.EntityRef, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
