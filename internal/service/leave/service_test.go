package leave

import (
	"context"
	"testing"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(env *testEnv) leave.LeaveService {
	return NewLeaveService(
		env.typeService,
		env.balanceService,
		env.requestService,
		env.requests,
		env.dir,
		nil,
	)
}

func TestLeaveService_RequestLifecycleFlow(t *testing.T) {
	env := newTestEnv(t)
	svc := newFacade(env)
	ctx := context.Background()

	created, err := svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave", DefaultDays: 12})
	require.NoError(t, err)
	ref := env.staffRef(t, "s1")

	req := createRequest(created.ID, ref)
	req.StartDate = "2025-09-10"
	req.EndDate = "2025-09-15"
	submitted, err := svc.CreateLeaveRequest(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 6, submitted.Days)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), submitted.Status)
	assert.Equal(t, "2025-09-10", submitted.StartDate)
	assert.Equal(t, "2025-09-15", submitted.EndDate)

	balance, err := svc.GetOrInitBalance(ctx, ref, 2025)
	require.NoError(t, err)
	require.Len(t, balance.Entries, 1)
	assert.Equal(t, 6, balance.Entries[0].Pending)
	assert.Equal(t, 6, balance.Entries[0].Available)

	approved, err := svc.ApproveLeaveRequest(ctx, "admin-1", leave.ReviewRequestRequest{RequestID: submitted.ID})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), approved.Status)

	balance, err = svc.GetOrInitBalance(ctx, ref, 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Entries[0].Pending)
	assert.Equal(t, 6, balance.Entries[0].Used)

	fetched, err := svc.GetLeaveRequest(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.Status, fetched.Status)
}

func TestLeaveService_ListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := newFacade(env)
	ctx := context.Background()

	created, err := svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave", DefaultDays: 20})
	require.NoError(t, err)
	ref := env.staffRef(t, "s1")

	first := createRequest(created.ID, ref)
	first.StartDate = "2025-09-10"
	first.EndDate = "2025-09-11"
	submitted, err := svc.CreateLeaveRequest(ctx, first)
	require.NoError(t, err)

	second := createRequest(created.ID, ref)
	second.StartDate = "2025-10-01"
	second.EndDate = "2025-10-02"
	_, err = svc.CreateLeaveRequest(ctx, second)
	require.NoError(t, err)

	_, err = svc.ApproveLeaveRequest(ctx, "admin-1", leave.ReviewRequestRequest{RequestID: submitted.ID})
	require.NoError(t, err)

	status := leave.LeaveRequestStatusApproved
	list, err := svc.ListLeaveRequests(ctx, leave.LeaveRequestFilter{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, submitted.ID, list.Requests[0].ID)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
}

func TestLeaveService_ListEntityRequests(t *testing.T) {
	env := newTestEnv(t)
	svc := newFacade(env)
	ctx := context.Background()

	created, err := svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave", DefaultDays: 20})
	require.NoError(t, err)
	s1 := env.staffRef(t, "s1")
	s2 := env.staffRef(t, "s2")

	for _, ref := range []struct {
		ref   string
		start string
	}{
		{"s1", "2025-09-10"},
		{"s2", "2025-09-10"},
	} {
		req := createRequest(created.ID, env.staffRef(t, ref.ref))
		req.StartDate = ref.start
		req.EndDate = ref.start
		_, err = svc.CreateLeaveRequest(ctx, req)
		require.NoError(t, err)
	}

	list, err := svc.ListEntityLeaveRequests(ctx, s1, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, s1.ID, list.Requests[0].EntityID)

	list, err = svc.ListEntityLeaveRequests(ctx, s2, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	require.Len(t, list.Requests, 1)
}
