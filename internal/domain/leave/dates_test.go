package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestCountRangeDays(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    int
		wantErr error
	}{
		{name: "six day range", start: "2025-09-10", end: "2025-09-15", want: 6},
		{name: "single day", start: "2025-09-10", end: "2025-09-10", want: 1},
		{name: "across month boundary", start: "2025-09-29", end: "2025-10-02", want: 4},
		{name: "across year boundary", start: "2025-12-30", end: "2026-01-02", want: 4},
		{name: "end before start", start: "2025-09-15", end: "2025-09-10", wantErr: ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountRangeDays(day(t, tt.start), day(t, tt.end))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountRangeDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 9, 10, 23, 30, 0, 0, time.UTC)
	end := time.Date(2025, 9, 11, 0, 15, 0, 0, time.UTC)

	got, err := CountRangeDays(start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestNewDaySet(t *testing.T) {
	set, err := NewDaySet([]time.Time{day(t, "2025-09-10"), day(t, "2025-09-12"), day(t, "2025-09-14")})
	require.NoError(t, err)
	assert.Len(t, set, 3)

	start, end := set.Bounds()
	assert.Equal(t, day(t, "2025-09-10"), start)
	assert.Equal(t, day(t, "2025-09-14"), end)
}

func TestNewDaySet_RejectsDuplicates(t *testing.T) {
	_, err := NewDaySet([]time.Time{day(t, "2025-09-10"), day(t, "2025-09-10")})
	assert.ErrorIs(t, err, ErrDuplicateDates)
}

func TestNewDaySet_RejectsEmpty(t *testing.T) {
	_, err := NewDaySet(nil)
	assert.ErrorIs(t, err, ErrNoDates)
}

func TestDaySetIntersects(t *testing.T) {
	rangeSet, err := RangeDaySet(day(t, "2025-09-10"), day(t, "2025-09-15"))
	require.NoError(t, err)

	touching, err := NewDaySet([]time.Time{day(t, "2025-09-15")})
	require.NoError(t, err)
	assert.True(t, rangeSet.Intersects(touching))

	disjoint, err := NewDaySet([]time.Time{day(t, "2025-09-16"), day(t, "2025-09-18")})
	require.NoError(t, err)
	assert.False(t, rangeSet.Intersects(disjoint))

	// Interleaved envelopes with disjoint days do not intersect.
	odd, err := NewDaySet([]time.Time{day(t, "2025-09-01"), day(t, "2025-09-03")})
	require.NoError(t, err)
	even, err := NewDaySet([]time.Time{day(t, "2025-09-02"), day(t, "2025-09-04")})
	require.NoError(t, err)
	assert.False(t, odd.Intersects(even))
}

func TestLeaveRequestDaySet(t *testing.T) {
	ranged := LeaveRequest{StartDate: day(t, "2025-09-10"), EndDate: day(t, "2025-09-12")}
	set, err := ranged.DaySet()
	require.NoError(t, err)
	assert.Len(t, set, 3)

	discrete := LeaveRequest{Dates: []time.Time{day(t, "2025-09-10"), day(t, "2025-09-20")}}
	set, err = discrete.DaySet()
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, LeaveRequestStatusPending.CanTransitionTo(LeaveRequestStatusApproved))
	assert.True(t, LeaveRequestStatusPending.CanTransitionTo(LeaveRequestStatusRejected))
	assert.True(t, LeaveRequestStatusPending.CanTransitionTo(LeaveRequestStatusCancelled))
	assert.True(t, LeaveRequestStatusApproved.CanTransitionTo(LeaveRequestStatusCancelled))

	assert.False(t, LeaveRequestStatusApproved.CanTransitionTo(LeaveRequestStatusRejected))
	assert.False(t, LeaveRequestStatusRejected.CanTransitionTo(LeaveRequestStatusApproved))
	assert.False(t, LeaveRequestStatusRejected.CanTransitionTo(LeaveRequestStatusCancelled))
	assert.False(t, LeaveRequestStatusCancelled.CanTransitionTo(LeaveRequestStatusPending))
}

func TestBalanceEntryAvailable(t *testing.T) {
	entry := BalanceEntry{Allocated: 12, CarryForward: 3, Used: 4, Pending: 2}
	assert.Equal(t, 9, entry.Available())
}
