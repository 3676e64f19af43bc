package leave

import (
	"errors"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrDuplicateDates   = errors.New("duplicate dates supplied")
	ErrNoDates          = errors.New("no leave dates supplied")
	ErrAmbiguousDates   = errors.New("exactly one of date range or discrete dates must be supplied")
)

// DateOnly truncates a time to its calendar date at midnight UTC. All day
// arithmetic in the leave engine operates on normalized dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CountRangeDays returns the inclusive day count of [start, end].
func CountRangeDays(start, end time.Time) (int, error) {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// DaySet is the set of calendar dates a request occupies.
type DaySet map[time.Time]struct{}

// NewDaySet builds a day set from discrete dates. Duplicates after
// normalization are rejected rather than silently collapsed.
func NewDaySet(dates []time.Time) (DaySet, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	set := make(DaySet, len(dates))
	for _, d := range dates {
		day := DateOnly(d)
		if _, ok := set[day]; ok {
			return nil, ErrDuplicateDates
		}
		set[day] = struct{}{}
	}
	return set, nil
}

// RangeDaySet expands an inclusive [start, end] range into its day set.
func RangeDaySet(start, end time.Time) (DaySet, error) {
	days, err := CountRangeDays(start, end)
	if err != nil {
		return nil, err
	}
	set := make(DaySet, days)
	day := DateOnly(start)
	for i := 0; i < days; i++ {
		set[day] = struct{}{}
		day = day.AddDate(0, 0, 1)
	}
	return set, nil
}

// Intersects reports whether the two sets share a calendar date.
func (s DaySet) Intersects(other DaySet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for day := range small {
		if _, ok := large[day]; ok {
			return true
		}
	}
	return false
}

// Bounds returns the earliest and latest dates in the set.
func (s DaySet) Bounds() (start, end time.Time) {
	for day := range s {
		if start.IsZero() || day.Before(start) {
			start = day
		}
		if end.IsZero() || day.After(end) {
			end = day
		}
	}
	return start, end
}

// DaySet returns the day set a request occupies, from whichever date
// representation it carries.
func (r LeaveRequest) DaySet() (DaySet, error) {
	if r.IsDiscrete() {
		return NewDaySet(r.Dates)
	}
	return RangeDaySet(r.StartDate, r.EndDate)
}
