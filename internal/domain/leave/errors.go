package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveTypeNotFound      = errors.New("leave type not found")
	ErrLeaveTypeInactive      = errors.New("leave type is not active")
	ErrLeaveTypeNameExists    = errors.New("leave type name already exists")
	ErrLeaveRequestNotFound   = errors.New("leave request not found")
	ErrLeaveBalanceNotFound   = errors.New("leave balance not found")
	ErrBalanceEntryNotFound   = errors.New("no balance entry for leave type")
	ErrOverlappingRequest     = errors.New("overlapping leave request")
	ErrRequestAlreadyReviewed = errors.New("leave request already reviewed")
	ErrRequestNotEditable     = errors.New("only pending requests can be edited")
	ErrNotRequestOwner        = errors.New("actor has no rights over this request")
	ErrReviewNotesRequired    = errors.New("review notes are required")
)

// InsufficientBalanceError reports a reservation that exceeds the available
// days. It always carries both numbers so callers can display them.
type InsufficientBalanceError struct {
	LeaveTypeID string
	Available   int
	Requested   int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: available %d, requested %d", e.Available, e.Requested)
}

// Is allows errors.Is(err, ErrInsufficientBalance) against the sentinel.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

var ErrInsufficientBalance = errors.New("insufficient leave balance")
