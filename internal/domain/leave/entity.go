package leave

import (
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Name        string
	Description *string
	DefaultDays int
	ColorTag    *string
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceEntry holds the four counters kept per leave type inside a balance.
// Counters never go negative; all mutation goes through the ledger repository.
type BalanceEntry struct {
	LeaveTypeID  string
	Allocated    int
	Used         int
	Pending      int
	CarryForward int

	// Joined for responses
	LeaveTypeName *string
}

// Available is allocated + carryForward - used - pending.
func (e BalanceEntry) Available() int {
	return e.Allocated + e.CarryForward - e.Used - e.Pending
}

// LeaveBalance is the per (entity, year) ledger document. Unique on
// (entity_kind, entity_id, year).
type LeaveBalance struct {
	ID      string
	Entity  directory.EntityRef
	Year    int
	Entries []BalanceEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry returns the entry for a leave type, if present.
func (b LeaveBalance) Entry(leaveTypeID string) (BalanceEntry, bool) {
	for _, e := range b.Entries {
		if e.LeaveTypeID == leaveTypeID {
			return e, true
		}
	}
	return BalanceEntry{}, false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// CanTransitionTo reports whether the lifecycle admits the transition:
// pending -> approved|rejected|cancelled, approved -> cancelled;
// rejected and cancelled are terminal.
func (s LeaveRequestStatus) CanTransitionTo(next LeaveRequestStatus) bool {
	switch s {
	case LeaveRequestStatusPending:
		return next == LeaveRequestStatusApproved ||
			next == LeaveRequestStatusRejected ||
			next == LeaveRequestStatusCancelled
	case LeaveRequestStatusApproved:
		return next == LeaveRequestStatusCancelled
	}
	return false
}

// LeaveRequest entity. Exactly one of the two date representations is set:
// a [StartDate, EndDate] inclusive range, or a set of discrete Dates. For
// discrete requests StartDate/EndDate hold the envelope so overlap queries
// stay cheap.
type LeaveRequest struct {
	ID          string
	Entity      directory.EntityRef
	LeaveTypeID string
	RequestedBy string

	StartDate time.Time
	EndDate   time.Time
	Dates     []time.Time

	Days           int
	Reason         string
	ContactDetails *string

	Status      LeaveRequestStatus
	ReviewedBy  *string
	ReviewDate  *time.Time
	ReviewNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	LeaveTypeName *string
	EntityName    *string
}

// IsDiscrete reports whether the request uses the discrete-dates representation.
func (r LeaveRequest) IsDiscrete() bool {
	return len(r.Dates) > 0
}

// OwnedBy reports whether the actor may self-service this request: the
// account that filed it, or the applicant themselves when the request was
// filed on a user's behalf.
func (r LeaveRequest) OwnedBy(actorID string) bool {
	if r.RequestedBy == actorID {
		return true
	}
	return r.Entity.Kind == directory.EntityKindUser && r.Entity.ID == actorID
}
