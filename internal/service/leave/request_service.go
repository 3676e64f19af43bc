package leave

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
)

// RequestService owns the leave request lifecycle. Every transition that
// moves balance counters runs inside one transaction together with the
// request write, so the ledger and the request never diverge.
type RequestService struct {
	tx Transactor
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	balances  *BalanceService
	directory directory.Directory
}

func NewRequestService(
	tx Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	balances *BalanceService,
	dir directory.Directory,
) *RequestService {
	return &RequestService{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		balances:               balances,
		directory:              dir,
	}
}

// requestDays is the parsed, normalized form of a request's dates: the day
// set, the discrete dates (sorted, empty for ranges) and the envelope.
type requestDays struct {
	set   leave.DaySet
	dates []time.Time
	start time.Time
	end   time.Time
}

func (d requestDays) count() int { return len(d.set) }

func parseRequestDays(startDate, endDate string, dates []string) (requestDays, error) {
	if len(dates) > 0 {
		if startDate != "" || endDate != "" {
			return requestDays{}, leave.ErrAmbiguousDates
		}
		parsed := make([]time.Time, 0, len(dates))
		for _, d := range dates {
			day, err := time.Parse("2006-01-02", d)
			if err != nil {
				return requestDays{}, fmt.Errorf("failed to parse date %q: %w", d, err)
			}
			parsed = append(parsed, leave.DateOnly(day))
		}
		set, err := leave.NewDaySet(parsed)
		if err != nil {
			return requestDays{}, err
		}
		sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })
		start, end := set.Bounds()
		return requestDays{set: set, dates: parsed, start: start, end: end}, nil
	}

	if startDate == "" || endDate == "" {
		return requestDays{}, leave.ErrNoDates
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return requestDays{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return requestDays{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	set, err := leave.RangeDaySet(start, end)
	if err != nil {
		return requestDays{}, err
	}
	return requestDays{set: set, start: leave.DateOnly(start), end: leave.DateOnly(end)}, nil
}

// checkOverlap rejects the day set when it shares a date with any of the
// entity's pending or approved requests. The window query prefilters on the
// envelope; the exact day-set intersection decides, so two discrete-date
// requests interleaved in the same week can coexist.
func (s *RequestService) checkOverlap(ctx context.Context, ref directory.EntityRef, days requestDays, excludeID string) error {
	existing, err := s.LeaveRequestRepository.ListActiveInWindow(ctx, ref, days.start, days.end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to list requests in window: %w", err)
	}
	for _, req := range existing {
		otherSet, err := req.DaySet()
		if err != nil {
			return fmt.Errorf("failed to expand request %s dates: %w", req.ID, err)
		}
		if days.set.Intersects(otherSet) {
			return leave.ErrOverlappingRequest
		}
	}
	return nil
}

func (s *RequestService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	ref := req.Ref()
	if _, err := s.directory.Resolve(ctx, ref); err != nil {
		return leave.LeaveRequest{}, err
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !leaveType.Active {
		return leave.LeaveRequest{}, leave.ErrLeaveTypeInactive
	}

	days, err := parseRequestDays(req.StartDate, req.EndDate, req.Dates)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if err := s.checkOverlap(ctx, ref, days, ""); err != nil {
		return leave.LeaveRequest{}, err
	}

	request := leave.LeaveRequest{
		Entity:         ref,
		LeaveTypeID:    leaveType.ID,
		RequestedBy:    req.RequestedBy,
		StartDate:      days.start,
		EndDate:        days.end,
		Dates:          days.dates,
		Days:           days.count(),
		Reason:         req.Reason,
		ContactDetails: req.ContactDetails,
		Status:         leave.LeaveRequestStatusPending,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.balances.GetOrInit(ctx, ref, days.start.Year())
		if err != nil {
			return err
		}
		if err := s.balances.Reserve(ctx, balance, leaveType.ID, days.count()); err != nil {
			return err
		}
		request, err = s.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) Update(ctx context.Context, actorID string, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !request.OwnedBy(actorID) {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrRequestNotEditable
	}

	if req.Reason != nil {
		request.Reason = *req.Reason
	}
	if req.ContactDetails != nil {
		request.ContactDetails = req.ContactDetails
	}

	if !req.ChangesDates() {
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
		}
		return request, nil
	}

	var startDate, endDate string
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	days, err := parseRequestDays(startDate, endDate, req.Dates)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if err := s.checkOverlap(ctx, request.Entity, days, request.ID); err != nil {
		return leave.LeaveRequest{}, err
	}

	oldDays := request.Days
	oldYear := request.StartDate.Year()

	request.StartDate = days.start
	request.EndDate = days.end
	request.Dates = days.dates
	request.Days = days.count()

	// Release the old reservation before taking the new one so an edit that
	// shrinks or keeps the day count never trips the balance guard.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		oldBalance, err := s.balances.GetByEntityYear(ctx, request.Entity, oldYear)
		if err != nil {
			return err
		}
		if err := s.balances.ReleasePending(ctx, oldBalance.ID, request.LeaveTypeID, oldDays); err != nil {
			return fmt.Errorf("failed to release pending days: %w", err)
		}
		newBalance, err := s.balances.GetOrInit(ctx, request.Entity, days.start.Year())
		if err != nil {
			return err
		}
		if err := s.balances.Reserve(ctx, newBalance, request.LeaveTypeID, days.count()); err != nil {
			return err
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) Cancel(ctx context.Context, actorID, requestID, reason string) (leave.LeaveRequest, error) {
	if reason == "" {
		return leave.LeaveRequest{}, leave.ErrReviewNotesRequired
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !request.OwnedBy(actorID) {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}
	if !request.Status.CanTransitionTo(leave.LeaveRequestStatusCancelled) {
		return leave.LeaveRequest{}, leave.ErrRequestAlreadyReviewed
	}

	priorStatus := request.Status
	now := time.Now()
	request.Status = leave.LeaveRequestStatusCancelled
	request.ReviewedBy = &actorID
	request.ReviewDate = &now
	request.ReviewNotes = &reason

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.balances.GetByEntityYear(ctx, request.Entity, request.StartDate.Year())
		if err != nil {
			return err
		}
		switch priorStatus {
		case leave.LeaveRequestStatusPending:
			if err := s.balances.ReleasePending(ctx, balance.ID, request.LeaveTypeID, request.Days); err != nil {
				return fmt.Errorf("failed to release pending days: %w", err)
			}
		case leave.LeaveRequestStatusApproved:
			if err := s.balances.ReverseUsed(ctx, balance.ID, request.LeaveTypeID, request.Days); err != nil {
				return fmt.Errorf("failed to reverse used days: %w", err)
			}
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) Approve(ctx context.Context, adminID string, req leave.ReviewRequestRequest) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrRequestAlreadyReviewed
	}

	now := time.Now()
	request.Status = leave.LeaveRequestStatusApproved
	request.ReviewedBy = &adminID
	request.ReviewDate = &now
	if req.Notes != "" {
		request.ReviewNotes = &req.Notes
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.balances.GetByEntityYear(ctx, request.Entity, request.StartDate.Year())
		if err != nil {
			return err
		}
		if err := s.balances.CommitPending(ctx, balance.ID, request.LeaveTypeID, request.Days); err != nil {
			return fmt.Errorf("failed to commit pending days: %w", err)
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (s *RequestService) Reject(ctx context.Context, adminID string, req leave.ReviewRequestRequest) (leave.LeaveRequest, error) {
	if req.Notes == "" {
		return leave.LeaveRequest{}, leave.ErrReviewNotesRequired
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrRequestAlreadyReviewed
	}

	now := time.Now()
	request.Status = leave.LeaveRequestStatusRejected
	request.ReviewedBy = &adminID
	request.ReviewDate = &now
	request.ReviewNotes = &req.Notes

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.balances.GetByEntityYear(ctx, request.Entity, request.StartDate.Year())
		if err != nil {
			return err
		}
		if err := s.balances.ReleasePending(ctx, balance.ID, request.LeaveTypeID, request.Days); err != nil {
			return fmt.Errorf("failed to release pending days: %w", err)
		}
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}
