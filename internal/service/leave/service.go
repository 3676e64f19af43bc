package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/notification"
)

// LeaveServiceImpl composes the registry, ledger and lifecycle sub-services
// behind the single leave.LeaveService surface the handlers consume.
type LeaveServiceImpl struct {
	types    *TypeService
	balances *BalanceService
	requests *RequestService
	leave.LeaveRequestRepository
	directory directory.Directory
	notifier  notification.Notifier
}

func NewLeaveService(
	types *TypeService,
	balances *BalanceService,
	requests *RequestService,
	leaveRequestRepository leave.LeaveRequestRepository,
	dir directory.Directory,
	notifier notification.Notifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		types:                  types,
		balances:               balances,
		requests:               requests,
		LeaveRequestRepository: leaveRequestRepository,
		directory:              dir,
		notifier:               notifier,
	}
}

// ===== Type registry =====

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	return l.types.Create(ctx, req)
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	return l.types.Update(ctx, req)
}

// GetLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveType, error) {
	return l.types.GetByID(ctx, id)
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]leave.LeaveTypeResponse, error) {
	types, err := l.types.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, toLeaveTypeResponse(t))
	}
	return responses, nil
}

// SetLeaveTypeActive implements leave.LeaveService.
func (l *LeaveServiceImpl) SetLeaveTypeActive(ctx context.Context, id string, active bool) error {
	return l.types.SetActive(ctx, id, active)
}

// DeleteLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) DeleteLeaveType(ctx context.Context, id string) error {
	return l.types.Delete(ctx, id)
}

// ===== Balance ledger =====

// GetOrInitBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetOrInitBalance(ctx context.Context, ref directory.EntityRef, year int) (leave.LeaveBalanceResponse, error) {
	if _, err := l.directory.Resolve(ctx, ref); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	balance, err := l.balances.GetOrInit(ctx, ref, year)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return toBalanceResponse(balance), nil
}

// ListBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, ref directory.EntityRef) ([]leave.LeaveBalanceResponse, error) {
	if _, err := l.directory.Resolve(ctx, ref); err != nil {
		return nil, err
	}

	balances, err := l.balances.ListByEntity(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, toBalanceResponse(b))
	}
	return responses, nil
}

// AdjustBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalanceResponse, error) {
	if _, err := l.directory.Resolve(ctx, req.Ref()); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	balance, err := l.balances.Adjust(ctx, req)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return toBalanceResponse(balance), nil
}

// ===== Request lifecycle =====

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.Create(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyAsync(ctx, request, notification.TemplateLeaveRequestSubmitted)

	return toRequestResponse(request), nil
}

// UpdateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveRequest(ctx context.Context, actorID string, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.Update(ctx, actorID, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(request), nil
}

// CancelLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, actorID, requestID, reason string) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.Cancel(ctx, actorID, requestID, reason)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyAsync(ctx, request, notification.TemplateLeaveRequestCancelled)

	return toRequestResponse(request), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, adminID string, req leave.ReviewRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.Approve(ctx, adminID, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyAsync(ctx, request, notification.TemplateLeaveRequestApproved)

	return toRequestResponse(request), nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, adminID string, req leave.ReviewRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requests.Reject(ctx, adminID, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyAsync(ctx, request, notification.TemplateLeaveRequestRejected)

	return toRequestResponse(request), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.Normalize()

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return toListResponse(requests, total, filter), nil
}

// ListEntityLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListEntityLeaveRequests(ctx context.Context, ref directory.EntityRef, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if _, err := l.directory.Resolve(ctx, ref); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	filter.Normalize()

	requests, total, err := l.LeaveRequestRepository.ListByEntity(ctx, ref, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return toListResponse(requests, total, filter), nil
}

// ===== Notifications =====

// notifyAsync delivers the lifecycle notification off the request path.
// Submitted and cancelled events go to the administrators, review outcomes
// go to the applicant. Failures are logged and never surfaced to the caller.
func (l *LeaveServiceImpl) notifyAsync(ctx context.Context, request leave.LeaveRequest, template notification.TemplateKey) {
	if l.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		entity, err := l.directory.Resolve(ctx, request.Entity)
		if err != nil {
			slog.Error("failed to resolve entity for notification", "entity", request.Entity.String(), "error", err)
			return
		}

		var recipients []string
		switch template {
		case notification.TemplateLeaveRequestSubmitted, notification.TemplateLeaveRequestCancelled:
			recipients, err = l.directory.AdminEmails(ctx)
			if err != nil {
				slog.Error("failed to list admin emails for notification", "error", err)
				return
			}
		default:
			recipients = []string{entity.Email}
		}
		if len(recipients) == 0 {
			return
		}

		leaveTypeName := request.LeaveTypeID
		if request.LeaveTypeName != nil {
			leaveTypeName = *request.LeaveTypeName
		} else if leaveType, err := l.types.GetByID(ctx, request.LeaveTypeID); err == nil {
			leaveTypeName = leaveType.Name
		}

		data := map[string]string{
			"ApplicantName": entity.DisplayName,
			"LeaveTypeName": leaveTypeName,
			"Days":          strconv.Itoa(request.Days),
			"Period":        formatPeriod(request),
			"Reason":        request.Reason,
		}
		if request.ReviewNotes != nil {
			data["Notes"] = *request.ReviewNotes
		}

		if err := l.notifier.Send(ctx, recipients, template, data); err != nil {
			slog.Error("failed to send leave notification",
				"template", string(template),
				"request_id", request.ID,
				"error", err,
			)
		}
	}()
}

func formatPeriod(request leave.LeaveRequest) string {
	if request.IsDiscrete() {
		parts := make([]string, 0, len(request.Dates))
		for _, d := range request.Dates {
			parts = append(parts, d.Format("2006-01-02"))
		}
		return strings.Join(parts, ", ")
	}
	if request.StartDate.Equal(request.EndDate) {
		return request.StartDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"))
}

// ===== Response mapping =====

func toLeaveTypeResponse(t leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DefaultDays: t.DefaultDays,
		ColorTag:    t.ColorTag,
		Active:      t.Active,
	}
}

func toBalanceResponse(b leave.LeaveBalance) leave.LeaveBalanceResponse {
	entries := make([]leave.BalanceEntryResponse, 0, len(b.Entries))
	for _, e := range b.Entries {
		entries = append(entries, leave.BalanceEntryResponse{
			LeaveTypeID:   e.LeaveTypeID,
			LeaveTypeName: e.LeaveTypeName,
			Allocated:     e.Allocated,
			Used:          e.Used,
			Pending:       e.Pending,
			CarryForward:  e.CarryForward,
			Available:     e.Available(),
		})
	}
	return leave.LeaveBalanceResponse{
		ID:         b.ID,
		EntityKind: string(b.Entity.Kind),
		EntityID:   b.Entity.ID,
		Year:       b.Year,
		Entries:    entries,
	}
}

func toRequestResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	var dates []string
	for _, d := range r.Dates {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return leave.LeaveRequestResponse{
		ID:             r.ID,
		EntityKind:     string(r.Entity.Kind),
		EntityID:       r.Entity.ID,
		EntityName:     r.EntityName,
		LeaveTypeID:    r.LeaveTypeID,
		LeaveTypeName:  r.LeaveTypeName,
		RequestedBy:    r.RequestedBy,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		Dates:          dates,
		Days:           r.Days,
		Reason:         r.Reason,
		ContactDetails: r.ContactDetails,
		Status:         string(r.Status),
		ReviewedBy:     r.ReviewedBy,
		ReviewDate:     r.ReviewDate,
		ReviewNotes:    r.ReviewNotes,
		CreatedAt:      r.CreatedAt,
	}
}

func toListResponse(requests []leave.LeaveRequest, total int64, filter leave.LeaveRequestFilter) leave.ListLeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}
	return leave.ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}
}
