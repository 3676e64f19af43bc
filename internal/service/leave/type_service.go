package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
)

// TypeService owns the leave type registry.
type TypeService struct {
	leave.LeaveTypeRepository
}

func NewTypeService(leaveTypeRepository leave.LeaveTypeRepository) *TypeService {
	return &TypeService{LeaveTypeRepository: leaveTypeRepository}
}

func (s *TypeService) Create(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	_, err := s.LeaveTypeRepository.GetByName(ctx, req.Name)
	if err == nil {
		return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
	}
	if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.LeaveType{}, fmt.Errorf("failed to check leave type name: %w", err)
	}

	leaveType := leave.LeaveType{
		Name:        req.Name,
		Description: req.Description,
		DefaultDays: req.DefaultDays,
		ColorTag:    req.ColorTag,
		Active:      true,
	}
	leaveType, err = s.LeaveTypeRepository.Create(ctx, leaveType)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leaveType, nil
}

func (s *TypeService) Update(ctx context.Context, req leave.UpdateLeaveTypeRequest) error {
	current, err := s.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.Name != nil && *req.Name != current.Name {
		existing, err := s.LeaveTypeRepository.GetByName(ctx, *req.Name)
		if err == nil && existing.ID != req.ID {
			return leave.ErrLeaveTypeNameExists
		}
		if err != nil && !errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return fmt.Errorf("failed to check leave type name: %w", err)
		}
	}

	if err := s.LeaveTypeRepository.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}

	return nil
}

// Delete removes a leave type. Changing a type's default days or deleting it
// never rewrites balances that were already initialized from it.
func (s *TypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.LeaveTypeRepository.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.LeaveTypeRepository.CountRequestsUsingType(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count requests using leave type: %w", err)
	}
	if count > 0 {
		slog.Warn("deleting leave type still referenced by requests",
			"leave_type_id", id,
			"request_count", count,
		)
	}

	if err := s.LeaveTypeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}

	return nil
}
