package leave

import (
	"context"
	"fmt"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
)

// BalanceService owns the per (entity, year) leave ledgers.
type BalanceService struct {
	leave.LeaveBalanceRepository
	leave.LeaveTypeRepository
}

func NewBalanceService(
	balanceRepository leave.LeaveBalanceRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
) *BalanceService {
	return &BalanceService{
		LeaveBalanceRepository: balanceRepository,
		LeaveTypeRepository:    leaveTypeRepository,
	}
}

// GetOrInit returns the entity's ledger for the year, creating it on first
// touch with one entry per active leave type seeded from its default days.
// Concurrent callers converge on the same document.
func (s *BalanceService) GetOrInit(ctx context.Context, ref directory.EntityRef, year int) (leave.LeaveBalance, error) {
	types, err := s.LeaveTypeRepository.List(ctx, true)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to list leave types: %w", err)
	}

	balance := leave.LeaveBalance{
		Entity: ref,
		Year:   year,
	}
	for _, t := range types {
		balance.Entries = append(balance.Entries, leave.BalanceEntry{
			LeaveTypeID: t.ID,
			Allocated:   t.DefaultDays,
		})
	}

	balance, err = s.LeaveBalanceRepository.Upsert(ctx, balance)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to initialize leave balance: %w", err)
	}

	return balance, nil
}

// EnsureEntry guarantees the balance holds an entry for the leave type,
// adding one seeded from the type's current default days when the type was
// registered after the balance was initialized.
func (s *BalanceService) EnsureEntry(ctx context.Context, balance leave.LeaveBalance, leaveTypeID string) (leave.BalanceEntry, error) {
	if entry, ok := balance.Entry(leaveTypeID); ok {
		return entry, nil
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		return leave.BalanceEntry{}, err
	}

	entry := leave.BalanceEntry{
		LeaveTypeID: leaveType.ID,
		Allocated:   leaveType.DefaultDays,
	}
	if err := s.LeaveBalanceRepository.AddEntry(ctx, balance.ID, entry); err != nil {
		return leave.BalanceEntry{}, fmt.Errorf("failed to add balance entry: %w", err)
	}

	return entry, nil
}

// AvailableFor reports the remaining days for one leave type, lazily adding
// an entry for types registered after the ledger was initialized.
func (s *BalanceService) AvailableFor(ctx context.Context, ref directory.EntityRef, year int, leaveTypeID string) (int, error) {
	balance, err := s.GetOrInit(ctx, ref, year)
	if err != nil {
		return 0, err
	}
	entry, err := s.EnsureEntry(ctx, balance, leaveTypeID)
	if err != nil {
		return 0, err
	}
	return entry.Available(), nil
}

// Reserve moves days into pending, failing when the guard would let
// used + pending exceed allocated + carry forward.
func (s *BalanceService) Reserve(ctx context.Context, balance leave.LeaveBalance, leaveTypeID string, days int) error {
	if _, err := s.EnsureEntry(ctx, balance, leaveTypeID); err != nil {
		return err
	}
	return s.LeaveBalanceRepository.AddPending(ctx, balance.ID, leaveTypeID, days)
}

// Adjust overrides an entry's allocation or carry forward for one entity and
// year, initializing the ledger first when absent.
func (s *BalanceService) Adjust(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalance, error) {
	ref := req.Ref()
	balance, err := s.GetOrInit(ctx, ref, req.Year)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	if _, err := s.EnsureEntry(ctx, balance, req.LeaveTypeID); err != nil {
		return leave.LeaveBalance{}, err
	}

	switch {
	case req.Allocated != nil:
		err = s.LeaveBalanceRepository.SetAllocation(ctx, balance.ID, req.LeaveTypeID, *req.Allocated)
	case req.CarryForward != nil:
		err = s.LeaveBalanceRepository.SetCarryForward(ctx, balance.ID, req.LeaveTypeID, *req.CarryForward)
	}
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to adjust balance entry: %w", err)
	}

	balance, err = s.LeaveBalanceRepository.GetByEntityYear(ctx, ref, req.Year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to reload balance: %w", err)
	}

	return balance, nil
}
