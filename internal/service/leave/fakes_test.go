package leave

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
)

// In-memory repository fakes backing the service tests. They mirror the
// guarded-counter semantics of the SQL layer, mutex around a map.

// fakeTransactor mimics rollback: when the callback fails, the balance and
// request stores are restored to their pre-call state.
type fakeTransactor struct {
	balances *fakeBalanceRepo
	requests *fakeRequestRepo
}

func (t fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	balances := t.balances.snapshot()
	requests := t.requests.snapshot()
	if err := fn(ctx); err != nil {
		t.balances.restore(balances)
		t.requests.restore(requests)
		return err
	}
	return nil
}

// ===== leave type repository =====

type fakeTypeRepo struct {
	mu    sync.Mutex
	seq   int
	types map[string]leave.LeaveType
	inUse map[string]int64
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{
		types: make(map[string]leave.LeaveType),
		inUse: make(map[string]int64),
	}
}

func (r *fakeTypeRepo) Create(_ context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.types {
		if strings.EqualFold(t.Name, leaveType.Name) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	r.seq++
	leaveType.ID = fmt.Sprintf("type-%d", r.seq)
	leaveType.CreatedAt = time.Now()
	leaveType.UpdatedAt = leaveType.CreatedAt
	r.types[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *fakeTypeRepo) GetByName(_ context.Context, name string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeTypeRepo) List(_ context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveType
	for _, t := range r.types {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTypeRepo) Update(_ context.Context, req leave.UpdateLeaveTypeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[req.ID]
	if !ok {
		return leave.ErrLeaveTypeNotFound
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.DefaultDays != nil {
		t.DefaultDays = *req.DefaultDays
	}
	if req.ColorTag != nil {
		t.ColorTag = req.ColorTag
	}
	t.UpdatedAt = time.Now()
	r.types[req.ID] = t
	return nil
}

func (r *fakeTypeRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[id]
	if !ok {
		return leave.ErrLeaveTypeNotFound
	}
	t.Active = active
	r.types[id] = t
	return nil
}

func (r *fakeTypeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	delete(r.types, id)
	return nil
}

func (r *fakeTypeRepo) CountRequestsUsingType(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inUse[id], nil
}

// ===== leave balance repository =====

type fakeBalanceRepo struct {
	mu       sync.Mutex
	seq      int
	balances map[string]*leave.LeaveBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*leave.LeaveBalance)}
}

func balanceKey(ref directory.EntityRef, year int) string {
	return fmt.Sprintf("%s/%d", ref.String(), year)
}

func copyBalance(b *leave.LeaveBalance) leave.LeaveBalance {
	out := *b
	out.Entries = append([]leave.BalanceEntry(nil), b.Entries...)
	return out
}

func (r *fakeBalanceRepo) Upsert(_ context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(balance.Entity, balance.Year)
	existing, ok := r.balances[key]
	if !ok {
		r.seq++
		balance.ID = fmt.Sprintf("bal-%d", r.seq)
		balance.CreatedAt = time.Now()
		stored := copyBalance(&balance)
		r.balances[key] = &stored
		return copyBalance(&stored), nil
	}
	for _, entry := range balance.Entries {
		if _, found := findEntry(existing, entry.LeaveTypeID); !found {
			existing.Entries = append(existing.Entries, entry)
		}
	}
	return copyBalance(existing), nil
}

func findEntry(b *leave.LeaveBalance, leaveTypeID string) (*leave.BalanceEntry, bool) {
	for i := range b.Entries {
		if b.Entries[i].LeaveTypeID == leaveTypeID {
			return &b.Entries[i], true
		}
	}
	return nil, false
}

func (r *fakeBalanceRepo) byID(balanceID string) (*leave.LeaveBalance, bool) {
	for _, b := range r.balances {
		if b.ID == balanceID {
			return b, true
		}
	}
	return nil, false
}

func (r *fakeBalanceRepo) snapshot() map[string]*leave.LeaveBalance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*leave.LeaveBalance, len(r.balances))
	for k, b := range r.balances {
		c := copyBalance(b)
		out[k] = &c
	}
	return out
}

func (r *fakeBalanceRepo) restore(snap map[string]*leave.LeaveBalance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances = snap
}

func (r *fakeBalanceRepo) GetByEntityYear(_ context.Context, ref directory.EntityRef, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey(ref, year)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return copyBalance(b), nil
}

func (r *fakeBalanceRepo) ListByEntity(_ context.Context, ref directory.EntityRef) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.Entity == ref {
			out = append(out, copyBalance(b))
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) AddEntry(_ context.Context, balanceID string, entry leave.BalanceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID(balanceID)
	if !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	if _, found := findEntry(b, entry.LeaveTypeID); !found {
		b.Entries = append(b.Entries, entry)
	}
	return nil
}

func (r *fakeBalanceRepo) AddPending(_ context.Context, balanceID, leaveTypeID string, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID(balanceID)
	if !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	entry, found := findEntry(b, leaveTypeID)
	if !found {
		return leave.ErrBalanceEntryNotFound
	}
	if entry.Used+entry.Pending+days > entry.Allocated+entry.CarryForward {
		return &leave.InsufficientBalanceError{
			LeaveTypeID: leaveTypeID,
			Available:   entry.Available(),
			Requested:   days,
		}
	}
	entry.Pending += days
	return nil
}

func (r *fakeBalanceRepo) mutate(balanceID, leaveTypeID string, fn func(*leave.BalanceEntry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID(balanceID)
	if !ok {
		return leave.ErrLeaveBalanceNotFound
	}
	entry, found := findEntry(b, leaveTypeID)
	if !found {
		return leave.ErrBalanceEntryNotFound
	}
	fn(entry)
	return nil
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func (r *fakeBalanceRepo) ReleasePending(_ context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutate(balanceID, leaveTypeID, func(e *leave.BalanceEntry) {
		e.Pending = clampZero(e.Pending - days)
	})
}

func (r *fakeBalanceRepo) CommitPending(_ context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutate(balanceID, leaveTypeID, func(e *leave.BalanceEntry) {
		e.Pending = clampZero(e.Pending - days)
		e.Used += days
	})
}

func (r *fakeBalanceRepo) ReverseUsed(_ context.Context, balanceID, leaveTypeID string, days int) error {
	return r.mutate(balanceID, leaveTypeID, func(e *leave.BalanceEntry) {
		e.Used = clampZero(e.Used - days)
	})
}

func (r *fakeBalanceRepo) SetAllocation(_ context.Context, balanceID, leaveTypeID string, allocated int) error {
	return r.mutate(balanceID, leaveTypeID, func(e *leave.BalanceEntry) {
		e.Allocated = allocated
	})
}

func (r *fakeBalanceRepo) SetCarryForward(_ context.Context, balanceID, leaveTypeID string, carryForward int) error {
	return r.mutate(balanceID, leaveTypeID, func(e *leave.BalanceEntry) {
		e.CarryForward = carryForward
	})
}

// ===== leave request repository =====

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]leave.LeaveRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = fmt.Sprintf("req-%d", r.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) snapshot() map[string]leave.LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]leave.LeaveRequest, len(r.requests))
	for k, v := range r.requests {
		out[k] = v
	}
	return out
}

func (r *fakeRequestRepo) restore(snap map[string]leave.LeaveRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = snap
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) Update(_ context.Context, request leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	request.UpdatedAt = time.Now()
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) ListActiveInWindow(_ context.Context, ref directory.EntityRef, from, to time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.Entity != ref || req.ID == excludeID {
			continue
		}
		if req.Status != leave.LeaveRequestStatusPending && req.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if req.StartDate.After(to) || req.EndDate.Before(from) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) matches(req leave.LeaveRequest, filter leave.LeaveRequestFilter) bool {
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.LeaveTypeID != nil && req.LeaveTypeID != *filter.LeaveTypeID {
		return false
	}
	if filter.EntityKind != nil && req.Entity.Kind != *filter.EntityKind {
		return false
	}
	if filter.From != nil && req.EndDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && req.StartDate.After(*filter.To) {
		return false
	}
	return true
}

func (r *fakeRequestRepo) ListByEntity(_ context.Context, ref directory.EntityRef, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.Entity == ref && r.matches(req, filter) {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if r.matches(req, filter) {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

// ===== directory =====

type fakeDirectory struct {
	entities map[string]directory.Entity
	admins   []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		entities: make(map[string]directory.Entity),
		admins:   []string{"admin@clinic.test"},
	}
}

func (d *fakeDirectory) add(ref directory.EntityRef, name string) {
	d.entities[ref.String()] = directory.Entity{
		ID:          ref.ID,
		DisplayName: name,
		Email:       ref.ID + "@clinic.test",
	}
}

func (d *fakeDirectory) Resolve(_ context.Context, ref directory.EntityRef) (directory.Entity, error) {
	if !ref.Kind.Valid() {
		return directory.Entity{}, directory.ErrUnknownEntityKind
	}
	entity, ok := d.entities[ref.String()]
	if !ok {
		return directory.Entity{}, directory.ErrEntityNotFound
	}
	return entity, nil
}

func (d *fakeDirectory) AdminEmails(_ context.Context) ([]string, error) {
	return d.admins, nil
}
