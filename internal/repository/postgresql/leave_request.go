package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.entity_kind, lr.entity_id, lr.leave_type_id, lr.requested_by,
	lr.start_date, lr.end_date, lr.dates, lr.days, lr.reason, lr.contact_details,
	lr.status, lr.reviewed_by, lr.review_date, lr.review_notes,
	lr.created_at, lr.updated_at,
	lt.name AS leave_type_name,
	COALESCE(s.full_name, d.full_name, u.name) AS entity_name
`

const leaveRequestJoins = `
	FROM leave_requests lr
	JOIN leave_types lt ON lr.leave_type_id = lt.id
	LEFT JOIN staff s ON lr.entity_kind = 'staff' AND lr.entity_id = s.id
	LEFT JOIN doctors d ON lr.entity_kind = 'doctor' AND lr.entity_id = d.id
	LEFT JOIN users u ON lr.entity_kind = 'user' AND lr.entity_id = u.id
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.Entity.Kind, &req.Entity.ID, &req.LeaveTypeID, &req.RequestedBy,
		&req.StartDate, &req.EndDate, &req.Dates, &req.Days, &req.Reason, &req.ContactDetails,
		&req.Status, &req.ReviewedBy, &req.ReviewDate, &req.ReviewNotes,
		&req.CreatedAt, &req.UpdatedAt,
		&req.LeaveTypeName, &req.EntityName,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			id, entity_kind, entity_id, leave_type_id, requested_by,
			start_date, end_date, dates, days, reason, contact_details,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	var dates interface{}
	if len(request.Dates) > 0 {
		dates = request.Dates
	}

	err := q.QueryRow(ctx, query,
		uuid.NewString(), request.Entity.Kind, request.Entity.ID, request.LeaveTypeID, request.RequestedBy,
		request.StartDate, request.EndDate, dates, request.Days, request.Reason, request.ContactDetails,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + leaveRequestJoins + ` WHERE lr.id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// Update implements leave.LeaveRequestRepository. The whole mutable portion
// is rewritten in one statement so a lifecycle transition lands atomically.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	var dates interface{}
	if len(request.Dates) > 0 {
		dates = request.Dates
	}

	query := `
		UPDATE leave_requests
		SET start_date = $1, end_date = $2, dates = $3, days = $4,
		    reason = $5, contact_details = $6, status = $7,
		    reviewed_by = $8, review_date = $9, review_notes = $10,
		    updated_at = NOW()
		WHERE id = $11
	`
	result, err := q.Exec(ctx, query,
		request.StartDate, request.EndDate, dates, request.Days,
		request.Reason, request.ContactDetails, request.Status,
		request.ReviewedBy, request.ReviewDate, request.ReviewNotes,
		request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListActiveInWindow implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListActiveInWindow(ctx context.Context, ref directory.EntityRef, from, to time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestJoins + `
		WHERE lr.entity_kind = $1 AND lr.entity_id = $2
		AND lr.status IN ('pending', 'approved')
		AND lr.start_date <= $3 AND lr.end_date >= $4
	`
	args := []interface{}{ref.Kind, ref.ID, to, from}
	if excludeID != "" {
		query += ` AND lr.id <> $5`
		args = append(args, excludeID)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// ListByEntity implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEntity(ctx context.Context, ref directory.EntityRef, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	conds := []string{"lr.entity_kind = $1", "lr.entity_id = $2"}
	args := []interface{}{ref.Kind, ref.ID}
	return r.list(ctx, filter, conds, args)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	return r.list(ctx, filter, nil, nil)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, filter leave.LeaveRequestFilter, conds []string, args []interface{}) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("lr.status = $%d", len(args)))
	}
	if filter.LeaveTypeID != nil {
		args = append(args, *filter.LeaveTypeID)
		conds = append(conds, fmt.Sprintf("lr.leave_type_id = $%d", len(args)))
	}
	if filter.EntityKind != nil {
		args = append(args, *filter.EntityKind)
		conds = append(conds, fmt.Sprintf("lr.entity_kind = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("lr.end_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("lr.start_date <= $%d", len(args)))
	}

	query := `SELECT ` + leaveRequestColumns + `, COUNT(*) OVER() AS total_count` + leaveRequestJoins
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY lr.created_at DESC`

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (filter.Page-1)*filter.Limit)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var totalCount int64
	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.Entity.Kind, &req.Entity.ID, &req.LeaveTypeID, &req.RequestedBy,
			&req.StartDate, &req.EndDate, &req.Dates, &req.Days, &req.Reason, &req.ContactDetails,
			&req.Status, &req.ReviewedBy, &req.ReviewDate, &req.ReviewNotes,
			&req.CreatedAt, &req.UpdatedAt,
			&req.LeaveTypeName, &req.EntityName,
			&totalCount,
		); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	return requests, totalCount, rows.Err()
}
