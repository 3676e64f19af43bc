package leave

import (
	"time"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/validator"
)

type CreateLeaveTypeRequest struct {
	Name        string  `json:"leave_type_name"`
	Description *string `json:"leave_type_description,omitempty"`
	DefaultDays int     `json:"default_days"`
	ColorTag    *string `json:"color_tag,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name must not exceed 255 characters",
		})
	}

	if r.DefaultDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days",
			Message: "default_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID          string  `json:"leave_type_id"`
	Name        *string `json:"leave_type_name,omitempty"`
	Description *string `json:"leave_type_description,omitempty"`
	DefaultDays *int    `json:"default_days,omitempty"`
	ColorTag    *string `json:"color_tag,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not exceed 255 characters",
			})
		}
	}

	if r.DefaultDays != nil && *r.DefaultDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "default_days",
			Message: "default_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EntityRefRequest is the wire form of a tagged entity reference.
type EntityRefRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
}

func (r *EntityRefRequest) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !directory.EntityKind(r.EntityKind).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "entity_kind",
			Message: "entity_kind must be one of staff, doctor, user",
		})
	}
	if validator.IsEmpty(r.EntityID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entity_id",
			Message: "entity_id is required",
		})
	}

	return errs
}

func (r *EntityRefRequest) Ref() directory.EntityRef {
	return directory.EntityRef{Kind: directory.EntityKind(r.EntityKind), ID: r.EntityID}
}

type CreateLeaveRequestRequest struct {
	EntityRefRequest
	LeaveTypeID    string   `json:"leave_type_id"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	Dates          []string `json:"dates,omitempty"`
	Reason         string   `json:"reason"`
	ContactDetails *string  `json:"contact_details,omitempty"`

	// Set from the authenticated caller, never from the body.
	RequestedBy string `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	errs := r.EntityRefRequest.Validate()

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	hasRange := r.StartDate != "" || r.EndDate != ""
	hasDates := len(r.Dates) > 0
	switch {
	case hasRange && hasDates:
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "supply either start_date/end_date or dates, not both",
		})
	case !hasRange && !hasDates:
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "either start_date/end_date or dates is required",
		})
	case hasRange:
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be a valid date (YYYY-MM-DD)",
			})
		}
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	default:
		for _, d := range r.Dates {
			if _, ok := validator.IsValidDate(d); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "dates",
					Message: "dates must all be valid dates (YYYY-MM-DD)",
				})
				break
			}
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveRequestRequest struct {
	ID             string   `json:"request_id"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	Dates          []string `json:"dates,omitempty"`
	Reason         *string  `json:"reason,omitempty"`
	ContactDetails *string  `json:"contact_details,omitempty"`
}

// ChangesDates reports whether the update touches the date representation.
func (r *UpdateLeaveRequestRequest) ChangesDates() bool {
	return r.StartDate != nil || r.EndDate != nil || len(r.Dates) > 0
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	hasRange := r.StartDate != nil || r.EndDate != nil
	if hasRange && len(r.Dates) > 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "supply either start_date/end_date or dates, not both",
		})
	}
	if hasRange && (r.StartDate == nil || r.EndDate == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be supplied together",
		})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}
	for _, d := range r.Dates {
		if _, ok := validator.IsValidDate(d); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dates",
				Message: "dates must all be valid dates (YYYY-MM-DD)",
			})
			break
		}
	}

	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequestRequest struct {
	RequestID string `json:"request_id"`
	Notes     string `json:"notes"`
}

func (r *ReviewRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustBalanceRequest struct {
	EntityRefRequest
	Year        int    `json:"year"`
	LeaveTypeID string `json:"leave_type_id"`
	// Exactly one of the two overrides must be set.
	Allocated    *int `json:"allocated,omitempty"`
	CarryForward *int `json:"carry_forward,omitempty"`
}

func (r *AdjustBalanceRequest) Validate() error {
	errs := r.EntityRefRequest.Validate()

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if (r.Allocated == nil) == (r.CarryForward == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "allocated",
			Message: "exactly one of allocated or carry_forward must be supplied",
		})
	}
	if r.Allocated != nil && *r.Allocated < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "allocated",
			Message: "allocated must not be negative",
		})
	}
	if r.CarryForward != nil && *r.CarryForward < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "carry_forward",
			Message: "carry_forward must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LeaveRequestFilter composes the optional filters of the list endpoints.
type LeaveRequestFilter struct {
	Status      *LeaveRequestStatus
	LeaveTypeID *string
	EntityKind  *directory.EntityKind
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

func (f *LeaveRequestFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

// ===== Responses =====

type LeaveTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DefaultDays int     `json:"default_days"`
	ColorTag    *string `json:"color_tag,omitempty"`
	Active      bool    `json:"active"`
}

type BalanceEntryResponse struct {
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
	Allocated     int     `json:"allocated"`
	Used          int     `json:"used"`
	Pending       int     `json:"pending"`
	CarryForward  int     `json:"carry_forward"`
	Available     int     `json:"available"`
}

type LeaveBalanceResponse struct {
	ID         string                 `json:"id"`
	EntityKind string                 `json:"entity_kind"`
	EntityID   string                 `json:"entity_id"`
	Year       int                    `json:"year"`
	Entries    []BalanceEntryResponse `json:"entries"`
}

type LeaveRequestResponse struct {
	ID             string     `json:"id"`
	EntityKind     string     `json:"entity_kind"`
	EntityID       string     `json:"entity_id"`
	EntityName     *string    `json:"entity_name,omitempty"`
	LeaveTypeID    string     `json:"leave_type_id"`
	LeaveTypeName  *string    `json:"leave_type_name,omitempty"`
	RequestedBy    string     `json:"requested_by"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Dates          []string   `json:"dates,omitempty"`
	Days           int        `json:"days"`
	Reason         string     `json:"reason"`
	ContactDetails *string    `json:"contact_details,omitempty"`
	Status         string     `json:"status"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
	ReviewNotes    *string    `json:"review_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Requests   []LeaveRequestResponse `json:"requests"`
}
