package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/auth"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/leave"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/user"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		BadRequest(w, "Validation failed", validationErrs.ToMap())
		return
	}

	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		BadRequest(w, "Insufficient leave balance", map[string]string{
			"leave_type_id": insufficient.LeaveTypeID,
			"available":     strconv.Itoa(insufficient.Available),
			"requested":     strconv.Itoa(insufficient.Requested),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Administrator privileges required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Directory errors
	case errors.Is(err, directory.ErrEntityNotFound):
		NotFound(w, "Entity not found")
	case errors.Is(err, directory.ErrUnknownEntityKind):
		BadRequest(w, "Unknown entity kind", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrBalanceEntryNotFound):
		NotFound(w, "No balance entry for leave type")
	case errors.Is(err, leave.ErrLeaveTypeNameExists):
		Conflict(w, "Leave type name already exists")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "Overlapping leave request exists")
	case errors.Is(err, leave.ErrRequestAlreadyReviewed):
		Conflict(w, "Leave request already reviewed")
	case errors.Is(err, leave.ErrRequestNotEditable):
		Conflict(w, "Only pending requests can be edited")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Not the owner of this leave request")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is not active", nil)
	case errors.Is(err, leave.ErrReviewNotesRequired):
		BadRequest(w, "Review notes are required", nil)
	case errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrDuplicateDates),
		errors.Is(err, leave.ErrNoDates),
		errors.Is(err, leave.ErrAmbiguousDates):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
