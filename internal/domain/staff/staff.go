package staff

import (
	"context"
	"errors"
	"time"
)

var ErrStaffNotFound = errors.New("staff member not found")

// Staff is a clinic staff member (nurses, admin desk, technicians).
type Staff struct {
	ID         string
	FullName   string
	Email      string
	Phone      *string
	Department *string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type StaffRepository interface {
	GetByID(ctx context.Context, id string) (Staff, error)
}
