package doctor

import (
	"context"
	"errors"
	"time"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// Doctor is a practicing clinician.
type Doctor struct {
	ID             string
	FullName       string
	Email          string
	Specialization *string
	Department     *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id string) (Doctor, error)
}
