package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/doctor"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/staff"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/user"
)

type directoryServiceImpl struct {
	staffRepo  staff.StaffRepository
	doctorRepo doctor.DoctorRepository
	userRepo   user.UserRepository
}

func NewDirectoryService(
	staffRepo staff.StaffRepository,
	doctorRepo doctor.DoctorRepository,
	userRepo user.UserRepository,
) directory.Directory {
	return &directoryServiceImpl{
		staffRepo:  staffRepo,
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
	}
}

// Resolve implements directory.Directory. The kind tag picks the backing
// repository; a miss in any of them maps to the same not-found error so
// callers stay kind-agnostic.
func (s *directoryServiceImpl) Resolve(ctx context.Context, ref directory.EntityRef) (directory.Entity, error) {
	switch ref.Kind {
	case directory.EntityKindStaff:
		st, err := s.staffRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, staff.ErrStaffNotFound) {
				return directory.Entity{}, directory.ErrEntityNotFound
			}
			return directory.Entity{}, fmt.Errorf("resolve staff %s: %w", ref.ID, err)
		}
		return directory.Entity{ID: st.ID, DisplayName: st.FullName, Email: st.Email}, nil
	case directory.EntityKindDoctor:
		d, err := s.doctorRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return directory.Entity{}, directory.ErrEntityNotFound
			}
			return directory.Entity{}, fmt.Errorf("resolve doctor %s: %w", ref.ID, err)
		}
		return directory.Entity{ID: d.ID, DisplayName: d.FullName, Email: d.Email}, nil
	case directory.EntityKindUser:
		u, err := s.userRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return directory.Entity{}, directory.ErrEntityNotFound
			}
			return directory.Entity{}, fmt.Errorf("resolve user %s: %w", ref.ID, err)
		}
		return directory.Entity{ID: u.ID, DisplayName: u.Name, Email: u.Email}, nil
	default:
		return directory.Entity{}, directory.ErrUnknownEntityKind
	}
}

// AdminEmails implements directory.Directory.
func (s *directoryServiceImpl) AdminEmails(ctx context.Context) ([]string, error) {
	emails, err := s.userRepo.ListAdminEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admin emails: %w", err)
	}
	return emails, nil
}
