package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/staff"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/database"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepositoryImpl{db: db}
}

// GetByID implements staff.StaffRepository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, full_name, email, phone, department, active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	var s staff.Staff
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.FullName, &s.Email, &s.Phone, &s.Department, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, err
	}
	return s, nil
}
