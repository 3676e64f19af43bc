package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rkmmedclinic/clinic-backend-go/internal/domain/doctor"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/database"
)

type doctorRepositoryImpl struct {
	db *database.DB
}

func NewDoctorRepository(db *database.DB) doctor.DoctorRepository {
	return &doctorRepositoryImpl{db: db}
}

// GetByID implements doctor.DoctorRepository.
func (r *doctorRepositoryImpl) GetByID(ctx context.Context, id string) (doctor.Doctor, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, full_name, email, specialization, department, active, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var d doctor.Doctor
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.FullName, &d.Email, &d.Specialization, &d.Department, &d.Active,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return doctor.Doctor{}, doctor.ErrDoctorNotFound
		}
		return doctor.Doctor{}, err
	}
	return d, nil
}
