package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// FacultyRepository handles database operations for faculty profiles
type FacultyRepository struct {
	db *pgxpool.Pool
}

// NewFacultyRepository creates a new faculty repository
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{
		db: db,
	}
}

func scanFaculty(row pgx.Row) (*models.Faculty, error) {
	var faculty models.Faculty
	err := row.Scan(&faculty.ID, &faculty.UserID, &faculty.DepartmentID, &faculty.EmployeeNo, &faculty.HiredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error scanning faculty: %w", err)
	}
	return &faculty, nil
}

// GetByID retrieves a faculty profile by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	query := `SELECT id, user_id, department_id, employee_no, hired_at FROM faculty WHERE id = $1`
	return scanFaculty(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a faculty profile by its user account ID
func (r *FacultyRepository) GetByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	query := `SELECT id, user_id, department_id, employee_no, hired_at FROM faculty WHERE user_id = $1`
	return scanFaculty(r.db.QueryRow(ctx, query, userID))
}
