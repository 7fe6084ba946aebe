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

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(&student.ID, &student.UserID, &student.StudentNo, &student.EnrolledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student: %w", err)
	}
	return &student, nil
}

// GetByID retrieves a student profile by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT id, user_id, student_no, enrolled_at FROM students WHERE id = $1`
	return scanStudent(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a student profile by its user account ID
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	query := `SELECT id, user_id, student_no, enrolled_at FROM students WHERE user_id = $1`
	return scanStudent(r.db.QueryRow(ctx, query, userID))
}

// GetByStudentNo retrieves a student profile by student number
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	query := `SELECT id, user_id, student_no, enrolled_at FROM students WHERE student_no = $1`
	return scanStudent(r.db.QueryRow(ctx, query, studentNo))
}
