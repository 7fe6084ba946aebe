package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

const courseColumns = `id, name, code, department_id, credits, seat_limit, description, syllabus, schedule, semester, created_at`

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.Name, &course.Code, &course.DepartmentID, &course.Credits,
		&course.SeatLimit, &course.Description, &course.Syllabus, &course.Schedule,
		&course.Semester, &course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}
	return &course, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	query := `
		INSERT INTO courses (name, code, department_id, credits, seat_limit, description, syllabus, schedule, semester)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		course.Name, course.Code, course.DepartmentID, course.Credits, course.SeatLimit,
		course.Description, course.Syllabus, course.Schedule, course.Semester,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return nil, apperrors.ErrCourseAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

// GetByCode retrieves a course by its unique code
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE code = $1`
	return scanCourse(r.db.QueryRow(ctx, query, code))
}

// GetAll retrieves courses, optionally restricted to a department
func (r *CourseRepository) GetAll(ctx context.Context, departmentID *int64) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	args := []interface{}{}
	if departmentID != nil {
		query += ` WHERE department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update modifies an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = $1, code = $2, department_id = $3, credits = $4,
		    description = $5, syllabus = $6, schedule = $7, semester = $8
		WHERE id = $9
	`

	tag, err := r.db.Exec(ctx, query,
		course.Name, course.Code, course.DepartmentID, course.Credits,
		course.Description, course.Syllabus, course.Schedule, course.Semester,
		course.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetSeatLimit updates a course's seat limit. A nil limit clears the cap,
// making the course unlimited. Existing enrollments are never touched, so
// a course may be over capacity after lowering the limit.
func (r *CourseRepository) SetSeatLimit(ctx context.Context, courseID int64, seatLimit *int) error {
	query := `UPDATE courses SET seat_limit = $1 WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, seatLimit, courseID)
	if err != nil {
		return fmt.Errorf("error setting seat limit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Courses with enrollments or assignments cannot
// be deleted.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM courses WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidStatusChange
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// ListWithSeatStatus retrieves courses together with their enrolled and
// waitlisted counts, restricted to the given course IDs when filter is
// non-nil. A nil filter means no restriction; an empty non-nil filter
// returns no rows.
func (r *CourseRepository) ListWithSeatStatus(ctx context.Context, courseIDs []int64) ([]*dto.AvailableCourse, error) {
	query := `
		SELECT c.id, c.name, c.code, c.department_id, d.name, c.credits, c.seat_limit, c.schedule, c.semester,
		       COUNT(e.id) FILTER (WHERE e.status = 'enrolled'),
		       COUNT(e.id) FILTER (WHERE e.status = 'waitlisted')
		FROM courses c
		JOIN departments d ON d.id = c.department_id
		LEFT JOIN enrollments e ON e.course_id = c.id
	`
	args := []interface{}{}
	if courseIDs != nil {
		query += ` WHERE c.id = ANY($1)`
		args = append(args, courseIDs)
	}
	query += `
		GROUP BY c.id, d.name
		ORDER BY c.code
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses with seat status: %w", err)
	}
	defer rows.Close()

	var courses []*dto.AvailableCourse
	for rows.Next() {
		var ac dto.AvailableCourse
		if err := rows.Scan(
			&ac.ID, &ac.Name, &ac.Code, &ac.DepartmentID, &ac.DepartmentName, &ac.Credits,
			&ac.SeatLimit, &ac.Schedule, &ac.Semester, &ac.EnrolledCount, &ac.WaitlistedCount,
		); err != nil {
			return nil, err
		}
		if ac.SeatLimit != nil {
			remaining := *ac.SeatLimit - ac.EnrolledCount
			if remaining < 0 {
				remaining = 0
			}
			ac.SeatsAvailable = &remaining
		}
		courses = append(courses, &ac)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
