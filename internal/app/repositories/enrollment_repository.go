package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/db"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

const enrollmentColumns = `id, student_id, course_id, status, grade, remarks, enrolled_at, updated_at`

// EnrollmentRepository handles database operations for enrollments. The
// seat-limit check and the insert happen inside a single transaction with
// the course row locked, so two concurrent enrollments cannot both take
// the last seat.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.Grade, &e.Remarks, &e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error scanning enrollment: %w", err)
	}
	return &e, nil
}

// CreateWithSeatCheck enrolls a student in a course, deciding between
// enrolled and waitlisted from the live enrolled count. The course row is
// locked for the duration of the check and insert.
func (r *EnrollmentRepository) CreateWithSeatCheck(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	var enrollment *models.Enrollment

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var seatLimit *int
		err := tx.QueryRow(ctx, `SELECT seat_limit FROM courses WHERE id = $1 FOR UPDATE`, courseID).
			Scan(&seatLimit)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course row: %w", err)
		}

		var existing int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM enrollments
			WHERE student_id = $1 AND course_id = $2 AND status IN ('enrolled', 'waitlisted')
		`, studentID, courseID).Scan(&existing)
		if err != nil {
			return fmt.Errorf("error checking existing enrollment: %w", err)
		}
		if existing > 0 {
			return apperrors.ErrAlreadyEnrolled
		}

		var enrolledCount int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = 'enrolled'
		`, courseID).Scan(&enrolledCount)
		if err != nil {
			return fmt.Errorf("error counting enrolled students: %w", err)
		}

		status := models.DecideEnrollmentStatus(seatLimit, enrolledCount)

		row := tx.QueryRow(ctx, `
			INSERT INTO enrollments (student_id, course_id, status)
			VALUES ($1, $2, $3)
			RETURNING `+enrollmentColumns, studentID, courseID, status)

		enrollment, err = scanEnrollment(row)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "enrollments_active_student_course_idx") {
				return apperrors.ErrAlreadyEnrolled
			}
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrStudentNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

// EnrollmentFilter narrows an enrollment listing. Nil values mean no filter.
type EnrollmentFilter struct {
	CourseID *int64
	Status   *models.EnrollmentStatus
	Limit    int
}

// List retrieves enrollments across all students, newest first
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments`
	args := []interface{}{}

	where := ""
	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		where = fmt.Sprintf(" WHERE course_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	query += where + ` ORDER BY enrolled_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status,
			&e.Grade, &e.Remarks, &e.EnrolledAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return scanEnrollment(r.db.QueryRow(ctx, query, id))
}

// UpdateStatus changes an enrollment's status. Transition validity is the
// caller's responsibility; this only touches the one row.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	query := `UPDATE enrollments SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_active_student_course_idx") {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// UpdateGradeRemarks sets the grade and/or remarks on an enrollment
func (r *EnrollmentRepository) UpdateGradeRemarks(ctx context.Context, id int64, grade, remarks *string) error {
	query := `
		UPDATE enrollments
		SET grade = COALESCE($1, grade), remarks = COALESCE($2, remarks), updated_at = NOW()
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, grade, remarks, id)
	if err != nil {
		return fmt.Errorf("error updating grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// ListByStudent retrieves a student's enrollments joined with course and
// department details, newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEnrollmentRow, error) {
	query := `
		SELECT e.id, e.course_id, c.name, c.code, d.name, c.credits, e.status, e.grade
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		JOIN departments d ON d.id = c.department_id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student enrollments: %w", err)
	}
	defer rows.Close()

	var result []*models.StudentEnrollmentRow
	for rows.Next() {
		var row models.StudentEnrollmentRow
		if err := rows.Scan(
			&row.EnrollmentID, &row.CourseID, &row.CourseName, &row.CourseCode,
			&row.DepartmentName, &row.Credits, &row.Status, &row.Grade,
		); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ListActiveByCourses retrieves active enrollments for a set of courses
// joined with course and student identity, for roster export. Withdrawn
// rows are excluded. An empty course set yields no rows.
func (r *EnrollmentRepository) ListActiveByCourses(ctx context.Context, courseIDs []int64) ([]*models.RosterExportRow, error) {
	if len(courseIDs) == 0 {
		return []*models.RosterExportRow{}, nil
	}

	query := `
		SELECT c.code, c.name, u.first_name || ' ' || u.last_name, u.email,
		       s.student_no, e.status, e.remarks
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		JOIN students s ON s.id = e.student_id
		JOIN users u ON u.id = s.user_id
		WHERE e.course_id = ANY($1) AND e.status IN ('enrolled', 'waitlisted')
		ORDER BY c.code, e.status, e.enrolled_at
	`

	rows, err := r.db.Query(ctx, query, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing roster export rows: %w", err)
	}
	defer rows.Close()

	var result []*models.RosterExportRow
	for rows.Next() {
		var row models.RosterExportRow
		if err := rows.Scan(
			&row.CourseCode, &row.CourseName, &row.StudentName, &row.Email,
			&row.StudentNo, &row.Status, &row.Remarks,
		); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ListByCourse retrieves the roster for a course with student identity,
// enrolled rows first, then waitlisted, then withdrawn, each oldest first.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.status, e.grade, e.remarks, e.enrolled_at, e.updated_at,
		       s.student_no, u.first_name, u.last_name, u.email
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN users u ON u.id = s.user_id
		WHERE e.course_id = $1
		ORDER BY CASE e.status
		         WHEN 'enrolled' THEN 0
		         WHEN 'waitlisted' THEN 1
		         ELSE 2
		         END, e.enrolled_at
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course roster: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var student models.Student
		var user models.User
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.Grade, &e.Remarks, &e.EnrolledAt, &e.UpdatedAt,
			&student.StudentNo, &user.FirstName, &user.LastName, &user.Email,
		); err != nil {
			return nil, err
		}
		student.ID = e.StudentID
		student.User = &user
		e.Student = &student
		enrollments = append(enrollments, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}
