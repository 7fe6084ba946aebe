package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

// AssignmentRepository handles database operations for faculty-course
// assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

// Create links a faculty member to a course
func (r *AssignmentRepository) Create(ctx context.Context, facultyID, courseID int64) (*models.CourseAssignment, error) {
	query := `
		INSERT INTO faculty_course_assignments (faculty_id, course_id)
		VALUES ($1, $2)
		RETURNING id, assigned_at
	`

	assignment := &models.CourseAssignment{FacultyID: facultyID, CourseID: courseID}
	err := r.db.QueryRow(ctx, query, facultyID, courseID).Scan(&assignment.ID, &assignment.AssignedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "faculty_course_assignments_faculty_id_course_id_key") {
			return nil, apperrors.ErrAssignmentAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error creating assignment: %w", err)
	}

	return assignment, nil
}

// Delete removes a faculty-course assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faculty_course_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// ListCourseIDsByFaculty returns the IDs of courses assigned to a faculty
// member.
func (r *AssignmentRepository) ListCourseIDsByFaculty(ctx context.Context, facultyID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT course_id FROM faculty_course_assignments WHERE faculty_id = $1
	`, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error listing assigned course IDs: %w", err)
	}
	defer rows.Close()

	var courseIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		courseIDs = append(courseIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courseIDs, nil
}

// ListByFaculty returns a faculty member's assignments with course details
func (r *AssignmentRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]*models.CourseAssignment, error) {
	query := `
		SELECT a.id, a.faculty_id, a.course_id, a.assigned_at,
		       c.name, c.code, c.department_id, c.credits, c.seat_limit, c.schedule, c.semester
		FROM faculty_course_assignments a
		JOIN courses c ON c.id = a.course_id
		WHERE a.faculty_id = $1
		ORDER BY c.code
	`

	rows, err := r.db.Query(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.CourseAssignment
	for rows.Next() {
		var a models.CourseAssignment
		var course models.Course
		if err := rows.Scan(
			&a.ID, &a.FacultyID, &a.CourseID, &a.AssignedAt,
			&course.Name, &course.Code, &course.DepartmentID, &course.Credits,
			&course.SeatLimit, &course.Schedule, &course.Semester,
		); err != nil {
			return nil, err
		}
		course.ID = a.CourseID
		a.Course = &course
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
