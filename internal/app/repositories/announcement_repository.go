package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

// AnnouncementRepository handles database operations for course announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
	}
}

// Create inserts an announcement and returns it with generated fields
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) (*models.Announcement, error) {
	query := `
		INSERT INTO course_announcements (course_id, faculty_id, title, body, announcement_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		announcement.CourseID, announcement.FacultyID,
		announcement.Title, announcement.Body, announcement.Type,
	).Scan(&announcement.ID, &announcement.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error creating announcement: %w", err)
	}

	return announcement, nil
}

// ListByFaculty retrieves a faculty member's announcements with course
// details, newest first.
func (r *AnnouncementRepository) ListByFaculty(ctx context.Context, facultyID int64, limit int) ([]*models.Announcement, error) {
	query := `
		SELECT a.id, a.course_id, a.faculty_id, a.title, a.body, a.announcement_type, a.created_at,
		       c.name, c.code
		FROM course_announcements a
		JOIN courses c ON c.id = a.course_id
		WHERE a.faculty_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, facultyID, limit)
}

// ListByCourses retrieves announcements for a set of courses with course
// details, newest first. An empty course set yields no rows.
func (r *AnnouncementRepository) ListByCourses(ctx context.Context, courseIDs []int64, limit int) ([]*models.Announcement, error) {
	if len(courseIDs) == 0 {
		return []*models.Announcement{}, nil
	}

	query := `
		SELECT a.id, a.course_id, a.faculty_id, a.title, a.body, a.announcement_type, a.created_at,
		       c.name, c.code
		FROM course_announcements a
		JOIN courses c ON c.id = a.course_id
		WHERE a.course_id = ANY($1)
		ORDER BY a.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, courseIDs, limit)
}

func (r *AnnouncementRepository) list(ctx context.Context, query string, filter interface{}, limit int) ([]*models.Announcement, error) {
	rows, err := r.db.Query(ctx, query, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(
			&a.ID, &a.CourseID, &a.FacultyID, &a.Title, &a.Body, &a.Type, &a.CreatedAt,
			&a.CourseName, &a.CourseCode,
		); err != nil {
			return nil, err
		}
		announcements = append(announcements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return announcements, nil
}
