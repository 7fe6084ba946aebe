package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/metrics"
)

// Listing caps match the dashboard views they feed.
const (
	facultyAnnouncementLimit = 50
	studentAnnouncementLimit = 30
)

// AnnouncementStore is the persistence surface the announcement service needs
type AnnouncementStore interface {
	Create(ctx context.Context, announcement *models.Announcement) (*models.Announcement, error)
	ListByFaculty(ctx context.Context, facultyID int64, limit int) ([]*models.Announcement, error)
	ListByCourses(ctx context.Context, courseIDs []int64, limit int) ([]*models.Announcement, error)
}

// StudentCourseSource resolves a student's enrollment rows, used to scope
// which announcements the student can read.
type StudentCourseSource interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEnrollmentRow, error)
}

// AnnouncementService lets faculty post announcements to their assigned
// courses and students read announcements for courses they are actively
// enrolled or waitlisted in.
type AnnouncementService struct {
	announcements AnnouncementStore
	enrollments   StudentCourseSource
	audit         AuditSink
	logger        zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcements AnnouncementStore, enrollments StudentCourseSource, audit AuditSink, logger zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		enrollments:   enrollments,
		audit:         audit,
		logger:        logger,
	}
}

// Post creates an announcement on one of the acting faculty member's
// assigned courses. Posting to an unassigned course is denied and audited.
func (s *AnnouncementService) Post(ctx context.Context, scope *appauth.Scope, req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if scope.Role != models.RoleFaculty || scope.FacultyID == 0 {
		return nil, apperrors.ErrPermissionDenied
	}

	if !scope.CanViewCourse(req.CourseID) {
		s.audit.Record(ctx, models.AuditEventUnauthorizedAccess, &scope.UserID, &scope.Role, map[string]interface{}{
			"courseId": req.CourseID,
			"action":   "post_announcement",
		})
		metrics.AccessDenials.Inc()
		return nil, apperrors.ErrPermissionDenied
	}

	annType := models.AnnouncementType(req.Type)
	if annType == "" {
		annType = models.AnnouncementGeneral
	}
	if !annType.Valid() {
		return nil, fmt.Errorf("%w: unknown announcement type %q", apperrors.ErrValidationFailed, req.Type)
	}

	announcement, err := s.announcements.Create(ctx, &models.Announcement{
		CourseID:  req.CourseID,
		FacultyID: scope.FacultyID,
		Title:     req.Title,
		Body:      req.Body,
		Type:      annType,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("facultyId", scope.FacultyID).
		Int64("courseId", req.CourseID).
		Str("type", string(annType)).
		Msg("Announcement posted")

	return announcement, nil
}

// ListMine returns the acting faculty member's announcements, newest first
func (s *AnnouncementService) ListMine(ctx context.Context, scope *appauth.Scope) ([]*models.Announcement, error) {
	if scope.Role != models.RoleFaculty || scope.FacultyID == 0 {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.announcements.ListByFaculty(ctx, scope.FacultyID, facultyAnnouncementLimit)
}

// ListForStudent returns announcements for the courses the acting student
// is actively enrolled or waitlisted in.
func (s *AnnouncementService) ListForStudent(ctx context.Context, scope *appauth.Scope) ([]*models.Announcement, error) {
	if scope.Role != models.RoleStudent || scope.StudentID == 0 {
		return nil, apperrors.ErrPermissionDenied
	}

	rows, err := s.enrollments.ListByStudent(ctx, scope.StudentID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.Status.Active() {
			courseIDs = append(courseIDs, row.CourseID)
		}
	}

	return s.announcements.ListByCourses(ctx, courseIDs, studentAnnouncementLimit)
}
