package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/metrics"
)

// EnrollmentStore is the persistence surface the enrollment service needs
type EnrollmentStore interface {
	CreateWithSeatCheck(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	UpdateGradeRemarks(ctx context.Context, id int64, grade, remarks *string) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEnrollmentRow, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	ListActiveByCourses(ctx context.Context, courseIDs []int64) ([]*models.RosterExportRow, error)
	List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, error)
}

// CourseStore is the course surface the enrollment service needs
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	SetSeatLimit(ctx context.Context, courseID int64, seatLimit *int) error
}

// EnrollmentService implements the enrollment state machine: enroll with
// seat check, withdraw, admin override and faculty grading. Every mutation
// is audited.
type EnrollmentService struct {
	enrollments EnrollmentStore
	courses     CourseStore
	audit       AuditSink
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, audit AuditSink, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		audit:       audit,
		logger:      logger,
	}
}

// Enroll attempts to enroll the acting student in a course. When the
// course is at its seat limit the student lands on the waitlist instead;
// the attempt never fails for capacity reasons.
func (s *EnrollmentService) Enroll(ctx context.Context, scope *appauth.Scope, courseID int64) (*dto.EnrollmentResult, error) {
	if scope.Role != models.RoleStudent || scope.StudentID == 0 {
		return nil, apperrors.ErrPermissionDenied
	}

	enrollment, err := s.enrollments.CreateWithSeatCheck(ctx, scope.StudentID, courseID)
	if err != nil {
		return nil, err
	}

	event := models.AuditEventEnrollment
	message := "Enrolled successfully"
	if enrollment.Status == models.StatusWaitlisted {
		event = models.AuditEventWaitlisted
		message = "Course is full, you have been added to the waitlist"
	}

	s.audit.Record(ctx, event, &scope.UserID, &scope.Role, map[string]interface{}{
		"enrollmentId": enrollment.ID,
		"courseId":     courseID,
		"status":       string(enrollment.Status),
	})
	metrics.EnrollmentOutcomes.WithLabelValues(string(enrollment.Status)).Inc()

	s.logger.Info().
		Int64("studentId", scope.StudentID).
		Int64("courseId", courseID).
		Str("status", string(enrollment.Status)).
		Msg("Enrollment created")

	return &dto.EnrollmentResult{
		EnrollmentID: enrollment.ID,
		CourseID:     courseID,
		Status:       enrollment.Status,
		Message:      message,
	}, nil
}

// Withdraw moves an enrolled or waitlisted enrollment to withdrawn. The
// owning student or an admin may withdraw; nobody on the waitlist is
// promoted, a freed seat is taken by whoever enrolls next or by an admin
// override. An admin withdrawal still records a plain withdrawal event,
// overrides are the audit trail for policy exceptions.
func (s *EnrollmentService) Withdraw(ctx context.Context, scope *appauth.Scope, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	owns := scope.Role == models.RoleStudent && scope.OwnsEnrollment(enrollment)
	if !owns && scope.Role != models.RoleAdmin {
		s.audit.Record(ctx, models.AuditEventUnauthorizedAccess, &scope.UserID, &scope.Role, map[string]interface{}{
			"enrollmentId": enrollmentID,
			"action":       "withdraw",
		})
		metrics.AccessDenials.Inc()
		return nil, apperrors.ErrPermissionDenied
	}

	if !enrollment.Status.CanTransition(models.StatusWithdrawn) {
		return nil, fmt.Errorf("%w: cannot withdraw from status %q", apperrors.ErrInvalidStatusChange, enrollment.Status)
	}

	if err := s.enrollments.UpdateStatus(ctx, enrollmentID, models.StatusWithdrawn); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditEventWithdrawal, &scope.UserID, &scope.Role, map[string]interface{}{
		"enrollmentId": enrollmentID,
		"courseId":     enrollment.CourseID,
		"fromStatus":   string(enrollment.Status),
	})
	metrics.EnrollmentOutcomes.WithLabelValues("withdrawn").Inc()

	enrollment.Status = models.StatusWithdrawn
	return enrollment, nil
}

// Override lets an admin force an enrollment into any status, bypassing
// the seat limit and the normal transition rules. This is the only path
// that promotes a waitlisted student into a full course.
func (s *EnrollmentService) Override(ctx context.Context, scope *appauth.Scope, enrollmentID int64, req *dto.OverrideRequest) (*models.Enrollment, error) {
	if scope.Role != models.RoleAdmin {
		s.audit.Record(ctx, models.AuditEventUnauthorizedAccess, &scope.UserID, &scope.Role, map[string]interface{}{
			"enrollmentId": enrollmentID,
			"action":       "override",
		})
		metrics.AccessDenials.Inc()
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Status != models.StatusEnrolled && req.Status != models.StatusWaitlisted && req.Status != models.StatusWithdrawn {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, req.Status)
	}

	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	oldStatus := enrollment.Status
	if err := s.enrollments.UpdateStatus(ctx, enrollmentID, req.Status); err != nil {
		return nil, err
	}
	if req.Remarks != nil {
		if err := s.enrollments.UpdateGradeRemarks(ctx, enrollmentID, nil, req.Remarks); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, models.AuditEventOverride, &scope.UserID, &scope.Role, map[string]interface{}{
		"enrollmentId": enrollmentID,
		"courseId":     enrollment.CourseID,
		"fromStatus":   string(oldStatus),
		"toStatus":     string(req.Status),
	})
	metrics.EnrollmentOutcomes.WithLabelValues("override").Inc()

	s.logger.Info().
		Int64("enrollmentId", enrollmentID).
		Str("from", string(oldStatus)).
		Str("to", string(req.Status)).
		Int64("adminUserId", scope.UserID).
		Msg("Enrollment overridden")

	enrollment.Status = req.Status
	if req.Remarks != nil {
		enrollment.Remarks = req.Remarks
	}
	return enrollment, nil
}

// SetSeatLimit changes a course's seat limit. Lowering the limit never
// touches existing enrollments; the course simply stays over capacity
// until attrition catches up.
func (s *EnrollmentService) SetSeatLimit(ctx context.Context, scope *appauth.Scope, courseID int64, seatLimit *int) (*models.Course, error) {
	if scope.Role != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}
	if seatLimit != nil && *seatLimit < 0 {
		return nil, fmt.Errorf("%w: seat limit cannot be negative", apperrors.ErrValidationFailed)
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.courses.SetSeatLimit(ctx, courseID, seatLimit); err != nil {
		return nil, err
	}

	detail := map[string]interface{}{"courseId": courseID}
	if course.SeatLimit != nil {
		detail["oldLimit"] = *course.SeatLimit
	}
	if seatLimit != nil {
		detail["newLimit"] = *seatLimit
	}
	s.audit.Record(ctx, models.AuditEventSeatLimitChange, &scope.UserID, &scope.Role, detail)

	course.SeatLimit = seatLimit
	return course, nil
}

// UpdateGrade lets assigned faculty set the grade and remarks on an
// enrollment in one of their courses.
func (s *EnrollmentService) UpdateGrade(ctx context.Context, scope *appauth.Scope, enrollmentID int64, req *dto.GradeUpdateRequest) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if scope.Role != models.RoleFaculty || !scope.CanViewCourse(enrollment.CourseID) {
		s.audit.Record(ctx, models.AuditEventUnauthorizedAccess, &scope.UserID, &scope.Role, map[string]interface{}{
			"enrollmentId": enrollmentID,
			"action":       "grade",
		})
		metrics.AccessDenials.Inc()
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.enrollments.UpdateGradeRemarks(ctx, enrollmentID, req.Grade, req.Remarks); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditEventGradeUpdate, &scope.UserID, &scope.Role, map[string]interface{}{
		"enrollmentId": enrollmentID,
		"courseId":     enrollment.CourseID,
	})

	if req.Grade != nil {
		enrollment.Grade = req.Grade
	}
	if req.Remarks != nil {
		enrollment.Remarks = req.Remarks
	}
	return enrollment, nil
}

// ListOwnEnrollments returns the acting student's enrollment history
func (s *EnrollmentService) ListOwnEnrollments(ctx context.Context, scope *appauth.Scope) ([]*models.StudentEnrollmentRow, error) {
	if scope.Role != models.RoleStudent || scope.StudentID == 0 {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.enrollments.ListByStudent(ctx, scope.StudentID)
}

// ListAll returns enrollments across every student and course, admin only
func (s *EnrollmentService) ListAll(ctx context.Context, scope *appauth.Scope, filter repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	if scope.Role != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.enrollments.List(ctx, filter)
}

// GetRoster returns a course's enrollment roster. Admins see any roster;
// faculty only rosters of their assigned courses. Students never see
// rosters.
func (s *EnrollmentService) GetRoster(ctx context.Context, scope *appauth.Scope, courseID int64) ([]*models.Enrollment, error) {
	if scope.Role == models.RoleStudent || !scope.CanViewCourse(courseID) {
		s.audit.Record(ctx, models.AuditEventUnauthorizedAccess, &scope.UserID, &scope.Role, map[string]interface{}{
			"courseId": courseID,
			"action":   "roster",
		})
		metrics.AccessDenials.Inc()
		return nil, apperrors.ErrPermissionDenied
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	return s.enrollments.ListByCourse(ctx, courseID)
}

// RosterExport returns the active enrollments of the acting faculty
// member's assigned courses, flattened for CSV download.
func (s *EnrollmentService) RosterExport(ctx context.Context, scope *appauth.Scope) ([]*models.RosterExportRow, error) {
	if scope.Role != models.RoleFaculty {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.enrollments.ListActiveByCourses(ctx, scope.CourseFilter())
}
