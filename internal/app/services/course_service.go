package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// CourseService handles course catalog management and faculty assignments
type CourseService struct {
	courseRepo     *repositories.CourseRepository
	departmentRepo *repositories.DepartmentRepository
	assignmentRepo *repositories.AssignmentRepository
	facultyRepo    *repositories.FacultyRepository
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	departmentRepo *repositories.DepartmentRepository,
	assignmentRepo *repositories.AssignmentRepository,
	facultyRepo *repositories.FacultyRepository,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		departmentRepo: departmentRepo,
		assignmentRepo: assignmentRepo,
		facultyRepo:    facultyRepo,
		logger:         logger,
	}
}

// CreateCourse creates a new course under an existing department
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: course code cannot be empty", apperrors.ErrValidationFailed)
	}
	if req.SeatLimit != nil && *req.SeatLimit < 0 {
		return nil, fmt.Errorf("%w: seat limit cannot be negative", apperrors.ErrValidationFailed)
	}

	if _, err := s.departmentRepo.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	credits := req.Credits
	if credits == 0 {
		credits = 3
	}

	course := &models.Course{
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.TrimSpace(req.Code),
		DepartmentID: req.DepartmentID,
		Credits:      credits,
		SeatLimit:    req.SeatLimit,
		Description:  req.Description,
		Syllabus:     req.Syllabus,
		Schedule:     req.Schedule,
		Semester:     req.Semester,
	}

	created, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", created.ID).Str("code", created.Code).Msg("Course created")
	return created, nil
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses retrieves courses, optionally restricted to a department
func (s *CourseService) ListCourses(ctx context.Context, departmentID *int64) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx, departmentID)
}

// ListAvailableCourses returns the catalog with live seat status, visible
// to every authenticated role. The scope restricts faculty to their
// assigned courses when they browse through their own view.
func (s *CourseService) ListAvailableCourses(ctx context.Context, scope *appauth.Scope) ([]*dto.AvailableCourse, error) {
	return s.courseRepo.ListWithSeatStatus(ctx, scope.CourseFilter())
}

// ListCatalog returns the full catalog with seat status, without scope
// restrictions. Students browse the whole catalog before enrolling.
func (s *CourseService) ListCatalog(ctx context.Context) ([]*dto.AvailableCourse, error) {
	return s.courseRepo.ListWithSeatStatus(ctx, nil)
}

// UpdateCourse modifies a course's descriptive fields
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Name = strings.TrimSpace(req.Name)
	if req.Credits > 0 {
		course.Credits = req.Credits
	}
	course.Description = req.Description
	course.Syllabus = req.Syllabus
	course.Schedule = req.Schedule
	course.Semester = req.Semester

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course with no enrollments or assignments
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

// AssignFaculty links a faculty member to a course they will teach
func (s *CourseService) AssignFaculty(ctx context.Context, req *dto.AssignFacultyRequest) (*models.CourseAssignment, error) {
	if _, err := s.facultyRepo.GetByID(ctx, req.FacultyID); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.Create(ctx, req.FacultyID, req.CourseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("facultyId", req.FacultyID).
		Int64("courseId", req.CourseID).
		Msg("Faculty assigned to course")
	return assignment, nil
}

// UnassignFaculty removes a faculty-course assignment
func (s *CourseService) UnassignFaculty(ctx context.Context, assignmentID int64) error {
	return s.assignmentRepo.Delete(ctx, assignmentID)
}

// ListAssignments returns a faculty member's course assignments
func (s *CourseService) ListAssignments(ctx context.Context, facultyID int64) ([]*models.CourseAssignment, error) {
	return s.assignmentRepo.ListByFaculty(ctx, facultyID)
}
