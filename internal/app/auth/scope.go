package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// Scope is the resolved visibility set for one authenticated actor. It is
// built once per request and passed explicitly into services; nothing reads
// actor identity from ambient state.
type Scope struct {
	Role   models.RoleType
	UserID int64

	// StudentID is set when Role is STUDENT
	StudentID int64
	// FacultyID and DepartmentID are set when Role is FACULTY
	FacultyID    int64
	DepartmentID *int64

	// assignedCourses holds the faculty's visible course set
	assignedCourses map[int64]struct{}
}

// StudentFinder locates a student profile by user account.
type StudentFinder interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// FacultyFinder locates a faculty profile by user account.
type FacultyFinder interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Faculty, error)
}

// AssignmentFinder lists course IDs assigned to a faculty member.
type AssignmentFinder interface {
	ListCourseIDsByFaculty(ctx context.Context, facultyID int64) ([]int64, error)
}

// ScopeResolver resolves (user, role) into a Scope.
type ScopeResolver struct {
	students    StudentFinder
	faculty     FacultyFinder
	assignments AssignmentFinder
}

// NewScopeResolver creates a new ScopeResolver
func NewScopeResolver(students StudentFinder, faculty FacultyFinder, assignments AssignmentFinder) *ScopeResolver {
	return &ScopeResolver{
		students:    students,
		faculty:     faculty,
		assignments: assignments,
	}
}

// Resolve builds the visibility scope for the actor. Admins are
// unrestricted; faculty see their assigned courses and own department;
// students see only themselves.
func (r *ScopeResolver) Resolve(ctx context.Context, userID int64, role models.RoleType) (*Scope, error) {
	scope := &Scope{Role: role, UserID: userID}

	switch role {
	case models.RoleAdmin:
		return scope, nil

	case models.RoleStudent:
		student, err := r.students.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return nil, apperrors.ErrStudentNotFound
			}
			return nil, fmt.Errorf("error resolving student scope: %w", err)
		}
		scope.StudentID = student.ID
		return scope, nil

	case models.RoleFaculty:
		faculty, err := r.faculty.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrFacultyNotFound) {
				return nil, apperrors.ErrFacultyNotFound
			}
			return nil, fmt.Errorf("error resolving faculty scope: %w", err)
		}
		scope.FacultyID = faculty.ID
		scope.DepartmentID = faculty.DepartmentID

		courseIDs, err := r.assignments.ListCourseIDsByFaculty(ctx, faculty.ID)
		if err != nil {
			return nil, fmt.Errorf("error resolving assigned courses: %w", err)
		}
		scope.assignedCourses = make(map[int64]struct{}, len(courseIDs))
		for _, id := range courseIDs {
			scope.assignedCourses[id] = struct{}{}
		}
		return scope, nil
	}

	return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrPermissionDenied, role)
}

// CanViewCourse reports whether the course is inside the actor's scope.
func (s *Scope) CanViewCourse(courseID int64) bool {
	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleFaculty:
		_, ok := s.assignedCourses[courseID]
		return ok
	case models.RoleStudent:
		// Students browse the catalog freely; row-level enrollment data is
		// scoped by OwnsEnrollment instead.
		return true
	}
	return false
}

// CourseFilter returns the visible course ID set, or nil when unrestricted.
func (s *Scope) CourseFilter() []int64 {
	switch s.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleFaculty:
		ids := make([]int64, 0, len(s.assignedCourses))
		for id := range s.assignedCourses {
			ids = append(ids, id)
		}
		return ids
	}
	// Students have no course-level analytics scope
	return []int64{}
}

// DepartmentFilter returns the visible department ID set, or nil when
// unrestricted.
func (s *Scope) DepartmentFilter() []int64 {
	switch s.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleFaculty:
		if s.DepartmentID == nil {
			return []int64{}
		}
		return []int64{*s.DepartmentID}
	}
	return []int64{}
}

// OwnsEnrollment reports whether the actor owns the enrollment row.
// Admins own everything; students own their own rows; faculty own rows of
// their assigned courses.
func (s *Scope) OwnsEnrollment(e *models.Enrollment) bool {
	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return e.StudentID == s.StudentID
	case models.RoleFaculty:
		_, ok := s.assignedCourses[e.CourseID]
		return ok
	}
	return false
}

// NewScope builds a Scope directly from already-resolved identifiers.
// Callers normally go through ScopeResolver; this exists for wiring where
// the profile IDs are already known.
func NewScope(role models.RoleType, userID, studentID, facultyID int64, departmentID *int64, courseIDs ...int64) *Scope {
	s := &Scope{
		Role:         role,
		UserID:       userID,
		StudentID:    studentID,
		FacultyID:    facultyID,
		DepartmentID: departmentID,
	}
	if role == models.RoleFaculty {
		s.assignedCourses = make(map[int64]struct{}, len(courseIDs))
		for _, id := range courseIDs {
			s.assignedCourses[id] = struct{}{}
		}
	}
	return s
}
