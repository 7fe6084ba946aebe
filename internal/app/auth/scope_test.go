package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

type fakeStudentFinder struct {
	students map[int64]*models.Student // by user ID
}

func (f *fakeStudentFinder) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	s, ok := f.students[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

type fakeFacultyFinder struct {
	faculty map[int64]*models.Faculty // by user ID
}

func (f *fakeFacultyFinder) GetByUserID(_ context.Context, userID int64) (*models.Faculty, error) {
	m, ok := f.faculty[userID]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return m, nil
}

type fakeAssignmentFinder struct {
	byFaculty map[int64][]int64
}

func (f *fakeAssignmentFinder) ListCourseIDsByFaculty(_ context.Context, facultyID int64) ([]int64, error) {
	return f.byFaculty[facultyID], nil
}

func newTestResolver() *ScopeResolver {
	deptID := int64(7)
	return NewScopeResolver(
		&fakeStudentFinder{students: map[int64]*models.Student{
			10: {ID: 100, UserID: 10, StudentNo: "S24001"},
		}},
		&fakeFacultyFinder{faculty: map[int64]*models.Faculty{
			20: {ID: 200, UserID: 20, DepartmentID: &deptID},
		}},
		&fakeAssignmentFinder{byFaculty: map[int64][]int64{
			200: {1, 2, 3},
		}},
	)
}

func TestResolveAdminScope(t *testing.T) {
	scope, err := newTestResolver().Resolve(context.Background(), 1, models.RoleAdmin)
	require.NoError(t, err)

	assert.True(t, scope.CanViewCourse(999))
	assert.Nil(t, scope.CourseFilter())
	assert.Nil(t, scope.DepartmentFilter())
	assert.True(t, scope.OwnsEnrollment(&models.Enrollment{StudentID: 5, CourseID: 9}))
}

func TestResolveFacultyScope(t *testing.T) {
	scope, err := newTestResolver().Resolve(context.Background(), 20, models.RoleFaculty)
	require.NoError(t, err)

	assert.Equal(t, int64(200), scope.FacultyID)
	assert.True(t, scope.CanViewCourse(2))
	assert.False(t, scope.CanViewCourse(4))
	assert.ElementsMatch(t, []int64{1, 2, 3}, scope.CourseFilter())
	assert.Equal(t, []int64{7}, scope.DepartmentFilter())

	assert.True(t, scope.OwnsEnrollment(&models.Enrollment{StudentID: 5, CourseID: 3}))
	assert.False(t, scope.OwnsEnrollment(&models.Enrollment{StudentID: 5, CourseID: 4}))
}

func TestResolveStudentScope(t *testing.T) {
	scope, err := newTestResolver().Resolve(context.Background(), 10, models.RoleStudent)
	require.NoError(t, err)

	assert.Equal(t, int64(100), scope.StudentID)
	assert.True(t, scope.OwnsEnrollment(&models.Enrollment{StudentID: 100, CourseID: 1}))
	assert.False(t, scope.OwnsEnrollment(&models.Enrollment{StudentID: 101, CourseID: 1}))
	// Students have no analytics course scope.
	assert.NotNil(t, scope.CourseFilter())
	assert.Empty(t, scope.CourseFilter())
}

func TestResolveMissingProfile(t *testing.T) {
	_, err := newTestResolver().Resolve(context.Background(), 999, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = newTestResolver().Resolve(context.Background(), 999, models.RoleFaculty)
	assert.ErrorIs(t, err, apperrors.ErrFacultyNotFound)
}

func TestResolveUnknownRole(t *testing.T) {
	_, err := newTestResolver().Resolve(context.Background(), 1, models.RoleType("GUEST"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
