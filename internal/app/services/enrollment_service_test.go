package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// fakeEnrollmentStore keeps enrollments in memory and applies the same
// seat-check decision the SQL store does.
type fakeEnrollmentStore struct {
	courses     map[int64]*models.Course
	enrollments map[int64]*models.Enrollment
	nextID      int64
}

func newFakeEnrollmentStore(courses ...*models.Course) *fakeEnrollmentStore {
	store := &fakeEnrollmentStore{
		courses:     make(map[int64]*models.Course),
		enrollments: make(map[int64]*models.Enrollment),
		nextID:      1,
	}
	for _, c := range courses {
		store.courses[c.ID] = c
	}
	return store
}

func (f *fakeEnrollmentStore) CreateWithSeatCheck(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	enrolledCount := 0
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			if e.StudentID == studentID && e.Status.Active() {
				return nil, apperrors.ErrAlreadyEnrolled
			}
			if e.Status == models.StatusEnrolled {
				enrolledCount++
			}
		}
	}

	enrollment := &models.Enrollment{
		ID:        f.nextID,
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.DecideEnrollmentStatus(course.SeatLimit, enrolledCount),
	}
	f.nextID++
	f.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (f *fakeEnrollmentStore) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollmentStore) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	e, ok := f.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEnrollmentStore) UpdateGradeRemarks(ctx context.Context, id int64, grade, remarks *string) error {
	e, ok := f.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	if grade != nil {
		e.Grade = grade
	}
	if remarks != nil {
		e.Remarks = remarks
	}
	return nil
}

func (f *fakeEnrollmentStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEnrollmentRow, error) {
	var rows []*models.StudentEnrollmentRow
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			rows = append(rows, &models.StudentEnrollmentRow{
				EnrollmentID: e.ID,
				CourseID:     e.CourseID,
				Status:       e.Status,
				Grade:        e.Grade,
			})
		}
	}
	return rows, nil
}

func (f *fakeEnrollmentStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	var result []*models.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentStore) ListActiveByCourses(ctx context.Context, courseIDs []int64) ([]*models.RosterExportRow, error) {
	visible := make(map[int64]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		visible[id] = struct{}{}
	}
	var rows []*models.RosterExportRow
	for _, e := range f.enrollments {
		if _, ok := visible[e.CourseID]; !ok || !e.Status.Active() {
			continue
		}
		rows = append(rows, &models.RosterExportRow{
			Status:  e.Status,
			Remarks: e.Remarks,
		})
	}
	return rows, nil
}

func (f *fakeEnrollmentStore) List(ctx context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	var result []*models.Enrollment
	for _, e := range f.enrollments {
		if filter.CourseID != nil && e.CourseID != *filter.CourseID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// fakeCourseStore wraps the same course map for the CourseStore surface
type fakeCourseStore struct {
	store *fakeEnrollmentStore
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := f.store.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) SetSeatLimit(ctx context.Context, courseID int64, seatLimit *int) error {
	c, ok := f.store.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.SeatLimit = seatLimit
	return nil
}

// recordingAuditSink captures audit events for assertions
type recordingAuditSink struct {
	events []string
}

func (r *recordingAuditSink) Record(ctx context.Context, event string, userID *int64, role *models.RoleType, detail map[string]interface{}) {
	r.events = append(r.events, event)
}

func intPtr(v int) *int { return &v }

func newTestEnrollmentService(courses ...*models.Course) (*EnrollmentService, *fakeEnrollmentStore, *recordingAuditSink) {
	store := newFakeEnrollmentStore(courses...)
	sink := &recordingAuditSink{}
	svc := NewEnrollmentService(store, &fakeCourseStore{store: store}, sink, zerolog.Nop())
	return svc, store, sink
}

func studentScope(userID, studentID int64) *appauth.Scope {
	return appauth.NewScope(models.RoleStudent, userID, studentID, 0, nil)
}

func TestEnroll_SeatLimitFillsThenWaitlists(t *testing.T) {
	svc, _, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(2)})
	ctx := context.Background()

	first, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, first.Status)

	second, err := svc.Enroll(ctx, studentScope(2, 102), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, second.Status)

	third, err := svc.Enroll(ctx, studentScope(3, 103), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, third.Status)
	assert.Contains(t, third.Message, "waitlist")

	assert.Equal(t, []string{
		models.AuditEventEnrollment,
		models.AuditEventEnrollment,
		models.AuditEventWaitlisted,
	}, sink.events)
}

func TestEnroll_UnlimitedCourseNeverWaitlists(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: nil})
	ctx := context.Background()

	for i := int64(1); i <= 50; i++ {
		result, err := svc.Enroll(ctx, studentScope(i, 100+i), 10)
		require.NoError(t, err)
		assert.Equal(t, models.StatusEnrolled, result.Status)
	}
}

func TestEnroll_DuplicateActiveEnrollmentRejected(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	_, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, studentScope(1, 101), 10)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_WaitlistedStudentCannotEnrollAgain(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(0)})
	ctx := context.Background()

	result, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, result.Status)

	_, err = svc.Enroll(ctx, studentScope(1, 101), 10)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	svc, _, _ := newTestEnrollmentService()
	_, err := svc.Enroll(context.Background(), studentScope(1, 101), 999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnroll_NonStudentDenied(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10})
	admin := appauth.NewScope(models.RoleAdmin, 1, 0, 0, nil)

	_, err := svc.Enroll(context.Background(), admin, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestWithdraw_NoAutomaticPromotion(t *testing.T) {
	svc, store, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(2)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, studentScope(2, 102), 10)
	require.NoError(t, err)
	d, err := svc.Enroll(ctx, studentScope(4, 104), 10)
	require.NoError(t, err)
	require.Equal(t, models.StatusWaitlisted, d.Status)

	withdrawn, err := svc.Withdraw(ctx, studentScope(1, 101), a.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, withdrawn.Status)

	// the waitlisted student stays waitlisted until an explicit override
	stillWaitlisted, err := store.GetByID(ctx, d.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, stillWaitlisted.Status)
}

func TestWithdraw_FreedSeatGoesToNextEnroller(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(1)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, studentScope(1, 101), a.EnrollmentID)
	require.NoError(t, err)

	// the seat freed by the withdrawal is claimed by the next enrollment
	next, err := svc.Enroll(ctx, studentScope(2, 102), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, next.Status)
}

func TestWithdraw_ReEnrollAfterWithdrawalCreatesNewRow(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	first, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, studentScope(1, 101), first.EnrollmentID)
	require.NoError(t, err)

	second, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	assert.NotEqual(t, first.EnrollmentID, second.EnrollmentID)
	assert.Equal(t, models.StatusEnrolled, second.Status)
}

func TestWithdraw_OnlyOwnerMayWithdraw(t *testing.T) {
	svc, _, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, studentScope(2, 102), a.EnrollmentID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Contains(t, sink.events, models.AuditEventUnauthorizedAccess)

	faculty := appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, 10)
	_, err = svc.Withdraw(ctx, faculty, a.EnrollmentID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestWithdraw_AdminMayWithdrawForStudent(t *testing.T) {
	svc, store, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	withdrawn, err := svc.Withdraw(ctx, admin, a.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, withdrawn.Status)

	// a plain admin withdrawal is audited as a withdrawal, not an override
	assert.Contains(t, sink.events, models.AuditEventWithdrawal)
	assert.NotContains(t, sink.events, models.AuditEventOverride)

	row, err := store.GetByID(ctx, a.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, row.Status)
}

func TestWithdraw_AlreadyWithdrawn(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, studentScope(1, 101), a.EnrollmentID)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, studentScope(1, 101), a.EnrollmentID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)
}

func TestOverride_PromotesWaitlistedIntoFullCourse(t *testing.T) {
	svc, store, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(1)})
	ctx := context.Background()

	_, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	waitlisted, err := svc.Enroll(ctx, studentScope(2, 102), 10)
	require.NoError(t, err)
	require.Equal(t, models.StatusWaitlisted, waitlisted.Status)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	promoted, err := svc.Override(ctx, admin, waitlisted.EnrollmentID, &dto.OverrideRequest{Status: models.StatusEnrolled})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, promoted.Status)
	assert.Contains(t, sink.events, models.AuditEventOverride)

	// the course is now over capacity, which override deliberately allows
	stored, err := store.GetByID(ctx, waitlisted.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, stored.Status)
}

func TestOverride_RevivesWithdrawnEnrollment(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, studentScope(1, 101), a.EnrollmentID)
	require.NoError(t, err)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	revived, err := svc.Override(ctx, admin, a.EnrollmentID, &dto.OverrideRequest{Status: models.StatusEnrolled})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, revived.Status)
}

func TestOverride_NonAdminDenied(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	faculty := appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, 10)
	_, err = svc.Override(ctx, faculty, a.EnrollmentID, &dto.OverrideRequest{Status: models.StatusEnrolled})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestOverride_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	_, err = svc.Override(ctx, admin, a.EnrollmentID, &dto.OverrideRequest{Status: "graduated"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSetSeatLimit_LoweringKeepsExistingEnrollments(t *testing.T) {
	svc, store, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		_, err := svc.Enroll(ctx, studentScope(i, 100+i), 10)
		require.NoError(t, err)
	}

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	course, err := svc.SetSeatLimit(ctx, admin, 10, intPtr(1))
	require.NoError(t, err)
	require.NotNil(t, course.SeatLimit)
	assert.Equal(t, 1, *course.SeatLimit)
	assert.Contains(t, sink.events, models.AuditEventSeatLimitChange)

	// existing enrollments stay enrolled even over the new cap
	roster, err := store.ListByCourse(ctx, 10)
	require.NoError(t, err)
	enrolled := 0
	for _, e := range roster {
		if e.Status == models.StatusEnrolled {
			enrolled++
		}
	}
	assert.Equal(t, 3, enrolled)

	// but the next enrollment lands on the waitlist
	result, err := svc.Enroll(ctx, studentScope(4, 104), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, result.Status)
}

func TestSetSeatLimit_NilClearsLimit(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(0)})
	ctx := context.Background()

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	course, err := svc.SetSeatLimit(ctx, admin, 10, nil)
	require.NoError(t, err)
	assert.Nil(t, course.SeatLimit)

	result, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, result.Status)
}

func TestSetSeatLimit_RejectsNegative(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(&models.Course{ID: 10})
	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)

	_, err := svc.SetSeatLimit(context.Background(), admin, 10, intPtr(-1))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateGrade_AssignedFacultyOnly(t *testing.T) {
	svc, store, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	a, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	grade := "A"
	assigned := appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, 10)
	updated, err := svc.UpdateGrade(ctx, assigned, a.EnrollmentID, &dto.GradeUpdateRequest{Grade: &grade})
	require.NoError(t, err)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, "A", *updated.Grade)
	assert.Contains(t, sink.events, models.AuditEventGradeUpdate)

	stored, err := store.GetByID(ctx, a.EnrollmentID)
	require.NoError(t, err)
	require.NotNil(t, stored.Grade)
	assert.Equal(t, "A", *stored.Grade)

	unassigned := appauth.NewScope(models.RoleFaculty, 51, 0, 8, nil, 20)
	_, err = svc.UpdateGrade(ctx, unassigned, a.EnrollmentID, &dto.GradeUpdateRequest{Grade: &grade})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetRoster_Scoping(t *testing.T) {
	svc, _, sink := newTestEnrollmentService(&models.Course{ID: 10, SeatLimit: intPtr(5)})
	ctx := context.Background()

	_, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	roster, err := svc.GetRoster(ctx, admin, 10)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	assigned := appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, 10)
	roster, err = svc.GetRoster(ctx, assigned, 10)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	unassigned := appauth.NewScope(models.RoleFaculty, 51, 0, 8, nil, 20)
	_, err = svc.GetRoster(ctx, unassigned, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Contains(t, sink.events, models.AuditEventUnauthorizedAccess)

	student := studentScope(1, 101)
	_, err = svc.GetRoster(ctx, student, 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRosterExport_AssignedCoursesOnly(t *testing.T) {
	svc, _, _ := newTestEnrollmentService(
		&models.Course{ID: 10, SeatLimit: intPtr(5)},
		&models.Course{ID: 20, SeatLimit: intPtr(5)},
	)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, studentScope(1, 101), 10)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, studentScope(2, 102), 20)
	require.NoError(t, err)
	withdrawn, err := svc.Enroll(ctx, studentScope(3, 103), 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, studentScope(3, 103), withdrawn.EnrollmentID)
	require.NoError(t, err)

	// assigned to course 10 only: one active row, the withdrawn one excluded
	faculty := appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, 10)
	rows, err := svc.RosterExport(ctx, faculty)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.RosterExport(ctx, studentScope(1, 101))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	_, err = svc.RosterExport(ctx, admin)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
