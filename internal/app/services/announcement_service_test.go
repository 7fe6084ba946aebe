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
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

type fakeAnnouncementStore struct {
	announcements []*models.Announcement
	nextID        int64
}

func (f *fakeAnnouncementStore) Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	f.nextID++
	a.ID = f.nextID
	f.announcements = append(f.announcements, a)
	return a, nil
}

func (f *fakeAnnouncementStore) ListByFaculty(ctx context.Context, facultyID int64, limit int) ([]*models.Announcement, error) {
	var result []*models.Announcement
	for _, a := range f.announcements {
		if a.FacultyID == facultyID && len(result) < limit {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAnnouncementStore) ListByCourses(ctx context.Context, courseIDs []int64, limit int) ([]*models.Announcement, error) {
	visible := make(map[int64]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		visible[id] = struct{}{}
	}
	var result []*models.Announcement
	for _, a := range f.announcements {
		if _, ok := visible[a.CourseID]; ok && len(result) < limit {
			result = append(result, a)
		}
	}
	return result, nil
}

func newTestAnnouncementService(courses ...*models.Course) (*AnnouncementService, *fakeEnrollmentStore, *recordingAuditSink) {
	enrollments := newFakeEnrollmentStore(courses...)
	sink := &recordingAuditSink{}
	svc := NewAnnouncementService(&fakeAnnouncementStore{}, enrollments, sink, zerolog.Nop())
	return svc, enrollments, sink
}

func facultyScope(courseIDs ...int64) *appauth.Scope {
	return appauth.NewScope(models.RoleFaculty, 50, 0, 7, nil, courseIDs...)
}

func TestPostAnnouncement_AssignedCourse(t *testing.T) {
	svc, _, _ := newTestAnnouncementService()
	body := "Midterm moved to Friday."

	a, err := svc.Post(context.Background(), facultyScope(10), &dto.CreateAnnouncementRequest{
		CourseID: 10,
		Title:    "Schedule change",
		Body:     &body,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.FacultyID)
	assert.Equal(t, models.AnnouncementGeneral, a.Type, "type defaults to general")
}

func TestPostAnnouncement_UnassignedCourseDeniedAndAudited(t *testing.T) {
	svc, _, sink := newTestAnnouncementService()

	_, err := svc.Post(context.Background(), facultyScope(10), &dto.CreateAnnouncementRequest{
		CourseID: 20,
		Title:    "Not my course",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Contains(t, sink.events, models.AuditEventUnauthorizedAccess)
}

func TestPostAnnouncement_NonFacultyDenied(t *testing.T) {
	svc, _, _ := newTestAnnouncementService()
	req := &dto.CreateAnnouncementRequest{CourseID: 10, Title: "Hello"}

	_, err := svc.Post(context.Background(), studentScope(1, 101), req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	admin := appauth.NewScope(models.RoleAdmin, 99, 0, 0, nil)
	_, err = svc.Post(context.Background(), admin, req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPostAnnouncement_RejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestAnnouncementService()

	_, err := svc.Post(context.Background(), facultyScope(10), &dto.CreateAnnouncementRequest{
		CourseID: 10,
		Title:    "Typed",
		Type:     "urgent",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListForStudent_ScopedToActiveEnrollments(t *testing.T) {
	svc, enrollments, _ := newTestAnnouncementService(
		&models.Course{ID: 10, SeatLimit: intPtr(5)},
		&models.Course{ID: 20, SeatLimit: intPtr(5)},
		&models.Course{ID: 30, SeatLimit: intPtr(5)},
	)
	ctx := context.Background()

	for _, courseID := range []int64{10, 20, 30} {
		_, err := svc.Post(ctx, facultyScope(courseID), &dto.CreateAnnouncementRequest{
			CourseID: courseID,
			Title:    "Welcome",
		})
		require.NoError(t, err)
	}

	// enrolled in 10, withdrawn from 20, never touched 30
	_, err := enrollments.CreateWithSeatCheck(ctx, 101, 10)
	require.NoError(t, err)
	dropped, err := enrollments.CreateWithSeatCheck(ctx, 101, 20)
	require.NoError(t, err)
	require.NoError(t, enrollments.UpdateStatus(ctx, dropped.ID, models.StatusWithdrawn))

	announcements, err := svc.ListForStudent(ctx, studentScope(1, 101))
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, int64(10), announcements[0].CourseID)
}

func TestListMine_FacultyOnly(t *testing.T) {
	svc, _, _ := newTestAnnouncementService()
	ctx := context.Background()

	_, err := svc.Post(ctx, facultyScope(10), &dto.CreateAnnouncementRequest{CourseID: 10, Title: "One"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, facultyScope(10))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListMine(ctx, studentScope(1, 101))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
