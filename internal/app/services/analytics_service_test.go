package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

type fakeAnalyticsStore struct {
	courseStats     []models.CourseStats
	departmentStats []models.DepartmentStats
	trendCounts     map[time.Time]int
	err             error

	trendQueries int
	lastFilter   []int64
}

func (f *fakeAnalyticsStore) CourseStats(ctx context.Context, courseIDs []int64) ([]models.CourseStats, error) {
	f.lastFilter = courseIDs
	if f.err != nil {
		return nil, f.err
	}
	if courseIDs == nil {
		return f.courseStats, nil
	}
	var filtered []models.CourseStats
	for _, s := range f.courseStats {
		for _, id := range courseIDs {
			if s.CourseID == id {
				filtered = append(filtered, s)
			}
		}
	}
	return filtered, nil
}

func (f *fakeAnalyticsStore) DepartmentStats(ctx context.Context, departmentIDs []int64) ([]models.DepartmentStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if departmentIDs == nil {
		return f.departmentStats, nil
	}
	var filtered []models.DepartmentStats
	for _, s := range f.departmentStats {
		for _, id := range departmentIDs {
			if s.DepartmentID == id {
				filtered = append(filtered, s)
			}
		}
	}
	return filtered, nil
}

func (f *fakeAnalyticsStore) TrendCounts(ctx context.Context, granularity models.TrendGranularity, from, to time.Time, courseIDs []int64) (map[time.Time]int, error) {
	f.trendQueries++
	if f.err != nil {
		return nil, f.err
	}
	return f.trendCounts, nil
}

func floatPtr(v float64) *float64 { return &v }

func adminScope() *appauth.Scope {
	return appauth.NewScope(models.RoleAdmin, 1, 0, 0, nil)
}

func TestCourseStats_IncludesZeroEnrollmentCourses(t *testing.T) {
	store := &fakeAnalyticsStore{
		courseStats: []models.CourseStats{
			{CourseID: 1, CourseCode: "CS101", SeatLimit: intPtr(30), EnrolledCount: 25, UtilizationPct: floatPtr(83.3)},
			{CourseID: 2, CourseCode: "CS102", SeatLimit: intPtr(40), EnrolledCount: 0, UtilizationPct: floatPtr(0)},
		},
	}
	svc := NewAnalyticsService(store, zerolog.Nop())

	stats := svc.CourseStats(context.Background(), adminScope())
	require.Len(t, stats, 2)
	assert.Equal(t, 0, stats[1].EnrolledCount)
}

func TestCourseStats_QueryFailureReturnsEmpty(t *testing.T) {
	store := &fakeAnalyticsStore{err: errors.New("connection refused")}
	svc := NewAnalyticsService(store, zerolog.Nop())

	stats := svc.CourseStats(context.Background(), adminScope())
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestCourseStats_FacultyScopedToAssignments(t *testing.T) {
	store := &fakeAnalyticsStore{
		courseStats: []models.CourseStats{
			{CourseID: 1, CourseCode: "CS101"},
			{CourseID: 2, CourseCode: "CS102"},
		},
	}
	svc := NewAnalyticsService(store, zerolog.Nop())

	faculty := appauth.NewScope(models.RoleFaculty, 5, 0, 7, nil, 1)
	stats := svc.CourseStats(context.Background(), faculty)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].CourseID)
	assert.Equal(t, []int64{1}, store.lastFilter)
}

func TestCourseStatsFor_UnassignedFacultyForbidden(t *testing.T) {
	store := &fakeAnalyticsStore{
		courseStats: []models.CourseStats{{CourseID: 2, CourseCode: "CS102"}},
	}
	svc := NewAnalyticsService(store, zerolog.Nop())

	faculty := appauth.NewScope(models.RoleFaculty, 5, 0, 7, nil, 1)
	_, err := svc.CourseStatsFor(context.Background(), faculty, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	student := appauth.NewScope(models.RoleStudent, 6, 101, 0, nil)
	_, err = svc.CourseStatsFor(context.Background(), student, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDepartmentStats_QueryFailureReturnsEmpty(t *testing.T) {
	store := &fakeAnalyticsStore{err: errors.New("timeout")}
	svc := NewAnalyticsService(store, zerolog.Nop())

	stats := svc.DepartmentStats(context.Background(), adminScope())
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestHighLowDemand_PartitionsByThreshold(t *testing.T) {
	store := &fakeAnalyticsStore{
		courseStats: []models.CourseStats{
			{CourseID: 1, CourseCode: "CS101", UtilizationPct: floatPtr(90)},
			{CourseID: 2, CourseCode: "CS102", UtilizationPct: floatPtr(75)},
			{CourseID: 3, CourseCode: "CS103", UtilizationPct: floatPtr(40)},
			{CourseID: 4, CourseCode: "CS104", UtilizationPct: nil}, // unlimited
		},
	}
	svc := NewAnalyticsService(store, zerolog.Nop())

	partition := svc.HighLowDemand(context.Background(), adminScope(), 75)
	require.Len(t, partition.HighDemand, 2)
	require.Len(t, partition.LowDemand, 1)
	assert.Equal(t, "CS103", partition.LowDemand[0].CourseCode)
}

func TestHighLowDemand_EmptyOnError(t *testing.T) {
	store := &fakeAnalyticsStore{err: errors.New("boom")}
	svc := NewAnalyticsService(store, zerolog.Nop())

	partition := svc.HighLowDemand(context.Background(), adminScope(), 75)
	assert.Empty(t, partition.HighDemand)
	assert.Empty(t, partition.LowDemand)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collectTrend(seq func(func(models.TrendPoint) bool)) []models.TrendPoint {
	var points []models.TrendPoint
	seq(func(p models.TrendPoint) bool {
		points = append(points, p)
		return true
	})
	return points
}

func TestTrends_ContiguousZeroFilledBuckets(t *testing.T) {
	store := &fakeAnalyticsStore{
		trendCounts: map[time.Time]int{
			day(2026, 3, 1): 4,
			day(2026, 3, 3): 2,
		},
	}
	svc := NewAnalyticsService(store, zerolog.Nop())

	seq, err := svc.Trends(context.Background(), adminScope(), &dto.TrendQuery{
		Granularity: models.GranularityDay,
		From:        "2026-03-01",
		To:          "2026-03-04",
	})
	require.NoError(t, err)

	points := collectTrend(seq)
	require.Len(t, points, 4)
	assert.Equal(t, day(2026, 3, 1), points[0].Date)
	assert.Equal(t, 4, points[0].EnrolledCount)
	assert.Equal(t, 0, points[1].EnrolledCount) // gap zero-filled
	assert.Equal(t, 2, points[2].EnrolledCount)
	assert.Equal(t, 0, points[3].EnrolledCount)
}

func TestTrends_WeekBucketsStartMonday(t *testing.T) {
	store := &fakeAnalyticsStore{trendCounts: map[time.Time]int{
		day(2026, 3, 2): 7, // a Monday
	}}
	svc := NewAnalyticsService(store, zerolog.Nop())

	seq, err := svc.Trends(context.Background(), adminScope(), &dto.TrendQuery{
		Granularity: models.GranularityWeek,
		From:        "2026-03-04", // a Wednesday, truncates back to Monday
		To:          "2026-03-08",
	})
	require.NoError(t, err)

	points := collectTrend(seq)
	require.Len(t, points, 1)
	assert.Equal(t, day(2026, 3, 2), points[0].Date)
	assert.Equal(t, 7, points[0].EnrolledCount)
}

func TestTrends_RestartableSequence(t *testing.T) {
	store := &fakeAnalyticsStore{trendCounts: map[time.Time]int{}}
	svc := NewAnalyticsService(store, zerolog.Nop())

	seq, err := svc.Trends(context.Background(), adminScope(), &dto.TrendQuery{
		Granularity: models.GranularityDay,
		From:        "2026-03-01",
		To:          "2026-03-03",
	})
	require.NoError(t, err)

	first := collectTrend(seq)
	second := collectTrend(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.trendQueries)
}

func TestTrends_QueryFailureYieldsEmptySeries(t *testing.T) {
	store := &fakeAnalyticsStore{err: errors.New("boom")}
	svc := NewAnalyticsService(store, zerolog.Nop())

	seq, err := svc.Trends(context.Background(), adminScope(), &dto.TrendQuery{
		Granularity: models.GranularityDay,
		From:        "2026-03-01",
		To:          "2026-03-10",
	})
	require.NoError(t, err)
	assert.Empty(t, collectTrend(seq))
}

func TestTrends_InvalidInput(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsStore{}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Trends(ctx, adminScope(), &dto.TrendQuery{Granularity: "hour"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Trends(ctx, adminScope(), &dto.TrendQuery{Granularity: models.GranularityDay, From: "03/01/2026"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)

	_, err = svc.Trends(ctx, adminScope(), &dto.TrendQuery{Granularity: models.GranularityDay, From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
