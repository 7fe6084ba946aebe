package services

import (
	"context"
	"iter"
	"time"

	"github.com/rs/zerolog"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// AnalyticsStore is the aggregate-query surface the analytics service needs
type AnalyticsStore interface {
	CourseStats(ctx context.Context, courseIDs []int64) ([]models.CourseStats, error)
	DepartmentStats(ctx context.Context, departmentIDs []int64) ([]models.DepartmentStats, error)
	TrendCounts(ctx context.Context, granularity models.TrendGranularity, from, to time.Time, courseIDs []int64) (map[time.Time]int, error)
}

// AnalyticsService serves scoped enrollment aggregates. Query failures
// degrade to empty results instead of surfacing an error; authorization
// failures still return one.
type AnalyticsService struct {
	store  AnalyticsStore
	logger zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(store AnalyticsStore, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		logger: logger,
	}
}

// CourseStats returns per-course aggregates inside the actor's scope.
// Courses with zero enrollments are included with zero counts.
func (s *AnalyticsService) CourseStats(ctx context.Context, scope *appauth.Scope) []models.CourseStats {
	stats, err := s.store.CourseStats(ctx, scope.CourseFilter())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Course stats query failed, returning empty result")
		return []models.CourseStats{}
	}
	if stats == nil {
		return []models.CourseStats{}
	}
	return stats
}

// CourseStatsFor returns aggregates for one course. Faculty asking about a
// course outside their assignments get a permission error, not an empty
// result, so the denial is distinguishable from an absent course.
func (s *AnalyticsService) CourseStatsFor(ctx context.Context, scope *appauth.Scope, courseID int64) (*models.CourseStats, error) {
	if scope.Role == models.RoleStudent || !scope.CanViewCourse(courseID) {
		return nil, apperrors.ErrPermissionDenied
	}

	stats, err := s.store.CourseStats(ctx, []int64{courseID})
	if err != nil {
		s.logger.Warn().Err(err).Int64("courseId", courseID).Msg("Course stats query failed")
		return nil, apperrors.ErrCourseNotFound
	}
	if len(stats) == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return &stats[0], nil
}

// DepartmentStats returns per-department aggregates inside the actor's
// scope.
func (s *AnalyticsService) DepartmentStats(ctx context.Context, scope *appauth.Scope) []models.DepartmentStats {
	stats, err := s.store.DepartmentStats(ctx, scope.DepartmentFilter())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Department stats query failed, returning empty result")
		return []models.DepartmentStats{}
	}
	if stats == nil {
		return []models.DepartmentStats{}
	}
	return stats
}

// HighLowDemand partitions scoped courses by capacity utilization against
// the threshold percentage. Courses without a seat limit have no
// utilization and are left out of both buckets.
func (s *AnalyticsService) HighLowDemand(ctx context.Context, scope *appauth.Scope, thresholdPct float64) models.DemandPartition {
	partition := models.DemandPartition{
		HighDemand: []models.CourseStats{},
		LowDemand:  []models.CourseStats{},
	}

	for _, stat := range s.CourseStats(ctx, scope) {
		if stat.UtilizationPct == nil {
			continue
		}
		if *stat.UtilizationPct >= thresholdPct {
			partition.HighDemand = append(partition.HighDemand, stat)
		} else {
			partition.LowDemand = append(partition.LowDemand, stat)
		}
	}

	return partition
}

// Trends returns a lazily evaluated series of enrollment counts bucketed
// by the query granularity. Every bucket between from and to is yielded,
// zero-filled where no enrollments happened, so consumers can plot the
// series without gap handling. The sequence is restartable; each iteration
// re-runs the query.
func (s *AnalyticsService) Trends(ctx context.Context, scope *appauth.Scope, query *dto.TrendQuery) (iter.Seq[models.TrendPoint], error) {
	granularity := query.Granularity
	if granularity == "" {
		granularity = models.GranularityDay
	}
	if !granularity.Valid() {
		return nil, apperrors.ErrValidationFailed
	}

	from, to, err := resolveTrendWindow(query)
	if err != nil {
		return nil, err
	}

	courseIDs := scope.CourseFilter()

	return func(yield func(models.TrendPoint) bool) {
		counts, err := s.store.TrendCounts(ctx, granularity, from, to, courseIDs)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Trend query failed, returning empty series")
			return
		}

		for bucket := truncateToBucket(from, granularity); bucket.Before(to); bucket = nextBucket(bucket, granularity) {
			point := models.TrendPoint{Date: bucket, EnrolledCount: counts[bucket]}
			if !yield(point) {
				return
			}
		}
	}, nil
}

// resolveTrendWindow parses the from/to dates, defaulting to the last 30
// days ending tomorrow (so today's enrollments are included).
func resolveTrendWindow(query *dto.TrendQuery) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -30)

	if query.From != "" {
		parsed, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.ErrInvalidFormat
		}
		from = parsed
	}
	if query.To != "" {
		parsed, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.ErrInvalidFormat
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperrors.ErrBadRequest
	}

	return from, to, nil
}

// truncateToBucket aligns a timestamp to its bucket start the same way
// Postgres date_trunc does, so map lookups line up with query results.
func truncateToBucket(t time.Time, granularity models.TrendGranularity) time.Time {
	t = t.UTC()
	switch granularity {
	case models.GranularityWeek:
		// date_trunc('week', ...) starts weeks on Monday
		day := t.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}

func nextBucket(t time.Time, granularity models.TrendGranularity) time.Time {
	switch granularity {
	case models.GranularityWeek:
		return t.AddDate(0, 0, 7)
	case models.GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
