package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
)

// AnalyticsRepository runs the read-only aggregate queries behind the
// analytics endpoints. Aggregations use LEFT JOINs so courses and
// departments with zero enrollments still produce rows.
type AnalyticsRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
	}
}

// CourseStats returns per-course enrolled and waitlisted counts,
// restricted to the given course IDs when the filter is non-nil. A nil
// filter means all courses.
func (r *AnalyticsRepository) CourseStats(ctx context.Context, courseIDs []int64) ([]models.CourseStats, error) {
	query := `
		SELECT c.id, c.name, c.code, d.name, c.seat_limit,
		       COUNT(e.id) FILTER (WHERE e.status = 'enrolled'),
		       COUNT(e.id) FILTER (WHERE e.status = 'waitlisted')
		FROM courses c
		JOIN departments d ON d.id = c.department_id
		LEFT JOIN enrollments e ON e.course_id = c.id
	`
	args := []interface{}{}
	if courseIDs != nil {
		query += ` WHERE c.id = ANY($1)`
		args = append(args, courseIDs)
	}
	query += `
		GROUP BY c.id, d.name
		ORDER BY c.code
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course stats: %w", err)
	}
	defer rows.Close()

	var stats []models.CourseStats
	for rows.Next() {
		var s models.CourseStats
		if err := rows.Scan(
			&s.CourseID, &s.CourseName, &s.CourseCode, &s.DepartmentName,
			&s.SeatLimit, &s.EnrolledCount, &s.WaitlistedCount,
		); err != nil {
			return nil, err
		}
		if s.SeatLimit != nil && *s.SeatLimit > 0 {
			pct := float64(s.EnrolledCount) / float64(*s.SeatLimit) * 100
			s.UtilizationPct = &pct
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// DepartmentStats returns per-department course and enrollment counts.
// Departments with no courses still appear with zero counts.
func (r *AnalyticsRepository) DepartmentStats(ctx context.Context, departmentIDs []int64) ([]models.DepartmentStats, error) {
	query := `
		SELECT d.id, d.name, d.code,
		       COUNT(DISTINCT c.id),
		       COUNT(e.id) FILTER (WHERE e.status = 'enrolled')
		FROM departments d
		LEFT JOIN courses c ON c.department_id = d.id
		LEFT JOIN enrollments e ON e.course_id = c.id
	`
	args := []interface{}{}
	if departmentIDs != nil {
		query += ` WHERE d.id = ANY($1)`
		args = append(args, departmentIDs)
	}
	query += `
		GROUP BY d.id
		ORDER BY d.name
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying department stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DepartmentStats
	for rows.Next() {
		var s models.DepartmentStats
		if err := rows.Scan(&s.DepartmentID, &s.DepartmentName, &s.DepartmentCode, &s.CourseCount, &s.EnrolledCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// TrendCounts returns enrolled-row counts bucketed by granularity within
// [from, to). Waitlisted and withdrawn rows do not count. Buckets with no
// enrollments are absent from the result; the service layer zero-fills
// the gaps.
func (r *AnalyticsRepository) TrendCounts(ctx context.Context, granularity models.TrendGranularity, from, to time.Time, courseIDs []int64) (map[time.Time]int, error) {
	if !granularity.Valid() {
		return nil, fmt.Errorf("invalid trend granularity %q", granularity)
	}

	query := trendQuery(granularity, courseIDs != nil)
	args := []interface{}{from, to}
	if courseIDs != nil {
		args = append(args, courseIDs)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollment trends: %w", err)
	}
	defer rows.Close()

	counts := make(map[time.Time]int)
	for rows.Next() {
		var bucket time.Time
		var count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, err
		}
		counts[bucket.UTC()] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// trendQuery builds the bucketed trend query. Only rows with status
// 'enrolled' count toward a bucket. granularity is validated against the
// closed set before this is called, so it is safe to splice into
// date_trunc.
func trendQuery(granularity models.TrendGranularity, withCourseFilter bool) string {
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', enrolled_at) AS bucket, COUNT(*)
		FROM enrollments
		WHERE status = 'enrolled' AND enrolled_at >= $1 AND enrolled_at < $2
	`, granularity)
	if withCourseFilter {
		query += ` AND course_id = ANY($3)`
	}
	return query + ` GROUP BY bucket`
}
