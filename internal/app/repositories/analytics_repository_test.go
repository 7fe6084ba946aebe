package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
)

func TestTrendQueryCountsOnlyEnrolledRows(t *testing.T) {
	for _, g := range []models.TrendGranularity{
		models.GranularityDay, models.GranularityWeek, models.GranularityMonth,
	} {
		query := trendQuery(g, false)
		assert.Contains(t, query, "status = 'enrolled'",
			"waitlisted and withdrawn rows must not inflate the %s series", g)
		assert.Contains(t, query, "date_trunc('"+string(g)+"'")
		assert.NotContains(t, query, "$3")
	}
}

func TestTrendQueryCourseFilter(t *testing.T) {
	query := trendQuery(models.GranularityDay, true)
	assert.Contains(t, query, "status = 'enrolled'")
	assert.Contains(t, query, "course_id = ANY($3)")
}
