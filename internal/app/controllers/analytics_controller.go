package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// AnalyticsController serves scoped enrollment aggregates
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// CourseStats returns per-course enrollment aggregates
// @Summary Course enrollment statistics
// @Description Per-course enrolled/waitlisted counts within the caller's scope; query failures yield an empty list
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.CourseStats} "Stats retrieved"
// @Router /analytics/courses [get]
func (c *AnalyticsController) CourseStats(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	stats := c.analyticsService.CourseStats(ctx.Request.Context(), scope)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// CourseStatsFor returns aggregates for one course
// @Summary Single course statistics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseStats} "Stats retrieved"
// @Failure 403 {object} dto.ErrorResponse "Course outside your scope"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /analytics/courses/{id} [get]
func (c *AnalyticsController) CourseStatsFor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	stats, err := c.analyticsService.CourseStatsFor(ctx.Request.Context(), scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// DepartmentStats returns per-department aggregates
// @Summary Department enrollment statistics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.DepartmentStats} "Stats retrieved"
// @Router /analytics/departments [get]
func (c *AnalyticsController) DepartmentStats(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	stats := c.analyticsService.DepartmentStats(ctx.Request.Context(), scope)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// HighLowDemand partitions courses by capacity utilization
// @Summary High and low demand courses
// @Description Splits scoped courses into over- and under-threshold buckets by utilization; unlimited courses appear in neither
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param threshold query number false "Utilization threshold percentage" default(75)
// @Success 200 {object} dto.APIResponse{data=models.DemandPartition} "Partition retrieved"
// @Router /analytics/demand [get]
func (c *AnalyticsController) HighLowDemand(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	var query dto.DemandQuery
	if err := ctx.ShouldBindQuery(&query); err != nil || query.ThresholdPct < 0 || query.ThresholdPct > 100 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid threshold")
		errorDetail = errorDetail.WithDetails("Threshold must be a number between 0 and 100")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	partition := c.analyticsService.HighLowDemand(ctx.Request.Context(), scope, query.ThresholdPct)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      partition,
		Timestamp: time.Now(),
	})
}

// Trends returns an enrollment trend series
// @Summary Enrollment trends
// @Description Date-bucketed enrollment counts within the caller's scope, zero-filled for gaps
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param granularity query string false "Bucket size" Enums(day, week, month) default(day)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.TrendPoint} "Trend series retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid granularity or date range"
// @Router /analytics/trends [get]
func (c *AnalyticsController) Trends(ctx *gin.Context) {
	var query dto.TrendQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid trend query")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	seq, err := c.analyticsService.Trends(ctx.Request.Context(), scope, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	points := make([]models.TrendPoint, 0)
	for point := range seq {
		points = append(points, point)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      points,
		Timestamp: time.Now(),
	})
}
