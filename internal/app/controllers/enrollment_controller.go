package controllers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// EnrollmentController handles the enrollment state machine endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

func requireScope(ctx *gin.Context) (*appauth.Scope, bool) {
	scope, ok := middleware.ScopeFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return scope, true
}

// Enroll attempts to enroll the acting student in a course
// @Summary Enroll in a course
// @Description Enrolls the student, or waitlists them when the course is full
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Course to enroll in"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResult} "Enrolled or waitlisted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or waitlisted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	result, err := c.enrollmentService.Enroll(ctx.Request.Context(), scope, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// Withdraw moves the student's own enrollment to withdrawn
// @Summary Withdraw from a course
// @Description Withdraws the student's own enrollment; no waitlist promotion happens
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Withdrawn successfully"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Already withdrawn"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/enrollments/{id}/withdraw [post]
func (c *EnrollmentController) Withdraw(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Withdraw(ctx.Request.Context(), scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// ListOwnEnrollments returns the acting student's enrollment history
// @Summary List own enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.StudentEnrollmentRow} "Enrollments retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/enrollments [get]
func (c *EnrollmentController) ListOwnEnrollments(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	rows, err := c.enrollmentService.ListOwnEnrollments(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      rows,
		Timestamp: time.Now(),
	})
}

// Override forces an enrollment into a target status
// @Summary Override an enrollment (admin)
// @Description Forces any status change, bypassing seat limits; the only path that promotes waitlisted students into a full course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.OverrideRequest true "Target status and optional remarks"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment overridden"
// @Failure 400 {object} dto.ErrorResponse "Unknown target status"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/enrollments/{id}/override [post]
func (c *EnrollmentController) Override(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.OverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid override data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Override(ctx.Request.Context(), scope, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// UpdateGrade sets the grade and remarks on an enrollment
// @Summary Update grade (faculty)
// @Description Sets grade/remarks; only faculty assigned to the course may grade
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.GradeUpdateRequest true "Grade and remarks"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Grade updated"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this course"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/enrollments/{id}/grade [put]
func (c *EnrollmentController) UpdateGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GradeUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid grade data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.UpdateGrade(ctx.Request.Context(), scope, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// GetRoster returns a course's enrollment roster
// @Summary Get course roster
// @Description Lists a course's enrollments; faculty see only assigned courses
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Roster retrieved"
// @Failure 403 {object} dto.ErrorResponse "Course outside your scope"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/roster [get]
func (c *EnrollmentController) GetRoster(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	roster, err := c.enrollmentService.GetRoster(ctx.Request.Context(), scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      roster,
		Timestamp: time.Now(),
	})
}

// ListAllEnrollments returns enrollments across every student and course
// @Summary List all enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Filter by course ID"
// @Param status query string false "Filter by status (enrolled, waitlisted, withdrawn)"
// @Param limit query int false "Max entries (default 100, cap 500)"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/enrollments [get]
func (c *EnrollmentController) ListAllEnrollments(ctx *gin.Context) {
	var filter repositories.EnrollmentFilter

	if raw := ctx.Query("courseId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.CourseID = &id
	}
	if raw := ctx.Query("status"); raw != "" {
		status := models.EnrollmentStatus(raw)
		if !status.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment status")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.Status = &status
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid limit")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.Limit = limit
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListAll(ctx.Request.Context(), scope, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// ExportRoster downloads the faculty member's active rosters as CSV
// @Summary Export assigned-course rosters as CSV
// @Description Streams enrolled and waitlisted students of the faculty member's assigned courses
// @Tags enrollments
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/students/export [get]
func (c *EnrollmentController) ExportRoster(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	rows, err := c.enrollmentService.RosterExport(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="enrolled_students.csv"`)

	w := csv.NewWriter(ctx.Writer)
	_ = w.Write([]string{"Course Code", "Course Name", "Student Name", "Email", "Student No", "Status", "Remarks"})
	for _, row := range rows {
		remarks := ""
		if row.Remarks != nil {
			remarks = *row.Remarks
		}
		if len(remarks) > 100 {
			remarks = remarks[:100]
		}
		_ = w.Write([]string{
			row.CourseCode, row.CourseName, row.StudentName, row.Email,
			row.StudentNo, string(row.Status), remarks,
		})
	}
	w.Flush()
}
