package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// CourseController handles course catalog management and assignments
type CourseController struct {
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, enrollmentService *services.EnrollmentService) *CourseController {
	return &CourseController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// GetCourse retrieves a course by ID
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// ListCourses retrieves courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Filter by department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var departmentID *int64
	if raw := ctx.Query("departmentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department ID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		departmentID = &id
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), departmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// ListCatalog retrieves the course catalog with live seat status
// @Summary Browse the course catalog
// @Description Lists all courses with enrolled counts and remaining seats
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AvailableCourse} "Catalog retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/catalog [get]
func (c *CourseController) ListCatalog(ctx *gin.Context) {
	catalog, err := c.courseService.ListCatalog(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      catalog,
		Timestamp: time.Now(),
	})
}

// ListAvailableCourses retrieves courses with seat status within the
// caller's scope
// @Summary List available courses
// @Description Lists visible courses with enrolled counts and remaining seats
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AvailableCourse} "Courses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/courses [get]
func (c *CourseController) ListAvailableCourses(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListAvailableCourses(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// UpdateCourse modifies a course
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// DeleteCourse removes a course
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course still has enrollments or assignments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"message": "Course deleted"},
		Timestamp: time.Now(),
	})
}

// SetSeatLimit changes a course's seat limit
// @Summary Set course seat limit
// @Description Sets or clears the seat limit; existing enrollments are never touched
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.SetSeatLimitRequest true "New limit, null for unlimited"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Seat limit updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid seat limit"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/seat-limit [put]
func (c *CourseController) SetSeatLimit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetSeatLimitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid seat limit data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := middleware.ScopeFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.enrollmentService.SetSeatLimit(ctx.Request.Context(), scope, id, req.SeatLimit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// AssignFaculty links a faculty member to a course
// @Summary Assign faculty to a course
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignFacultyRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=models.CourseAssignment} "Faculty assigned"
// @Failure 404 {object} dto.ErrorResponse "Faculty or course not found"
// @Failure 409 {object} dto.ErrorResponse "Assignment already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments [post]
func (c *CourseController) AssignFaculty(ctx *gin.Context) {
	var req dto.AssignFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	assignment, err := c.courseService.AssignFaculty(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      assignment,
		Timestamp: time.Now(),
	})
}

// UnassignFaculty removes a faculty-course assignment
// @Summary Remove a faculty assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse "Assignment removed"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [delete]
func (c *CourseController) UnassignFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.UnassignFaculty(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"message": "Assignment removed"},
		Timestamp: time.Now(),
	})
}

// ListMyCourses returns the authenticated faculty member's assigned courses
// @Summary List own assigned courses
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.CourseAssignment} "Assignments retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	scope, ok := middleware.ScopeFromContext(ctx)
	if !ok || scope.FacultyID == 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	assignments, err := c.courseService.ListAssignments(ctx.Request.Context(), scope.FacultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      assignments,
		Timestamp: time.Now(),
	})
}
