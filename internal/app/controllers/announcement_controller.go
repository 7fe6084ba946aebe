package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// AnnouncementController handles course announcement endpoints
type AnnouncementController struct {
	announcementService *services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

// PostAnnouncement creates an announcement for an assigned course
// @Summary Post a course announcement
// @Description Posts an announcement to one of the faculty member's assigned courses
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} dto.APIResponse{data=models.Announcement} "Announcement posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Course not assigned to faculty"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/announcements [post]
func (c *AnnouncementController) PostAnnouncement(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid announcement data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	announcement, err := c.announcementService.Post(ctx.Request.Context(), scope, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      announcement,
		Timestamp: time.Now(),
	})
}

// ListMyAnnouncements returns the faculty member's announcements
// @Summary List own announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty/announcements [get]
func (c *AnnouncementController) ListMyAnnouncements(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	announcements, err := c.announcementService.ListMine(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      announcements,
		Timestamp: time.Now(),
	})
}

// ListCourseAnnouncements returns announcements for the student's courses
// @Summary List announcements for enrolled courses
// @Description Returns announcements for the courses the student is enrolled or waitlisted in
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement} "Announcements retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student/announcements [get]
func (c *AnnouncementController) ListCourseAnnouncements(ctx *gin.Context) {
	scope, ok := requireScope(ctx)
	if !ok {
		return
	}

	announcements, err := c.announcementService.ListForStudent(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      announcements,
		Timestamp: time.Now(),
	})
}
