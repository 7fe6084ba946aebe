package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// AuditController serves the admin audit log view
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// ListAuditLogs returns audit log entries, newest first
// @Summary List audit logs
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param eventType query string false "Filter by event type"
// @Param userId query int false "Filter by user ID"
// @Param limit query int false "Max entries (default 100, cap 500)"
// @Success 200 {object} dto.APIResponse{data=[]models.AuditLog} "Audit logs retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/audit-logs [get]
func (c *AuditController) ListAuditLogs(ctx *gin.Context) {
	filter := repositories.AuditFilter{
		EventType: ctx.Query("eventType"),
	}
	if raw := ctx.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.UserID = &id
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

	entries, err := c.auditService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entries,
		Timestamp: time.Now(),
	})
}
