package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/services"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/metrics"
)

// Context keys set by JWTAuth and ResolveScope
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
	ContextScope    = "scope"
)

// AuthMiddleware handles authentication and capability checks
type AuthMiddleware struct {
	jwtService    *auth.JWTService
	scopeResolver *appauth.ScopeResolver
	audit         *services.AuditService
	logger        zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, scopeResolver *appauth.ScopeResolver, audit *services.AuditService, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:    jwtService,
		scopeResolver: scopeResolver,
		audit:         audit,
		logger:        logger,
	}
}

// JWTAuth validates the bearer token and stores the actor's identity in
// the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			} else if errors.Is(err, apperrors.ErrInvalidFormat) {
				errorDetails = "Invalid token format"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, models.RoleType(claims.RoleType))

		c.Next()
	}
}

// ResolveScope builds the actor's visibility scope from the authenticated
// identity and stores it in the request context. Must run after JWTAuth.
func (m *AuthMiddleware) ResolveScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := actorFromContext(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		scope, err := m.scopeResolver.Resolve(c.Request.Context(), userID, role)
		if err != nil {
			m.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to resolve actor scope")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("Could not resolve your profile")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextScope, scope)
		c.Next()
	}
}

// RequireCapability rejects requests from roles lacking the capability.
// Denials are audited and counted.
func (m *AuthMiddleware) RequireCapability(capability appauth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := actorFromContext(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !appauth.HasCapability(role, capability) {
			m.audit.RecordRequest(c.Request.Context(), models.AuditEventUnauthorizedAccess, &userID, &role,
				c.FullPath(), c.Request.Method, map[string]interface{}{
					"capability": string(capability),
				})
			metrics.AccessDenials.Inc()

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

func actorFromContext(c *gin.Context) (int64, models.RoleType, bool) {
	rawID, exists := c.Get(ContextUserID)
	if !exists {
		return 0, "", false
	}
	userID, ok := rawID.(int64)
	if !ok {
		return 0, "", false
	}

	rawRole, exists := c.Get(ContextRoleType)
	if !exists {
		return 0, "", false
	}
	role, ok := rawRole.(models.RoleType)
	if !ok {
		if roleStr, okStr := rawRole.(string); okStr {
			role = models.RoleType(roleStr)
		} else {
			return 0, "", false
		}
	}

	return userID, role, true
}

// ScopeFromContext returns the resolved scope set by ResolveScope
func ScopeFromContext(c *gin.Context) (*appauth.Scope, bool) {
	raw, exists := c.Get(ContextScope)
	if !exists {
		return nil, false
	}
	scope, ok := raw.(*appauth.Scope)
	return scope, ok
}
