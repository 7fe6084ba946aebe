package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
)

// AuthService handles login, token refresh and profile retrieval
type AuthService struct {
	userRepo    *repositories.UserRepository
	studentRepo *repositories.StudentRepository
	facultyRepo *repositories.FacultyRepository
	tokenRepo   *repositories.TokenRepository
	jwtService  *auth.JWTService
	audit       AuditSink
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	facultyRepo *repositories.FacultyRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	audit AuditSink,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		audit:       audit,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token pair. Failed attempts are
// audited with the attempted email but never the password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.audit.Record(ctx, models.AuditEventLoginFailed, nil, nil, map[string]interface{}{
			"email":  req.Email,
			"reason": "unknown email",
		})
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.audit.Record(ctx, models.AuditEventLoginFailed, &user.ID, &user.RoleType, map[string]interface{}{
			"email":  req.Email,
			"reason": "wrong password",
		})
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.audit.Record(ctx, models.AuditEventLoginFailed, &user.ID, &user.RoleType, map[string]interface{}{
			"email":  req.Email,
			"reason": "account disabled",
		})
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to update last login timestamp")
	}

	s.audit.Record(ctx, models.AuditEventLogin, &user.ID, &user.RoleType, map[string]interface{}{
		"email": user.Email,
	})

	return s.generateTokenResponse(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// old refresh token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Expired() {
		_ = s.tokenRepo.Revoke(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}
	if stored.IsRevoked {
		return nil, apperrors.ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading token owner: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking old refresh token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes all refresh tokens for the user
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

// GetProfile returns the authenticated user's own account view with the
// role-specific identifiers attached.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.RoleType),
	}

	switch user.RoleType {
	case models.RoleStudent:
		student, err := s.studentRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading student profile: %w", err)
		}
		profile.StudentNo = &student.StudentNo
	case models.RoleFaculty:
		faculty, err := s.facultyRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading faculty profile: %w", err)
		}
		profile.EmployeeNo = &faculty.EmployeeNo
	}

	return profile, nil
}

// CleanupExpiredTokens deletes refresh tokens past their expiry. Intended
// to be called periodically from the server loop.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete expired refresh tokens")
		return
	}
	if deleted > 0 {
		s.logger.Info().Int64("count", deleted).Msg("Deleted expired refresh tokens")
	}
}

func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	expiry := s.jwtService.RefreshTokenExpiry()
	if err := s.tokenRepo.Create(ctx, user.ID, refreshToken, expiry); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
