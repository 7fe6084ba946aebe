package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models/dto"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
)

// UserService handles admin-side account management
type UserService struct {
	userRepo       *repositories.UserRepository
	departmentRepo *repositories.DepartmentRepository
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	departmentRepo *repositories.DepartmentRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// CreateUser creates an account and, for student and faculty roles, the
// matching profile row in the same transaction.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if !req.RoleType.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.RoleType)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  req.RoleType,
		IsActive:  true,
	}

	switch req.RoleType {
	case models.RoleStudent:
		if req.StudentNo == "" {
			return nil, fmt.Errorf("%w: studentNo is required for student accounts", apperrors.ErrValidationFailed)
		}
		student := &models.Student{StudentNo: req.StudentNo}
		if err := s.userRepo.CreateWithStudentProfile(ctx, user, student); err != nil {
			return nil, err
		}
		user.Student = student
	case models.RoleFaculty:
		if req.EmployeeNo == "" {
			return nil, fmt.Errorf("%w: employeeNo is required for faculty accounts", apperrors.ErrValidationFailed)
		}
		if req.DepartmentID != nil {
			if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
				return nil, err
			}
		}
		faculty := &models.Faculty{DepartmentID: req.DepartmentID, EmployeeNo: req.EmployeeNo}
		if err := s.userRepo.CreateWithFacultyProfile(ctx, user, faculty); err != nil {
			return nil, err
		}
		user.Faculty = faculty
	default:
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("userId", user.ID).
		Str("role", string(user.RoleType)).
		Msg("User account created")

	user.Password = ""
	return user, nil
}

// GetUser retrieves a single account
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ListUsers retrieves accounts, optionally filtered by role
func (s *UserService) ListUsers(ctx context.Context, role *models.RoleType) ([]*models.User, error) {
	if role != nil && !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, *role)
	}
	users, err := s.userRepo.GetAll(ctx, role)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// UpdateUser modifies an account's basic fields
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// DeactivateUser disables an account. Accounts are never hard-deleted so
// enrollment history and audit references stay intact.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	return s.userRepo.Deactivate(ctx, id)
}
