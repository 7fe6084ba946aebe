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
)

// DepartmentService handles department management
type DepartmentService struct {
	departmentRepo *repositories.DepartmentRepository
	logger         zerolog.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo *repositories.DepartmentRepository, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

func (s *DepartmentService) validateDepartment(name, code string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: department name cannot be empty", apperrors.ErrValidationFailed)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: department code cannot be empty", apperrors.ErrValidationFailed)
	}
	if code != strings.ToUpper(code) {
		return fmt.Errorf("%w: department code must be uppercase", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validateDepartment(req.Name, req.Code); err != nil {
		return nil, err
	}

	dept := &models.Department{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		Description: req.Description,
	}

	created, err := s.departmentRepo.Create(ctx, dept)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentId", created.ID).Str("code", created.Code).Msg("Department created")
	return created, nil
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// ListDepartments retrieves all departments
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// UpdateDepartment modifies a department
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	if err := s.validateDepartment(req.Name, req.Code); err != nil {
		return nil, err
	}

	dept, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dept.Name = strings.TrimSpace(req.Name)
	dept.Code = strings.TrimSpace(req.Code)
	dept.Description = req.Description

	if err := s.departmentRepo.Update(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

// DeleteDepartment removes a department without courses or faculty
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.departmentRepo.Delete(ctx, id)
}
