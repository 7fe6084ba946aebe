package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var dept models.Department
	err := row.Scan(&dept.ID, &dept.Name, &dept.Code, &dept.Description, &dept.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error scanning department: %w", err)
	}
	return &dept, nil
}

// Create inserts a new department
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) (*models.Department, error) {
	query := `
		INSERT INTO departments (name, code, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, dept.Name, dept.Code, dept.Description).
		Scan(&dept.ID, &dept.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrDepartmentAlreadyExists
		}
		return nil, fmt.Errorf("error creating department: %w", err)
	}

	return dept, nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `SELECT id, name, code, description, created_at FROM departments WHERE id = $1`
	return scanDepartment(r.db.QueryRow(ctx, query, id))
}

// GetByCode retrieves a department by its unique code
func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	query := `SELECT id, name, code, description, created_at FROM departments WHERE code = $1`
	return scanDepartment(r.db.QueryRow(ctx, query, code))
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	query := `SELECT id, name, code, description, created_at FROM departments ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// Update modifies an existing department
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	query := `UPDATE departments SET name = $1, code = $2, description = $3 WHERE id = $4`

	tag, err := r.db.Exec(ctx, query, dept.Name, dept.Code, dept.Description, dept.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error updating department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// Delete removes a department. Departments that still have courses or
// faculty attached cannot be deleted.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM departments WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentHasRelations
		}
		return fmt.Errorf("error deleting department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}
