package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/db"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/dberrors"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, password, first_name, last_name, role_type, is_active, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.RoleType,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// Create creates a new user account
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, first_name, last_name, role_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// CreateWithStudentProfile creates a user account and its student profile in
// one transaction.
func (r *UserRepository) CreateWithStudentProfile(ctx context.Context, user *models.User, student *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, password, first_name, last_name, role_type, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.IsActive,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		student.UserID = user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO students (user_id, student_no)
			VALUES ($1, $2)
			RETURNING id, enrolled_at`,
			student.UserID, student.StudentNo,
		).Scan(&student.ID, &student.EnrolledAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "students_student_no_key") {
				return apperrors.ErrStudentNoAlreadyExists
			}
			return fmt.Errorf("error creating student profile: %w", err)
		}

		return nil
	})
}

// CreateWithFacultyProfile creates a user account and its faculty profile in
// one transaction.
func (r *UserRepository) CreateWithFacultyProfile(ctx context.Context, user *models.User, faculty *models.Faculty) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, password, first_name, last_name, role_type, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.IsActive,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		faculty.UserID = user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO faculty (user_id, department_id, employee_no)
			VALUES ($1, $2, $3)
			RETURNING id, hired_at`,
			faculty.UserID, faculty.DepartmentID, faculty.EmployeeNo,
		).Scan(&faculty.ID, &faculty.HiredAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "faculty_employee_no_key") {
				return apperrors.ErrEmployeeNoAlreadyExists
			}
			return fmt.Errorf("error creating faculty profile: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetAll retrieves all users, optionally filtered by role
func (r *UserRepository) GetAll(ctx context.Context, role *models.RoleType) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if role != nil {
		query += ` WHERE role_type = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Update updates a user's mutable account fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		user.Email, user.FirstName, user.LastName, user.IsActive, time.Now(), user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin records the user's last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Deactivate soft-disables a user account. Accounts referenced by
// enrollments are never hard-deleted.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error deactivating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
