package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
)

// CreateDefaultData seeds the default admin account and a small set of
// departments and courses. Every step is idempotent: rows that already
// exist are skipped, and partial failures are collected rather than
// aborting the whole run.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := repositories.NewRepositories(dbPool)

	var errs []error

	if err := createDefaultAdmin(ctx, repos.UserRepository, lgr); err != nil {
		errs = append(errs, err)
	}

	deptIDs, err := createDefaultDepartments(ctx, repos.DepartmentRepository, lgr)
	if err != nil {
		errs = append(errs, err)
	}

	if err := createDefaultCourses(ctx, repos.CourseRepository, deptIDs, lgr); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func createDefaultAdmin(ctx context.Context, userRepo *repositories.UserRepository, lgr zerolog.Logger) error {
	const adminEmail = "admin@enrollment.app"

	if _, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		return nil
	}

	hashed, err := auth.HashPassword("Admin123!")
	if err != nil {
		return fmt.Errorf("error hashing default admin password: %w", err)
	}

	admin := &models.User{
		Email:     adminEmail,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("error creating default admin: %w", err)
	}

	lgr.Info().Str("email", adminEmail).Msg("Default admin account created")
	return nil
}

func createDefaultDepartments(ctx context.Context, deptRepo *repositories.DepartmentRepository, lgr zerolog.Logger) (map[string]int64, error) {
	defaults := []models.Department{
		{Name: "Computer Science", Code: "CS"},
		{Name: "Mathematics", Code: "MATH"},
		{Name: "Physics", Code: "PHYS"},
	}

	ids := make(map[string]int64, len(defaults))
	var errs []error

	for i := range defaults {
		dept := defaults[i]
		if existing, err := deptRepo.GetByCode(ctx, dept.Code); err == nil {
			ids[dept.Code] = existing.ID
			continue
		}

		if _, err := deptRepo.Create(ctx, &dept); err != nil {
			if errors.Is(err, apperrors.ErrDepartmentAlreadyExists) {
				continue
			}
			errs = append(errs, fmt.Errorf("error seeding department %s: %w", dept.Code, err))
			continue
		}

		ids[dept.Code] = dept.ID
		lgr.Info().Str("code", dept.Code).Msg("Default department created")
	}

	return ids, errors.Join(errs...)
}

func createDefaultCourses(ctx context.Context, courseRepo *repositories.CourseRepository, deptIDs map[string]int64, lgr zerolog.Logger) error {
	limit30 := 30
	limit60 := 60
	semester := "Fall 2026"

	defaults := []struct {
		deptCode string
		course   models.Course
	}{
		{"CS", models.Course{Name: "Introduction to Programming", Code: "CS101", Credits: 4, SeatLimit: &limit60, Semester: &semester}},
		{"CS", models.Course{Name: "Data Structures", Code: "CS201", Credits: 4, SeatLimit: &limit30, Semester: &semester}},
		{"MATH", models.Course{Name: "Calculus I", Code: "MATH101", Credits: 3, Semester: &semester}},
		{"PHYS", models.Course{Name: "Classical Mechanics", Code: "PHYS201", Credits: 3, SeatLimit: &limit30, Semester: &semester}},
	}

	var errs []error

	for _, item := range defaults {
		deptID, ok := deptIDs[item.deptCode]
		if !ok {
			continue
		}

		if _, err := courseRepo.GetByCode(ctx, item.course.Code); err == nil {
			continue
		}

		course := item.course
		course.DepartmentID = deptID

		if _, err := courseRepo.Create(ctx, &course); err != nil {
			if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
				continue
			}
			errs = append(errs, fmt.Errorf("error seeding course %s: %w", course.Code, err))
			continue
		}

		lgr.Info().Str("code", course.Code).Msg("Default course created")
	}

	return errors.Join(errs...)
}
