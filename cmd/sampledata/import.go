package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/config"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/db"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
)

// seededCourseCodes maps the course_index column to seeded course codes.
var seededCourseCodes = []string{"CS101", "CS201", "MATH101", "PHYS201"}

func newImportCmd() *cobra.Command {
	var (
		dataDir    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import generated CSV fixtures into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			database, err := db.NewPostgresDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			repos := repositories.NewRepositories(database.Pool)

			created, err := importStudents(ctx, repos, filepath.Join(dataDir, "students.csv"))
			if err != nil {
				return err
			}
			logger.Info().Int("students", created).Msg("Student import finished")

			enrolled, waitlisted, err := importEnrollments(ctx, repos, filepath.Join(dataDir, "enrollments.csv"))
			if err != nil {
				return err
			}
			logger.Info().
				Int("enrolled", enrolled).
				Int("waitlisted", waitlisted).
				Msg("Enrollment import finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "sampledata", "directory holding the generated CSV files")
	cmd.Flags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "application config file")

	return cmd
}

func importStudents(ctx context.Context, repos *repositories.Repositories, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("error reading header: %w", err)
	}

	created := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("error reading student row: %w", err)
		}
		if len(record) != 5 {
			return created, fmt.Errorf("malformed student row: %v", record)
		}

		hashed, err := auth.HashPassword(record[4])
		if err != nil {
			return created, fmt.Errorf("error hashing password: %w", err)
		}

		user := &models.User{
			Email:     record[1],
			Password:  hashed,
			FirstName: record[2],
			LastName:  record[3],
			RoleType:  models.RoleStudent,
			IsActive:  true,
		}
		student := &models.Student{StudentNo: record[0]}

		err = repos.UserRepository.CreateWithStudentProfile(ctx, user, student)
		if err != nil {
			if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrStudentNoAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("error creating student %s: %w", record[0], err)
		}
		created++
	}

	return created, nil
}

func importEnrollments(ctx context.Context, repos *repositories.Repositories, path string) (enrolled, waitlisted int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	courseIDs := make([]int64, 0, len(seededCourseCodes))
	for _, code := range seededCourseCodes {
		course, err := repos.CourseRepository.GetByCode(ctx, code)
		if err != nil {
			return 0, 0, fmt.Errorf("seeded course %s not found, run the API once to seed defaults: %w", code, err)
		}
		courseIDs = append(courseIDs, course.ID)
	}

	studentIDs := make(map[string]int64)

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return 0, 0, fmt.Errorf("error reading header: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return enrolled, waitlisted, fmt.Errorf("error reading enrollment row: %w", err)
		}
		if len(record) != 2 {
			return enrolled, waitlisted, fmt.Errorf("malformed enrollment row: %v", record)
		}

		courseIdx, err := strconv.Atoi(record[1])
		if err != nil || courseIdx < 0 || courseIdx >= len(courseIDs) {
			return enrolled, waitlisted, fmt.Errorf("invalid course index %q", record[1])
		}

		studentID, ok := studentIDs[record[0]]
		if !ok {
			student, err := repos.StudentRepository.GetByStudentNo(ctx, record[0])
			if err != nil {
				return enrolled, waitlisted, fmt.Errorf("student %s not found: %w", record[0], err)
			}
			studentID = student.ID
			studentIDs[record[0]] = studentID
		}

		enrollment, err := repos.EnrollmentRepository.CreateWithSeatCheck(ctx, studentID, courseIDs[courseIdx])
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
				continue
			}
			return enrolled, waitlisted, fmt.Errorf("error enrolling %s: %w", record[0], err)
		}

		if enrollment.Status == models.StatusWaitlisted {
			waitlisted++
		} else {
			enrolled++
		}
	}

	return enrolled, waitlisted, nil
}
