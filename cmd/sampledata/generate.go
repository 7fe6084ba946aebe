package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
)

var firstNames = []string{
	"Aisha", "Ben", "Chen", "Diana", "Emre", "Fatima", "Gabriel", "Hana",
	"Ivan", "Julia", "Kofi", "Lena", "Mateo", "Nadia", "Omar", "Priya",
	"Quinn", "Rosa", "Sami", "Tara",
}

var lastNames = []string{
	"Adams", "Baker", "Costa", "Demir", "Evans", "Fischer", "Garcia",
	"Haddad", "Ito", "Jansen", "Kim", "Lopez", "Mehta", "Nguyen", "Okafor",
	"Patel", "Quispe", "Rossi", "Silva", "Tanaka",
}

func newGenerateCmd() *cobra.Command {
	var (
		outDir      string
		students    int
		enrollments int
		courses     int
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write students.csv and enrollments.csv fixture files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if students < 1 || enrollments < 0 || courses < 1 {
				return fmt.Errorf("counts must be positive (students=%d, enrollments=%d, courses=%d)", students, enrollments, courses)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("error creating output directory: %w", err)
			}

			rng := rand.New(rand.NewSource(seed))

			if err := writeStudentsCSV(filepath.Join(outDir, "students.csv"), students, rng); err != nil {
				return err
			}
			if err := writeEnrollmentsCSV(filepath.Join(outDir, "enrollments.csv"), students, courses, enrollments, rng); err != nil {
				return err
			}

			logger.Info().
				Int("students", students).
				Int("enrollments", enrollments).
				Str("dir", outDir).
				Msg("Sample data generated")
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "sampledata", "output directory for CSV files")
	cmd.Flags().IntVar(&students, "students", 200, "number of student accounts to generate")
	cmd.Flags().IntVar(&enrollments, "enrollments", 600, "number of enrollment attempts to generate")
	cmd.Flags().IntVar(&courses, "courses", 4, "number of seeded courses to spread enrollments over")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for reproducible output")

	return cmd
}

// writeStudentsCSV emits one row per student: student_no, email, first
// name, last name and a shared plaintext password for test logins.
func writeStudentsCSV(path string, count int, rng *rand.Rand) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"student_no", "email", "first_name", "last_name", "password"}); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i := 1; i <= count; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		row := []string{
			fmt.Sprintf("S%06d", i),
			fmt.Sprintf("student%d@enrollment.app", i),
			first,
			last,
			"Student123!",
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing student row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// writeEnrollmentsCSV emits enrollment attempts as (student_no, course
// index) pairs. The import step resolves course indices against the
// seeded course codes in order.
func writeEnrollmentsCSV(path string, students, courses, count int, rng *rand.Rand) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"student_no", "course_index"}); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	// There are only students*courses unique pairs to draw from
	if max := students * courses; count > max {
		count = max
	}

	seen := make(map[string]struct{}, count)
	written := 0
	for written < count {
		studentNo := fmt.Sprintf("S%06d", rng.Intn(students)+1)
		courseIdx := rng.Intn(courses)

		key := studentNo + ":" + strconv.Itoa(courseIdx)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := w.Write([]string{studentNo, strconv.Itoa(courseIdx)}); err != nil {
			return fmt.Errorf("error writing enrollment row: %w", err)
		}
		written++
	}

	w.Flush()
	return w.Error()
}
