// Command sampledata generates CSV fixtures for load testing the
// enrollment flow and bulk-imports them into a running database.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "sampledata",
		Short:         "Generate and import sample enrollment data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newImportCmd())

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
