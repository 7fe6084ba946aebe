package main

import (
	"os"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/logger"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/server"
)

// @title Course Enrollment Analytics API
// @version 1.0
// @description Role-based course enrollment with seat limits, waitlists and enrollment analytics.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}

	os.Exit(0)
}
