package routes

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/auth"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/controllers"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	departmentController *controllers.DepartmentController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	announcementController *controllers.AnnouncementController,
	analyticsController *controllers.AnalyticsController,
	auditController *controllers.AuditController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.GetProfile)

		// Catalog and departments are readable by every authenticated role
		authenticated.GET("/departments", departmentController.ListDepartments)
		authenticated.GET("/departments/:id", departmentController.GetDepartment)
		authenticated.GET("/courses", courseController.ListCourses)
		authenticated.GET("/courses/:id", courseController.GetCourse)
		authenticated.GET("/courses/catalog", courseController.ListCatalog)

		// --- Admin: account management ---
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RequireCapability(appauth.CapManageUsers))
		{
			users.POST("", userController.CreateUser)
			users.GET("", userController.ListUsers)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeactivateUser)
		}

		// --- Admin: department management ---
		departmentsAdmin := authenticated.Group("/departments")
		departmentsAdmin.Use(authMiddleware.RequireCapability(appauth.CapManageDepartments))
		{
			departmentsAdmin.POST("", departmentController.CreateDepartment)
			departmentsAdmin.PUT("/:id", departmentController.UpdateDepartment)
			departmentsAdmin.DELETE("/:id", departmentController.DeleteDepartment)
		}

		// --- Admin: course management ---
		coursesAdmin := authenticated.Group("/courses")
		coursesAdmin.Use(authMiddleware.RequireCapability(appauth.CapManageCourses))
		{
			coursesAdmin.POST("", courseController.CreateCourse)
			coursesAdmin.PUT("/:id", courseController.UpdateCourse)
			coursesAdmin.DELETE("/:id", courseController.DeleteCourse)
		}

		seatLimits := authenticated.Group("/courses")
		seatLimits.Use(
			authMiddleware.RequireCapability(appauth.CapManageSeatLimits),
			authMiddleware.ResolveScope(),
		)
		{
			seatLimits.PUT("/:id/seat-limit", courseController.SetSeatLimit)
		}

		// --- Admin: faculty assignments ---
		assignments := authenticated.Group("/assignments")
		assignments.Use(authMiddleware.RequireCapability(appauth.CapManageAssignments))
		{
			assignments.POST("", courseController.AssignFaculty)
			assignments.DELETE("/:id", courseController.UnassignFaculty)
		}

		// --- Admin: enrollment override and audit ---
		admin := authenticated.Group("/admin")
		{
			override := admin.Group("/enrollments")
			override.Use(
				authMiddleware.RequireCapability(appauth.CapOverrideEnrollment),
				authMiddleware.ResolveScope(),
			)
			{
				override.POST("/:id/override", enrollmentController.Override)
			}

			allEnrollments := admin.Group("/enrollments")
			allEnrollments.Use(
				authMiddleware.RequireCapability(appauth.CapViewAllEnrollments),
				authMiddleware.ResolveScope(),
			)
			{
				allEnrollments.GET("", enrollmentController.ListAllEnrollments)
			}

			auditLogs := admin.Group("/audit-logs")
			auditLogs.Use(authMiddleware.RequireCapability(appauth.CapViewAuditLogs))
			{
				auditLogs.GET("", auditController.ListAuditLogs)
			}
		}

		// --- Rosters: admin and assigned faculty ---
		rosters := authenticated.Group("/courses")
		rosters.Use(
			authMiddleware.RequireCapability(appauth.CapViewAssignedEnrollments),
			authMiddleware.ResolveScope(),
		)
		{
			rosters.GET("/:id/roster", enrollmentController.GetRoster)
		}

		// --- Student: own enrollments ---
		student := authenticated.Group("/student")
		student.Use(authMiddleware.ResolveScope())
		{
			student.GET("/courses", courseController.ListAvailableCourses)

			enroll := student.Group("/enrollments")
			enroll.Use(authMiddleware.RequireCapability(appauth.CapEnrollInCourse))
			{
				enroll.POST("", enrollmentController.Enroll)
			}

			own := student.Group("/enrollments")
			own.Use(authMiddleware.RequireCapability(appauth.CapViewOwnEnrollments))
			{
				own.GET("", enrollmentController.ListOwnEnrollments)
			}

			withdraw := student.Group("/enrollments")
			withdraw.Use(authMiddleware.RequireCapability(appauth.CapWithdrawFromCourse))
			{
				withdraw.POST("/:id/withdraw", enrollmentController.Withdraw)
			}

			announcements := student.Group("/announcements")
			announcements.Use(authMiddleware.RequireCapability(appauth.CapViewAnnouncements))
			{
				announcements.GET("", announcementController.ListCourseAnnouncements)
			}
		}

		// --- Faculty: assigned courses and grading ---
		faculty := authenticated.Group("/faculty")
		faculty.Use(authMiddleware.ResolveScope())
		{
			faculty.GET("/courses", courseController.ListMyCourses)

			grading := faculty.Group("/enrollments")
			grading.Use(authMiddleware.RequireCapability(appauth.CapUpdateGrade))
			{
				grading.PUT("/:id/grade", enrollmentController.UpdateGrade)
			}

			export := faculty.Group("/students")
			export.Use(authMiddleware.RequireCapability(appauth.CapViewAssignedEnrollments))
			{
				export.GET("/export", enrollmentController.ExportRoster)
			}

			announcements := faculty.Group("/announcements")
			announcements.Use(authMiddleware.RequireCapability(appauth.CapPostAnnouncements))
			{
				announcements.GET("", announcementController.ListMyAnnouncements)
				announcements.POST("", announcementController.PostAnnouncement)
			}
		}

		// --- Analytics ---
		analytics := authenticated.Group("/analytics")
		analytics.Use(authMiddleware.ResolveScope())
		{
			courseStats := analytics.Group("")
			courseStats.Use(authMiddleware.RequireCapability(appauth.CapViewCourseAnalytics))
			{
				courseStats.GET("/courses", analyticsController.CourseStats)
				courseStats.GET("/courses/:id", analyticsController.CourseStatsFor)
				courseStats.GET("/demand", analyticsController.HighLowDemand)
			}

			departmentStats := analytics.Group("")
			departmentStats.Use(authMiddleware.RequireCapability(appauth.CapViewDepartmentAnalytics))
			{
				departmentStats.GET("/departments", analyticsController.DepartmentStats)
			}

			trends := analytics.Group("")
			trends.Use(authMiddleware.RequireCapability(appauth.CapViewEnrollmentTrends))
			{
				trends.GET("/trends", analyticsController.Trends)
			}
		}
	}
}
