package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository         *UserRepository
	StudentRepository      *StudentRepository
	FacultyRepository      *FacultyRepository
	DepartmentRepository   *DepartmentRepository
	CourseRepository       *CourseRepository
	EnrollmentRepository   *EnrollmentRepository
	AssignmentRepository   *AssignmentRepository
	AnnouncementRepository *AnnouncementRepository
	AuditRepository        *AuditRepository
	TokenRepository        *TokenRepository
	AnalyticsRepository    *AnalyticsRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		StudentRepository:      NewStudentRepository(db),
		FacultyRepository:      NewFacultyRepository(db),
		DepartmentRepository:   NewDepartmentRepository(db),
		CourseRepository:       NewCourseRepository(db),
		EnrollmentRepository:   NewEnrollmentRepository(db),
		AssignmentRepository:   NewAssignmentRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		AuditRepository:        NewAuditRepository(db),
		TokenRepository:        NewTokenRepository(db),
		AnalyticsRepository:    NewAnalyticsRepository(db),
	}
}
