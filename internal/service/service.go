package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gradebook/config"
	"gradebook/internal/model"
	"gradebook/internal/repository"
)

// Actor is the verified caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller is an administrator.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// IsInstructor reports whether the caller is an instructor.
func (a Actor) IsInstructor() bool { return a.Role == model.RoleInstructor }

// Locker serialises work on one key. The returned func releases the key.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Options tunes service behaviour.
type Options struct {
	// LockWait bounds how long a submission waits for its (course, student) lock.
	LockWait time.Duration
}

// OptionsFromConfig maps the grading config section.
func OptionsFromConfig(cfg *config.GradingConfig) Options {
	return Options{LockWait: cfg.LockWait}
}

// Service aggregates every service.
type Service struct {
	Grade      GradeService
	Enrollment EnrollmentService
	Catalog    CatalogService
	Guard      GuardService
	Report     ReportService
	Export     ExportService
}

// NewService wires the services on one repository aggregate.
func NewService(
	repo *repository.Repository,
	locker Locker,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		Grade:      NewGradeService(repo, locker, opts, logger),
		Enrollment: NewEnrollmentService(repo, logger),
		Catalog:    NewCatalogService(repo, logger),
		Guard:      NewGuardService(repo, logger),
		Report:     NewReportService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
