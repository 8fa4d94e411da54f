package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
	"gradebook/pkg/metrics"
)

// EntityKind names an entity the guard can delete or (de)activate.
type EntityKind string

const (
	KindCourse     EntityKind = "course"
	KindCycle      EntityKind = "cycle"
	KindAssignment EntityKind = "assignment"
	KindStudent    EntityKind = "student"
	KindInstructor EntityKind = "instructor"
)

// ParseEntityKind validates a kind from the outside world.
func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(s); k {
	case KindCourse, KindCycle, KindAssignment, KindStudent, KindInstructor:
		return k, nil
	}
	return "", pkgerrors.Invalid("unknown entity kind %q", s)
}

// GuardService refuses deletes and deactivations that would orphan dependent rows.
//
// Dependents per kind:
//   - course: assignments, course enrollments, grades
//   - cycle: courses, cycle enrollments, grades of its courses
//   - assignment: grades entered by that instructor in that course
//   - student: course enrollments, cycle enrollments, grades
//   - instructor: assignments, grades
type GuardService interface {
	Dependents(ctx context.Context, kind EntityKind, id string) (*dto.DependentsResponse, error)
	// DeleteEntity fails with HasDependents when any dependent exists and leaves every row unchanged.
	DeleteEntity(ctx context.Context, kind EntityKind, id string, actor Actor) error
	// ToggleActive flips the active flag. Deactivating a course or cycle is guarded like a delete;
	// reactivation and user toggles are unconditional.
	ToggleActive(ctx context.Context, kind EntityKind, id string, actor Actor) (*dto.ToggleResponse, error)
}

type guardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGuardService creates a GuardService
func NewGuardService(repo *repository.Repository, logger *zap.Logger) GuardService {
	return &guardService{repo: repo, logger: logger}
}

// ────────────────────── Dependents ──────────────────────

func (s *guardService) Dependents(ctx context.Context, kind EntityKind, id string) (*dto.DependentsResponse, error) {
	if err := s.ensureExists(ctx, s.repo, kind, id); err != nil {
		return nil, err
	}
	count, err := countDependents(ctx, s.repo, kind, id)
	if err != nil {
		s.logger.Error("count dependents failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("count dependents: %w", err)
	}
	return &dto.DependentsResponse{Kind: string(kind), ID: id, Count: count}, nil
}

func countDependents(ctx context.Context, repo *repository.Repository, kind EntityKind, id string) (int64, error) {
	var counters []func() (int64, error)
	switch kind {
	case KindCourse:
		counters = []func() (int64, error){
			func() (int64, error) { return repo.Assignment.CountByCourse(ctx, id) },
			func() (int64, error) { return repo.CourseEnrollment.CountByCourse(ctx, id) },
			func() (int64, error) { return repo.Grade.CountByCourse(ctx, id) },
		}
	case KindCycle:
		counters = []func() (int64, error){
			func() (int64, error) { return repo.Course.CountByCycle(ctx, id) },
			func() (int64, error) { return repo.CycleEnrollment.CountByCycle(ctx, id) },
			func() (int64, error) { return repo.Grade.CountByCycle(ctx, id) },
		}
	case KindAssignment:
		a, err := repo.Assignment.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		counters = []func() (int64, error){
			func() (int64, error) { return repo.Grade.CountByInstructorCourse(ctx, a.InstructorID, a.CourseID) },
		}
	case KindStudent:
		counters = []func() (int64, error){
			func() (int64, error) { return repo.CourseEnrollment.CountByStudent(ctx, id) },
			func() (int64, error) { return repo.CycleEnrollment.CountByStudent(ctx, id) },
			func() (int64, error) { return repo.Grade.CountByStudent(ctx, id) },
		}
	case KindInstructor:
		counters = []func() (int64, error){
			func() (int64, error) { return repo.Assignment.CountByInstructor(ctx, id) },
			func() (int64, error) { return repo.Grade.CountByInstructor(ctx, id) },
		}
	default:
		return 0, pkgerrors.Invalid("unknown entity kind %q", kind)
	}

	var total int64
	for _, count := range counters {
		n, err := count()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ────────────────────── DeleteEntity ──────────────────────

func (s *guardService) DeleteEntity(ctx context.Context, kind EntityKind, id string, actor Actor) error {
	if !actor.IsAdmin() {
		return pkgerrors.Forbidden("only administrators can delete records")
	}

	err := s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		if err := s.ensureExists(ctx, txRepo, kind, id); err != nil {
			return err
		}
		count, err := countDependents(ctx, txRepo, kind, id)
		if err != nil {
			return fmt.Errorf("count dependents: %w", err)
		}
		if count > 0 {
			return pkgerrors.HasDependents(count, "%s has %d dependent record(s) and cannot be deleted", kind, count)
		}
		return deleteEntity(ctx, txRepo, kind, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			err = pkgerrors.HasDependents(1, "%s is still referenced and cannot be deleted", kind)
		}
		if pkgerrors.KindOf(err) == pkgerrors.KindHasDependents {
			metrics.GuardRejections.WithLabelValues(string(kind)).Inc()
			s.logger.Warn("delete refused", zap.String("kind", string(kind)), zap.String("id", id), zap.String("reason", err.Error()))
			return err
		}
		if pkgerrors.KindOf(err) != "" {
			return err
		}
		s.logger.Error("delete failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return pkgerrors.TransactionFailure(err, "%s could not be deleted, nothing was changed", kind)
	}

	s.logger.Info("entity deleted", zap.String("kind", string(kind)), zap.String("id", id), zap.String("by", actor.UserID))
	return nil
}

func deleteEntity(ctx context.Context, repo *repository.Repository, kind EntityKind, id string) error {
	switch kind {
	case KindCourse:
		return repo.Course.Delete(ctx, id)
	case KindCycle:
		return repo.Cycle.Delete(ctx, id)
	case KindAssignment:
		return repo.Assignment.Delete(ctx, id)
	case KindStudent, KindInstructor:
		return repo.User.Delete(ctx, id)
	}
	return pkgerrors.Invalid("unknown entity kind %q", kind)
}

// ────────────────────── ToggleActive ──────────────────────

func (s *guardService) ToggleActive(ctx context.Context, kind EntityKind, id string, actor Actor) (*dto.ToggleResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can activate or deactivate records")
	}

	var active bool
	var err error
	switch kind {
	case KindCourse:
		active, err = s.toggleCourse(ctx, id, actor)
	case KindCycle:
		active, err = s.toggleCycle(ctx, id, actor)
	case KindStudent, KindInstructor:
		active, err = s.toggleUser(ctx, kind, id, actor)
	case KindAssignment:
		return nil, pkgerrors.Invalid("assignments have no active flag")
	default:
		return nil, pkgerrors.Invalid("unknown entity kind %q", kind)
	}
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindHasDependents {
			metrics.GuardRejections.WithLabelValues(string(kind)).Inc()
		}
		if pkgerrors.KindOf(err) != "" {
			return nil, err
		}
		s.logger.Error("toggle active failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("toggle %s: %w", kind, err)
	}

	s.logger.Info("active flag changed", zap.String("kind", string(kind)), zap.String("id", id), zap.Bool("is_active", active))
	return &dto.ToggleResponse{Kind: string(kind), ID: id, IsActive: active}, nil
}

func (s *guardService) toggleCourse(ctx context.Context, id string, actor Actor) (bool, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, pkgerrors.NotFound("course %s does not exist", id)
		}
		return false, err
	}
	if course.IsActive {
		if err := s.refuseIfDependents(ctx, KindCourse, id, "deactivated"); err != nil {
			return false, err
		}
	}
	course.IsActive = !course.IsActive
	course.Touch(actor.UserID)
	return course.IsActive, s.repo.Course.Update(ctx, course)
}

func (s *guardService) toggleCycle(ctx context.Context, id string, actor Actor) (bool, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, pkgerrors.NotFound("cycle %s does not exist", id)
		}
		return false, err
	}
	if cycle.IsActive {
		if err := s.refuseIfDependents(ctx, KindCycle, id, "deactivated"); err != nil {
			return false, err
		}
	}
	cycle.IsActive = !cycle.IsActive
	cycle.Touch(actor.UserID)
	return cycle.IsActive, s.repo.Cycle.Update(ctx, cycle)
}

func (s *guardService) toggleUser(ctx context.Context, kind EntityKind, id string, actor Actor) (bool, error) {
	user, err := s.loadUser(ctx, s.repo, kind, id)
	if err != nil {
		return false, err
	}
	user.IsActive = !user.IsActive
	user.Touch(actor.UserID)
	return user.IsActive, s.repo.User.Update(ctx, user)
}

func (s *guardService) refuseIfDependents(ctx context.Context, kind EntityKind, id, verb string) error {
	count, err := countDependents(ctx, s.repo, kind, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return pkgerrors.HasDependents(count, "%s has %d dependent record(s) and cannot be %s", kind, count, verb)
	}
	return nil
}

// ── existence ──

func (s *guardService) ensureExists(ctx context.Context, repo *repository.Repository, kind EntityKind, id string) error {
	var err error
	switch kind {
	case KindCourse:
		_, err = repo.Course.GetByID(ctx, id)
	case KindCycle:
		_, err = repo.Cycle.GetByID(ctx, id)
	case KindAssignment:
		_, err = repo.Assignment.GetByID(ctx, id)
	case KindStudent, KindInstructor:
		_, err = s.loadUser(ctx, repo, kind, id)
		return err
	default:
		return pkgerrors.Invalid("unknown entity kind %q", kind)
	}
	if err != nil {
		if isNotFound(err) {
			return pkgerrors.NotFound("%s %s does not exist", kind, id)
		}
		return err
	}
	return nil
}

// loadUser loads a user and checks its role matches kind.
func (s *guardService) loadUser(ctx context.Context, repo *repository.Repository, kind EntityKind, id string) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("%s %s does not exist", kind, id)
		}
		return nil, err
	}
	if user.Role != string(kind) {
		return nil, pkgerrors.NotFound("%s %s does not exist", kind, id)
	}
	return user, nil
}
