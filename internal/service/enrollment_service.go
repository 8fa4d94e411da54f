package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
	"gradebook/pkg/metrics"
)

// EnrollmentService cycle enrollment state machine and course enrollment cascade.
//
// Cycle enrollment states: active → suspended, active → completed. Nothing returns to
// active; a new row is created instead. At most one active row exists per student.
type EnrollmentService interface {
	CreateCycleEnrollment(ctx context.Context, req *dto.CycleEnrollmentRequest, actor Actor) (*dto.CycleEnrollmentResponse, error)
	// Reassign always supersedes the current active enrollment. Courses cascade only with Force.
	Reassign(ctx context.Context, req *dto.CycleEnrollmentRequest, actor Actor) (*dto.CycleEnrollmentResponse, error)
	SuspendCycleEnrollment(ctx context.Context, studentID string, actor Actor) (*dto.CycleEnrollmentResponse, error)
	CompleteCycleEnrollment(ctx context.Context, studentID string, actor Actor) (*dto.CycleEnrollmentResponse, error)
	ListCycleEnrollments(ctx context.Context, req *dto.CycleEnrollmentListRequest) ([]dto.CycleEnrollmentResponse, error)
	// SyncCourseEnrollments creates missing course enrollments for every active cycle enrollment.
	SyncCourseEnrollments(ctx context.Context, actor Actor) (*dto.SyncResponse, error)
	EnrollInCourse(ctx context.Context, req *dto.CourseEnrollmentRequest, actor Actor) (*dto.CourseEnrollmentResponse, error)
	// RemoveCourseEnrollment deletes the enrollment with its draft grade and category rows.
	// A published grade blocks removal.
	RemoveCourseEnrollment(ctx context.Context, courseID, studentID string, actor Actor) error
	ListCourseEnrollments(ctx context.Context, courseID string) ([]dto.CourseEnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService creates an EnrollmentService
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

// ────────────────────── CreateCycleEnrollment ──────────────────────

func (s *enrollmentService) CreateCycleEnrollment(ctx context.Context, req *dto.CycleEnrollmentRequest, actor Actor) (*dto.CycleEnrollmentResponse, error) {
	return s.enroll(ctx, req, actor, false)
}

func (s *enrollmentService) Reassign(ctx context.Context, req *dto.CycleEnrollmentRequest, actor Actor) (*dto.CycleEnrollmentResponse, error) {
	return s.enroll(ctx, req, actor, true)
}

// enroll creates an active enrollment for (student, cycle).
// reassign=false: a different active row is a conflict unless Force; courses always cascade.
// reassign=true: a different active row is always superseded; courses cascade only with Force.
func (s *enrollmentService) enroll(ctx context.Context, req *dto.CycleEnrollmentRequest, actor Actor, reassign bool) (*dto.CycleEnrollmentResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can manage enrollments")
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.loadStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	cycle, err := s.repo.Cycle.GetByID(ctx, req.CycleID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("cycle %s does not exist", req.CycleID)
		}
		s.logger.Error("load cycle failed", zap.String("cycle_id", req.CycleID), zap.Error(err))
		return nil, fmt.Errorf("load cycle: %w", err)
	}

	supersede := reassign || req.Force
	cascade := !reassign || req.Force

	var created *model.CycleEnrollment
	var superseded *string
	coursesEnrolled := 0

	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		current, err := txRepo.CycleEnrollment.GetActiveByStudent(ctx, student.UserID)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("load active enrollment: %w", err)
		}

		if current != nil {
			if current.CycleID == cycle.CycleID {
				return pkgerrors.New(pkgerrors.KindDuplicateEnrollment,
					"%s is already actively enrolled in %s", student.FullName(), cycle.Name)
			}
			if !supersede {
				return pkgerrors.New(pkgerrors.KindConflictingActiveEnrollment,
					"%s already has an active enrollment in another cycle", student.FullName())
			}
			current.State = model.EnrollmentSuspended
			current.Touch(actor.UserID)
			if err := txRepo.CycleEnrollment.Update(ctx, current); err != nil {
				return fmt.Errorf("suspend prior enrollment: %w", err)
			}
			id := current.EnrollmentID
			superseded = &id
		}

		created = &model.CycleEnrollment{
			StudentID:  student.UserID,
			CycleID:    cycle.CycleID,
			State:      model.EnrollmentActive,
			EnrolledAt: time.Now().UTC(),
		}
		created.Stamp(actor.UserID)
		if err := txRepo.CycleEnrollment.Create(ctx, created); err != nil {
			if isDuplicate(err) {
				return pkgerrors.New(pkgerrors.KindConflictingActiveEnrollment,
					"%s already has an active enrollment", student.FullName())
			}
			return fmt.Errorf("create enrollment: %w", err)
		}

		if cascade {
			n, err := cascadeCourses(ctx, txRepo, cycle.CycleID, student.UserID, actor.UserID)
			if err != nil {
				return err
			}
			coursesEnrolled = n
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) != "" {
			s.logger.Warn("cycle enrollment rejected",
				zap.String("student_id", req.StudentID),
				zap.String("cycle_id", req.CycleID),
				zap.String("reason", err.Error()),
			)
			return nil, err
		}
		s.logger.Error("cycle enrollment failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, pkgerrors.TransactionFailure(err, "enrollment could not be saved, nothing was changed")
	}

	if superseded != nil {
		metrics.EnrollmentTransitions.WithLabelValues(model.EnrollmentSuspended).Inc()
	}
	metrics.EnrollmentTransitions.WithLabelValues(model.EnrollmentActive).Inc()
	s.logger.Info("cycle enrollment created",
		zap.String("enrollment_id", created.EnrollmentID),
		zap.String("student_id", student.UserID),
		zap.String("cycle_id", cycle.CycleID),
		zap.Int("courses_enrolled", coursesEnrolled),
	)

	created.Student = student
	created.Cycle = cycle
	resp := toCycleEnrollmentResponse(created)
	resp.CoursesEnrolled = coursesEnrolled
	resp.Superseded = superseded
	return resp, nil
}

// cascadeCourses enrolls the student in every course linked to the cycle. Existing
// enrollments are left alone, so repeating it creates nothing new.
func cascadeCourses(ctx context.Context, repo *repository.Repository, cycleID, studentID, actorID string) (int, error) {
	courses, err := repo.Course.List(ctx, repository.CourseFilter{CycleID: cycleID})
	if err != nil {
		return 0, fmt.Errorf("list cycle courses: %w", err)
	}
	created := 0
	for i := range courses {
		e := &model.CourseEnrollment{
			CourseID:   courses[i].CourseID,
			StudentID:  studentID,
			EnrolledAt: time.Now().UTC(),
		}
		e.Stamp(actorID)
		ok, err := repo.CourseEnrollment.CreateIfMissing(ctx, e)
		if err != nil {
			return created, fmt.Errorf("enroll in course %s: %w", courses[i].Code, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// ────────────────────── Suspend / Complete ──────────────────────

func (s *enrollmentService) SuspendCycleEnrollment(ctx context.Context, studentID string, actor Actor) (*dto.CycleEnrollmentResponse, error) {
	return s.closeActive(ctx, studentID, actor, model.EnrollmentSuspended)
}

func (s *enrollmentService) CompleteCycleEnrollment(ctx context.Context, studentID string, actor Actor) (*dto.CycleEnrollmentResponse, error) {
	return s.closeActive(ctx, studentID, actor, model.EnrollmentCompleted)
}

func (s *enrollmentService) closeActive(ctx context.Context, studentID string, actor Actor, to string) (*dto.CycleEnrollmentResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can manage enrollments")
	}

	var closed *model.CycleEnrollment
	err := s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		current, err := txRepo.CycleEnrollment.GetActiveByStudent(ctx, studentID)
		if err != nil {
			if isNotFound(err) {
				return pkgerrors.New(pkgerrors.KindNoActiveEnrollment, "student has no active enrollment")
			}
			return fmt.Errorf("load active enrollment: %w", err)
		}
		current.State = to
		current.Touch(actor.UserID)
		if err := txRepo.CycleEnrollment.Update(ctx, current); err != nil {
			return fmt.Errorf("update enrollment: %w", err)
		}
		closed = current
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) != "" {
			return nil, err
		}
		s.logger.Error("close cycle enrollment failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, pkgerrors.TransactionFailure(err, "enrollment could not be updated")
	}

	metrics.EnrollmentTransitions.WithLabelValues(to).Inc()
	s.logger.Info("cycle enrollment closed",
		zap.String("enrollment_id", closed.EnrollmentID),
		zap.String("student_id", studentID),
		zap.String("state", to),
	)
	return toCycleEnrollmentResponse(closed), nil
}

// ────────────────────── List ──────────────────────

func (s *enrollmentService) ListCycleEnrollments(ctx context.Context, req *dto.CycleEnrollmentListRequest) ([]dto.CycleEnrollmentResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	list, err := s.repo.CycleEnrollment.List(ctx, repository.CycleEnrollmentFilter{
		CycleID:   req.CycleID,
		StudentID: req.StudentID,
		State:     req.State,
	})
	if err != nil {
		s.logger.Error("list cycle enrollments failed", zap.Error(err))
		return nil, fmt.Errorf("list cycle enrollments: %w", err)
	}

	result := make([]dto.CycleEnrollmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCycleEnrollmentResponse(&list[i]))
	}
	return result, nil
}

func (s *enrollmentService) ListCourseEnrollments(ctx context.Context, courseID string) ([]dto.CourseEnrollmentResponse, error) {
	list, err := s.repo.CourseEnrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("list course enrollments failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}

	result := make([]dto.CourseEnrollmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCourseEnrollmentResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── SyncCourseEnrollments ──────────────────────

func (s *enrollmentService) SyncCourseEnrollments(ctx context.Context, actor Actor) (*dto.SyncResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can manage enrollments")
	}

	active, err := s.repo.CycleEnrollment.List(ctx, repository.CycleEnrollmentFilter{State: model.EnrollmentActive})
	if err != nil {
		s.logger.Error("list active enrollments failed", zap.Error(err))
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}

	resp := &dto.SyncResponse{StudentsChecked: len(active)}
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		for i := range active {
			n, err := cascadeCourses(ctx, txRepo, active[i].CycleID, active[i].StudentID, actor.UserID)
			if err != nil {
				return err
			}
			resp.Created += n
		}
		return nil
	})
	if err != nil {
		s.logger.Error("enrollment sync failed", zap.Error(err))
		return nil, pkgerrors.TransactionFailure(err, "enrollments could not be synchronised, nothing was changed")
	}

	s.logger.Info("course enrollments synchronised",
		zap.Int("students", resp.StudentsChecked),
		zap.Int("created", resp.Created),
	)
	return resp, nil
}

// ────────────────────── EnrollInCourse ──────────────────────

func (s *enrollmentService) EnrollInCourse(ctx context.Context, req *dto.CourseEnrollmentRequest, actor Actor) (*dto.CourseEnrollmentResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can manage enrollments")
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", req.CourseID)
		}
		s.logger.Error("load course failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}
	student, err := s.loadStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	e := &model.CourseEnrollment{
		CourseID:   course.CourseID,
		StudentID:  student.UserID,
		EnrolledAt: time.Now().UTC(),
	}
	e.Stamp(actor.UserID)
	ok, err := s.repo.CourseEnrollment.CreateIfMissing(ctx, e)
	if err != nil {
		s.logger.Error("create course enrollment failed", zap.Error(err))
		return nil, fmt.Errorf("create course enrollment: %w", err)
	}
	if !ok {
		return nil, pkgerrors.DuplicateKey("%s is already enrolled in %s", student.FullName(), course.Code)
	}

	e.Course = course
	return toCourseEnrollmentResponse(e), nil
}

// ────────────────────── RemoveCourseEnrollment ──────────────────────

func (s *enrollmentService) RemoveCourseEnrollment(ctx context.Context, courseID, studentID string, actor Actor) error {
	if !actor.IsAdmin() {
		return pkgerrors.Forbidden("only administrators can manage enrollments")
	}

	enrollment, err := s.repo.CourseEnrollment.GetByPair(ctx, courseID, studentID)
	if err != nil {
		if isNotFound(err) {
			return pkgerrors.NotFound("student is not enrolled in this course")
		}
		s.logger.Error("load course enrollment failed", zap.Error(err))
		return fmt.Errorf("load course enrollment: %w", err)
	}

	grade, err := s.repo.Grade.GetByCourseStudent(ctx, courseID, studentID)
	if err != nil && !isNotFound(err) {
		s.logger.Error("load grade failed", zap.Error(err))
		return fmt.Errorf("load grade: %w", err)
	}
	if grade != nil && grade.State == model.StatePublished {
		metrics.GuardRejections.WithLabelValues("course_enrollment").Inc()
		return pkgerrors.HasDependents(1, "a published grade exists for this enrollment")
	}

	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		if grade != nil {
			if err := txRepo.Grade.Delete(ctx, grade.GradeID); err != nil {
				return fmt.Errorf("delete grade: %w", err)
			}
		}
		if err := txRepo.Activity.DeleteByCourseStudent(ctx, courseID, studentID); err != nil {
			return fmt.Errorf("delete activities: %w", err)
		}
		if err := txRepo.Practice.DeleteByCourseStudent(ctx, courseID, studentID); err != nil {
			return fmt.Errorf("delete practices: %w", err)
		}
		if err := txRepo.PartialExam.DeleteByCourseStudent(ctx, courseID, studentID); err != nil {
			return fmt.Errorf("delete partial exams: %w", err)
		}
		return txRepo.CourseEnrollment.Delete(ctx, enrollment.EnrollmentID)
	})
	if err != nil {
		s.logger.Error("remove course enrollment failed", zap.Error(err))
		return pkgerrors.TransactionFailure(err, "enrollment could not be removed, nothing was changed")
	}

	s.logger.Info("course enrollment removed",
		zap.String("course_id", courseID),
		zap.String("student_id", studentID),
		zap.Bool("draft_grade_removed", grade != nil),
	)
	return nil
}

// ── helpers ──

func (s *enrollmentService) loadStudent(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("student %s does not exist", id)
		}
		s.logger.Error("load student failed", zap.String("student_id", id), zap.Error(err))
		return nil, fmt.Errorf("load student: %w", err)
	}
	if user.Role != model.RoleStudent {
		return nil, pkgerrors.NotFound("student %s does not exist", id)
	}
	return user, nil
}
