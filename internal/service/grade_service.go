package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gradebook/internal/dto"
	"gradebook/internal/grading"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
	"gradebook/pkg/metrics"
)

// GradeService grade submission and final grade computation
type GradeService interface {
	// SubmitGrades validates a full category snapshot and writes the three category rows
	// and the grade row atomically.
	SubmitGrades(ctx context.Context, req *dto.SubmitGradesRequest, actor Actor) (*dto.GradeResponse, error)
	// ComputeFinalGrade recomputes a grade from its category rows without writing anything.
	ComputeFinalGrade(ctx context.Context, gradeID string) (*dto.FinalGradeResponse, error)
	ToggleState(ctx context.Context, gradeID string, actor Actor) (*dto.GradeResponse, error)
	GetGrade(ctx context.Context, gradeID string, actor Actor) (*dto.GradeResponse, error)
	ListGrades(ctx context.Context, req *dto.GradeListRequest, actor Actor) ([]dto.GradeResponse, int64, error)
	// RecalculateCourse refreshes the denormalized averages of every grade in a course.
	RecalculateCourse(ctx context.Context, courseID string, actor Actor) (*dto.RecalculateResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	locker Locker
	opts   Options
	logger *zap.Logger
}

// NewGradeService creates a GradeService
func NewGradeService(repo *repository.Repository, locker Locker, opts Options, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, locker: locker, opts: opts, logger: logger}
}

// ────────────────────── SubmitGrades ──────────────────────

// submission is a request that passed every precondition.
type submission struct {
	course       *model.Course
	studentID    string
	instructorID string
	actorID      string
	activities   grading.ActivityItems
	practices    grading.PracticeItems
	partialExams grading.PartialExamItems
	partials     grading.LegacyPartials
	comments     string
	state        string
}

func (s *gradeService) SubmitGrades(ctx context.Context, req *dto.SubmitGradesRequest, actor Actor) (*dto.GradeResponse, error) {
	sub, err := s.checkSubmission(ctx, req, actor)
	if err != nil {
		metrics.GradeSubmissions.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	lockCtx := ctx
	if s.opts.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.opts.LockWait)
		defer cancel()
	}
	unlock, err := s.locker.Lock(lockCtx, "grade:"+sub.course.CourseID+":"+sub.studentID)
	if err != nil {
		s.logger.Warn("grade lock unavailable",
			zap.String("course_id", sub.course.CourseID),
			zap.String("student_id", sub.studentID),
			zap.Error(err),
		)
		metrics.GradeSubmissions.WithLabelValues(string(pkgerrors.KindTransactionFailure)).Inc()
		return nil, pkgerrors.TransactionFailure(err, "another submission for this student is in progress, try again")
	}
	defer unlock()

	start := time.Now()
	var grade *model.Grade
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		var txErr error
		grade, txErr = s.writeSubmission(ctx, txRepo, sub)
		return txErr
	})
	metrics.GradeSubmitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("grade submission rolled back",
			zap.String("course_id", sub.course.CourseID),
			zap.String("student_id", sub.studentID),
			zap.Error(err),
		)
		metrics.GradeSubmissions.WithLabelValues(string(pkgerrors.KindTransactionFailure)).Inc()
		return nil, pkgerrors.TransactionFailure(err, "grades could not be saved, nothing was changed")
	}

	metrics.GradeSubmissions.WithLabelValues("ok").Inc()
	s.logger.Info("grades submitted",
		zap.String("grade_id", grade.GradeID),
		zap.String("course_id", grade.CourseID),
		zap.String("student_id", grade.StudentID),
		zap.Float64("final_average", grade.FinalAverage),
		zap.String("state", grade.State),
	)

	grade.Course = sub.course
	return toGradeResponse(grade), nil
}

// checkSubmission runs the preconditions in order; the first failure wins.
func (s *gradeService) checkSubmission(ctx context.Context, req *dto.SubmitGradesRequest, actor Actor) (*submission, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if !actor.IsInstructor() && !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only instructors and administrators can submit grades")
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", req.CourseID)
		}
		s.logger.Error("load course failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}

	instructorID, err := submittingInstructor(req, actor)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Assignment.GetByPair(ctx, course.CourseID, instructorID); err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.Forbidden("instructor is not assigned to course %s", course.Code)
		}
		s.logger.Error("load assignment failed", zap.Error(err))
		return nil, fmt.Errorf("load assignment: %w", err)
	}

	if _, err := s.repo.CourseEnrollment.GetByPair(ctx, course.CourseID, req.StudentID); err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.KindEnrollmentMissing, "student is not enrolled in course %s", course.Code)
		}
		s.logger.Error("load course enrollment failed", zap.Error(err))
		return nil, fmt.Errorf("load course enrollment: %w", err)
	}

	if err := checkRanges(req); err != nil {
		return nil, err
	}

	// slots past the course's partial count are not part of the grade
	partials := grading.LegacyPartials(req.Partials).Used(course.PartialCount)
	if course.Scheme() == grading.SchemeLegacyPartials && !anyPositive(partials[:]) {
		return nil, pkgerrors.New(pkgerrors.KindEmptySubmission, "at least one of the first %d partial grades must be greater than 0", course.PartialCount)
	}

	state, err := parseState(req.State)
	if err != nil {
		return nil, err
	}

	return &submission{
		course:       course,
		studentID:    req.StudentID,
		instructorID: instructorID,
		actorID:      actor.UserID,
		activities:   grading.ActivityItems(req.Activities),
		practices:    grading.PracticeItems(req.Practices),
		partialExams: grading.PartialExamItems(req.PartialExams),
		partials:     partials,
		comments:     req.Comments,
		state:        state,
	}, nil
}

// submittingInstructor resolves the instructor of record. Instructors grade as themselves;
// admins must name the instructor.
func submittingInstructor(req *dto.SubmitGradesRequest, actor Actor) (string, error) {
	switch {
	case actor.IsInstructor():
		if req.InstructorID != "" && req.InstructorID != actor.UserID {
			return "", pkgerrors.Forbidden("instructors can only submit grades as themselves")
		}
		return actor.UserID, nil
	case actor.IsAdmin():
		if req.InstructorID == "" {
			return "", pkgerrors.Invalid("instructor_id is required when an administrator submits grades")
		}
		return req.InstructorID, nil
	}
	return "", pkgerrors.Forbidden("only instructors and administrators can submit grades")
}

func checkRanges(req *dto.SubmitGradesRequest) error {
	groups := []struct {
		name   string
		values []float64
	}{
		{"activities", req.Activities[:]},
		{"practices", req.Practices[:]},
		{"partial_exams", req.PartialExams[:]},
		{"partials", req.Partials[:]},
	}
	for _, g := range groups {
		for i, v := range g.values {
			if !grading.InRange(v) {
				return pkgerrors.New(pkgerrors.KindOutOfRange, "%s[%d] = %g is outside %g..%g",
					g.name, i+1, v, grading.MinScore, grading.MaxScore)
			}
		}
	}
	return nil
}

func anyPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

func parseState(s string) (string, error) {
	switch s {
	case "", model.StateDraft:
		return model.StateDraft, nil
	case model.StatePublished:
		return model.StatePublished, nil
	}
	return "", pkgerrors.Invalid("state must be draft or published")
}

// writeSubmission upserts the three category rows then the grade row linking them.
func (s *gradeService) writeSubmission(ctx context.Context, txRepo *repository.Repository, sub *submission) (*model.Grade, error) {
	courseID := sub.course.CourseID

	activity, err := txRepo.Activity.LatestByCourseStudent(ctx, courseID, sub.studentID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("load activities: %w", err)
		}
		activity = &model.ActivityScore{}
	}
	sub.prepare(&activity.CategoryScore)
	activity.SetItems(sub.activities)
	if err := txRepo.Activity.Save(ctx, activity); err != nil {
		return nil, fmt.Errorf("save activities: %w", err)
	}

	practice, err := txRepo.Practice.LatestByCourseStudent(ctx, courseID, sub.studentID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("load practices: %w", err)
		}
		practice = &model.PracticeScore{}
	}
	sub.prepare(&practice.CategoryScore)
	practice.SetItems(sub.practices)
	if err := txRepo.Practice.Save(ctx, practice); err != nil {
		return nil, fmt.Errorf("save practices: %w", err)
	}

	exam, err := txRepo.PartialExam.LatestByCourseStudent(ctx, courseID, sub.studentID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("load partial exams: %w", err)
		}
		exam = &model.PartialExamScore{}
	}
	sub.prepare(&exam.CategoryScore)
	exam.SetItems(sub.partialExams)
	if err := txRepo.PartialExam.Save(ctx, exam); err != nil {
		return nil, fmt.Errorf("save partial exams: %w", err)
	}

	grade, err := txRepo.Grade.GetByCourseStudent(ctx, courseID, sub.studentID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("load grade: %w", err)
		}
		grade = &model.Grade{
			GradeID:   uuid.New().String(),
			CourseID:  courseID,
			StudentID: sub.studentID,
		}
		grade.Stamp(sub.actorID)
	}

	grade.InstructorID = sub.instructorID
	grade.ActivityID = &activity.ID
	grade.PracticeID = &practice.ID
	grade.PartialExamID = &exam.ID
	grade.SetLegacyPartials(sub.partials)
	grade.LegacyFinal = grading.LegacyMean(sub.partials, sub.course.PartialCount)

	avg := grading.CategoryAverages{
		Activity:    activity.Average,
		Practice:    practice.Average,
		PartialExam: exam.Average,
	}
	grade.ApplyFinal(avg, grading.Final(grading.Inputs{
		Scheme:       sub.course.Scheme(),
		Averages:     avg,
		Partials:     sub.partials,
		PartialCount: sub.course.PartialCount,
	}))

	now := time.Now().UTC()
	setGradeState(grade, sub.state, now)
	grade.SubmittedAt = &now
	grade.Comments = sub.comments
	grade.Touch(sub.actorID)

	if err := txRepo.Grade.Save(ctx, grade); err != nil {
		return nil, fmt.Errorf("save grade: %w", err)
	}
	return grade, nil
}

// prepare fills identity on a new row and the per-submission fields on any row.
func (sub *submission) prepare(row *model.CategoryScore) {
	if row.ID == "" {
		row.ID = uuid.New().String()
		row.CourseID = sub.course.CourseID
		row.StudentID = sub.studentID
		row.Stamp(sub.actorID)
	}
	row.InstructorID = sub.instructorID
	row.State = sub.state
	row.Comments = sub.comments
	row.Touch(sub.actorID)
}

func setGradeState(g *model.Grade, state string, now time.Time) {
	if state == model.StatePublished && g.State != model.StatePublished {
		g.PublishedAt = &now
	}
	if state == model.StateDraft {
		g.PublishedAt = nil
	}
	g.State = state
}

func outcomeLabel(err error) string {
	if k := pkgerrors.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}

// ────────────────────── ComputeFinalGrade ──────────────────────

func (s *gradeService) ComputeFinalGrade(ctx context.Context, gradeID string) (*dto.FinalGradeResponse, error) {
	grade, err := s.loadGrade(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	course, err := s.gradeCourse(ctx, grade)
	if err != nil {
		return nil, err
	}

	avg, err := resolveAverages(ctx, s.repo, grade)
	if err != nil {
		s.logger.Error("resolve category averages failed", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, err
	}

	final := grading.Final(grading.Inputs{
		Scheme:       course.Scheme(),
		Averages:     avg,
		Partials:     grade.LegacyPartials(),
		PartialCount: course.PartialCount,
	})

	return &dto.FinalGradeResponse{
		GradeID:            grade.GradeID,
		GradingScheme:      string(course.Scheme()),
		ActivityAverage:    avg.Activity,
		PracticeAverage:    avg.Practice,
		PartialExamAverage: avg.PartialExam,
		FinalAverage:       final,
		Stored:             grade.FinalAverage,
	}, nil
}

// resolveAverages picks each category's average independently: the referenced row,
// else the latest row for (course, student), else 0.
func resolveAverages(ctx context.Context, repo *repository.Repository, g *model.Grade) (grading.CategoryAverages, error) {
	var avg grading.CategoryAverages
	var err error

	avg.Activity, err = resolveCategory(g, g.ActivityID,
		func(id string) (float64, error) {
			row, err := repo.Activity.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		},
		func() (float64, error) {
			row, err := repo.Activity.LatestByCourseStudent(ctx, g.CourseID, g.StudentID)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		})
	if err != nil {
		return avg, err
	}

	avg.Practice, err = resolveCategory(g, g.PracticeID,
		func(id string) (float64, error) {
			row, err := repo.Practice.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		},
		func() (float64, error) {
			row, err := repo.Practice.LatestByCourseStudent(ctx, g.CourseID, g.StudentID)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		})
	if err != nil {
		return avg, err
	}

	avg.PartialExam, err = resolveCategory(g, g.PartialExamID,
		func(id string) (float64, error) {
			row, err := repo.PartialExam.GetByID(ctx, id)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		},
		func() (float64, error) {
			row, err := repo.PartialExam.LatestByCourseStudent(ctx, g.CourseID, g.StudentID)
			if err != nil {
				return 0, err
			}
			return row.Average, nil
		})
	return avg, err
}

func resolveCategory(
	g *model.Grade,
	ref *string,
	byID func(id string) (float64, error),
	latest func() (float64, error),
) (float64, error) {
	if ref != nil && *ref != "" {
		v, err := byID(*ref)
		if err == nil {
			return v, nil
		}
		if !isNotFound(err) {
			return 0, fmt.Errorf("grade %s: load referenced row: %w", g.GradeID, err)
		}
	}
	v, err := latest()
	if err == nil {
		return v, nil
	}
	if isNotFound(err) {
		return 0, nil
	}
	return 0, fmt.Errorf("grade %s: load latest row: %w", g.GradeID, err)
}

// ────────────────────── ToggleState ──────────────────────

func (s *gradeService) ToggleState(ctx context.Context, gradeID string, actor Actor) (*dto.GradeResponse, error) {
	grade, err := s.loadGrade(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsInstructor() && actor.UserID == grade.InstructorID) {
		return nil, pkgerrors.Forbidden("only the instructor of record or an administrator can change this grade")
	}

	next := model.StatePublished
	if grade.State == model.StatePublished {
		next = model.StateDraft
	}
	setGradeState(grade, next, time.Now().UTC())
	grade.Touch(actor.UserID)

	if err := s.repo.Grade.Save(ctx, grade); err != nil {
		s.logger.Error("toggle grade state failed", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, fmt.Errorf("save grade: %w", err)
	}

	s.logger.Info("grade state changed", zap.String("grade_id", gradeID), zap.String("state", next))
	return toGradeResponse(grade), nil
}

// ────────────────────── GetGrade / ListGrades ──────────────────────

func (s *gradeService) GetGrade(ctx context.Context, gradeID string, actor Actor) (*dto.GradeResponse, error) {
	grade, err := s.loadGrade(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleStudent && actor.UserID != grade.StudentID {
		return nil, pkgerrors.Forbidden("students can only view their own grades")
	}
	return toGradeResponse(grade), nil
}

func (s *gradeService) ListGrades(ctx context.Context, req *dto.GradeListRequest, actor Actor) ([]dto.GradeResponse, int64, error) {
	if err := dto.Validate(req); err != nil {
		return nil, 0, err
	}

	filter := repository.GradeFilter{
		CycleID:      req.CycleID,
		CourseID:     req.CourseID,
		StudentID:    req.StudentID,
		InstructorID: req.InstructorID,
		State:        req.State,
	}
	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = actor.UserID
		filter.State = model.StatePublished
	case model.RoleInstructor:
		filter.InstructorID = actor.UserID
	}

	grades, total, err := s.repo.Grade.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list grades failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list grades: %w", err)
	}

	result := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, *toGradeResponse(&grades[i]))
	}
	return result, total, nil
}

// ────────────────────── RecalculateCourse ──────────────────────

func (s *gradeService) RecalculateCourse(ctx context.Context, courseID string, actor Actor) (*dto.RecalculateResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can recalculate a course")
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", courseID)
		}
		s.logger.Error("load course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}

	var updated int
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		var txErr error
		updated, txErr = regradeCourse(ctx, txRepo, course, actor.UserID)
		return txErr
	})
	if err != nil {
		s.logger.Error("recalculate course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, pkgerrors.TransactionFailure(err, "course grades could not be recalculated, nothing was changed")
	}

	s.logger.Info("course grades recalculated", zap.String("course_id", courseID), zap.Int("updated", updated))
	return &dto.RecalculateResponse{CourseID: course.CourseID, Updated: updated}, nil
}

// regradeCourse recomputes and saves every grade of a course under the course's
// current scheme and partial count. Callers run it inside a transaction.
func regradeCourse(ctx context.Context, txRepo *repository.Repository, course *model.Course, actorID string) (int, error) {
	grades, err := txRepo.Grade.ListByCourse(ctx, course.CourseID)
	if err != nil {
		return 0, err
	}
	for i := range grades {
		g := &grades[i]
		avg, err := resolveAverages(ctx, txRepo, g)
		if err != nil {
			return 0, err
		}
		g.ApplyFinal(avg, grading.Final(grading.Inputs{
			Scheme:       course.Scheme(),
			Averages:     avg,
			Partials:     g.LegacyPartials(),
			PartialCount: course.PartialCount,
		}))
		g.LegacyFinal = grading.LegacyMean(g.LegacyPartials(), course.PartialCount)
		g.Touch(actorID)
		if err := txRepo.Grade.Save(ctx, g); err != nil {
			return 0, err
		}
	}
	return len(grades), nil
}

// ── helpers ──

func (s *gradeService) loadGrade(ctx context.Context, gradeID string) (*model.Grade, error) {
	grade, err := s.repo.Grade.GetByID(ctx, gradeID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("grade %s does not exist", gradeID)
		}
		s.logger.Error("load grade failed", zap.String("grade_id", gradeID), zap.Error(err))
		return nil, fmt.Errorf("load grade: %w", err)
	}
	return grade, nil
}

func (s *gradeService) gradeCourse(ctx context.Context, g *model.Grade) (*model.Course, error) {
	if g.Course != nil {
		return g.Course, nil
	}
	course, err := s.repo.Course.GetByID(ctx, g.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", g.CourseID)
		}
		s.logger.Error("load course failed", zap.String("course_id", g.CourseID), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}
	return course, nil
}
