package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
)

// ReportService read-only summaries built from the denormalized grade fields
type ReportService interface {
	Dashboard(ctx context.Context, actor Actor) (*dto.DashboardResponse, error)
	CourseSummary(ctx context.Context, courseID string) (*dto.CourseSummaryResponse, error)
	InstructorStats(ctx context.Context, instructorID string, actor Actor) (*dto.InstructorStatsResponse, error)
	StudentTranscript(ctx context.Context, studentID string, actor Actor) (*dto.TranscriptResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService creates a ReportService
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *reportService) Dashboard(ctx context.Context, actor Actor) (*dto.DashboardResponse, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.Forbidden("only administrators can view the dashboard")
	}

	resp := &dto.DashboardResponse{}
	steps := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&resp.Students, func() (int64, error) { return s.repo.User.CountByRole(ctx, model.RoleStudent) }},
		{&resp.Instructors, func() (int64, error) { return s.repo.User.CountByRole(ctx, model.RoleInstructor) }},
		{&resp.ActiveCourses, func() (int64, error) { return s.repo.Course.Count(ctx, true) }},
		{&resp.ActiveCycles, func() (int64, error) { return s.repo.Cycle.Count(ctx, true) }},
		{&resp.ActiveEnrollments, func() (int64, error) { return s.repo.CycleEnrollment.CountActive(ctx) }},
		{&resp.CourseEnrollments, func() (int64, error) { return s.repo.CourseEnrollment.Count(ctx) }},
		{&resp.PublishedGrades, func() (int64, error) { return s.repo.Grade.CountByState(ctx, model.StatePublished) }},
		{&resp.DraftGrades, func() (int64, error) { return s.repo.Grade.CountByState(ctx, model.StateDraft) }},
	}
	for _, step := range steps {
		n, err := step.fn()
		if err != nil {
			s.logger.Error("dashboard count failed", zap.Error(err))
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		*step.dst = n
	}
	return resp, nil
}

// ────────────────────── CourseSummary ──────────────────────

func (s *reportService) CourseSummary(ctx context.Context, courseID string) (*dto.CourseSummaryResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", courseID)
		}
		s.logger.Error("load course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}
	return s.summarise(ctx, course)
}

func (s *reportService) summarise(ctx context.Context, course *model.Course) (*dto.CourseSummaryResponse, error) {
	enrolled, err := s.repo.CourseEnrollment.CountByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("count enrollments failed", zap.String("course_id", course.CourseID), zap.Error(err))
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	grades, err := s.repo.Grade.ListByCourse(ctx, course.CourseID)
	if err != nil {
		s.logger.Error("list course grades failed", zap.String("course_id", course.CourseID), zap.Error(err))
		return nil, fmt.Errorf("list course grades: %w", err)
	}

	resp := &dto.CourseSummaryResponse{
		CourseID:      course.CourseID,
		CourseCode:    course.Code,
		CourseName:    course.Name,
		GradingScheme: string(course.Scheme()),
		Enrolled:      enrolled,
		Graded:        len(grades),
	}
	finals := make([]float64, 0, len(grades))
	for i := range grades {
		if grades[i].State == model.StatePublished {
			resp.Published++
		} else {
			resp.Draft++
		}
		finals = append(finals, grades[i].FinalAverage)
	}
	resp.Average, resp.Highest, resp.Lowest = stats(finals)
	return resp, nil
}

// stats returns mean, max and min over values > 0; all zero when none.
func stats(values []float64) (mean, highest, lowest float64) {
	n := 0
	var sum float64
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if n == 0 || v > highest {
			highest = v
		}
		if n == 0 || v < lowest {
			lowest = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	return sum / float64(n), highest, lowest
}

// ────────────────────── InstructorStats ──────────────────────

func (s *reportService) InstructorStats(ctx context.Context, instructorID string, actor Actor) (*dto.InstructorStatsResponse, error) {
	if !actor.IsAdmin() && actor.UserID != instructorID {
		return nil, pkgerrors.Forbidden("instructors can only view their own statistics")
	}

	instructor, err := s.repo.User.GetByID(ctx, instructorID)
	if err != nil || instructor.Role != model.RoleInstructor {
		if err == nil || isNotFound(err) {
			return nil, pkgerrors.NotFound("instructor %s does not exist", instructorID)
		}
		s.logger.Error("load instructor failed", zap.Error(err))
		return nil, fmt.Errorf("load instructor: %w", err)
	}

	assignments, err := s.repo.Assignment.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	gradesEntered, err := s.repo.Grade.CountByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("count instructor grades failed", zap.Error(err))
		return nil, fmt.Errorf("count instructor grades: %w", err)
	}

	resp := &dto.InstructorStatsResponse{
		InstructorID:   instructor.UserID,
		InstructorName: instructor.FullName(),
		Courses:        make([]dto.CourseSummaryResponse, 0, len(assignments)),
		GradesEntered:  gradesEntered,
	}
	for i := range assignments {
		course := assignments[i].Course
		if course == nil {
			course, err = s.repo.Course.GetByID(ctx, assignments[i].CourseID)
			if err != nil {
				s.logger.Error("load course failed", zap.String("course_id", assignments[i].CourseID), zap.Error(err))
				return nil, fmt.Errorf("load course: %w", err)
			}
		}
		summary, err := s.summarise(ctx, course)
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, *summary)
		resp.Students += summary.Enrolled
	}
	return resp, nil
}

// ────────────────────── StudentTranscript ──────────────────────

func (s *reportService) StudentTranscript(ctx context.Context, studentID string, actor Actor) (*dto.TranscriptResponse, error) {
	if actor.Role == model.RoleStudent && actor.UserID != studentID {
		return nil, pkgerrors.Forbidden("students can only view their own transcript")
	}

	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil || student.Role != model.RoleStudent {
		if err == nil || isNotFound(err) {
			return nil, pkgerrors.NotFound("student %s does not exist", studentID)
		}
		s.logger.Error("load student failed", zap.Error(err))
		return nil, fmt.Errorf("load student: %w", err)
	}

	resp := &dto.TranscriptResponse{
		StudentID:   student.UserID,
		StudentName: student.FullName(),
		Grades:      []dto.GradeResponse{},
	}

	active, err := s.repo.CycleEnrollment.List(ctx, repository.CycleEnrollmentFilter{
		StudentID: studentID,
		State:     model.EnrollmentActive,
	})
	if err != nil {
		s.logger.Error("load active enrollment failed", zap.Error(err))
		return nil, fmt.Errorf("load active enrollment: %w", err)
	}
	if len(active) > 0 {
		resp.ActiveEnrollment = toCycleEnrollmentResponse(&active[0])
	}

	filter := repository.GradeFilter{StudentID: studentID}
	if actor.Role == model.RoleStudent {
		filter.State = model.StatePublished
	}
	grades, _, err := s.repo.Grade.List(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("list student grades failed", zap.Error(err))
		return nil, fmt.Errorf("list student grades: %w", err)
	}

	published := make([]float64, 0, len(grades))
	for i := range grades {
		resp.Grades = append(resp.Grades, *toGradeResponse(&grades[i]))
		if grades[i].State == model.StatePublished {
			published = append(published, grades[i].FinalAverage)
		}
	}
	resp.Average, _, _ = stats(published)
	return resp, nil
}
