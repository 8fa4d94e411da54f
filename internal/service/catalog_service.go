package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gradebook/internal/dto"
	"gradebook/internal/grading"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
)

// CatalogService courses, cycles, instructor assignments and the user registry
type CatalogService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, actor Actor) (*dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, actor Actor) (*dto.CourseResponse, error)
	// AssignCycle sets, changes or clears (nil) the cycle of a course.
	AssignCycle(ctx context.Context, id string, req *dto.AssignCycleRequest, actor Actor) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, cycleID string, activeOnly bool) ([]dto.CourseResponse, error)

	CreateCycle(ctx context.Context, req *dto.CreateCycleRequest, actor Actor) (*dto.CycleResponse, error)
	UpdateCycle(ctx context.Context, id string, req *dto.UpdateCycleRequest, actor Actor) (*dto.CycleResponse, error)
	// DuplicateCycle copies a cycle under the next free order with a "(Copy)" suffix.
	DuplicateCycle(ctx context.Context, id string, actor Actor) (*dto.CycleResponse, error)
	GetCycle(ctx context.Context, id string) (*dto.CycleResponse, error)
	ListCycles(ctx context.Context) ([]dto.CycleResponse, error)

	AssignInstructor(ctx context.Context, req *dto.AssignInstructorRequest, actor Actor) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, courseID, instructorID string) ([]dto.AssignmentResponse, error)

	CreateUser(ctx context.Context, req *dto.CreateUserRequest, actor Actor) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, actor Actor) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// ImportUsers registers every valid row; invalid rows are reported, not fatal.
	ImportUsers(ctx context.Context, rows []ImportUserRow, actor Actor) (*dto.ImportUsersResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return pkgerrors.Forbidden("only administrators can change the catalogue")
	}
	return nil
}

// ────────────────────── Courses ──────────────────────

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, actor Actor) (*dto.CourseResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := s.ensureCodeFree(ctx, code, ""); err != nil {
		return nil, err
	}

	scheme, err := grading.ParseScheme(req.GradingScheme)
	if err != nil {
		return nil, pkgerrors.Invalid("%v", err)
	}

	course := &model.Course{
		Name:          strings.TrimSpace(req.Name),
		Code:          code,
		Description:   req.Description,
		Credits:       req.Credits,
		PartialCount:  req.PartialCount,
		GradingScheme: string(scheme),
		IsActive:      true,
	}
	if course.Credits == 0 {
		course.Credits = 3
	}
	if course.PartialCount == 0 {
		course.PartialCount = 3
	}
	if req.CycleID != nil {
		cycle, err := s.loadCycle(ctx, *req.CycleID)
		if err != nil {
			return nil, err
		}
		course.CycleID = &cycle.CycleID
		course.Cycle = cycle
	}
	course.Stamp(actor.UserID)

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("course code %s is already in use", code)
		}
		s.logger.Error("create course failed", zap.Error(err))
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("course created", zap.String("course_id", course.CourseID), zap.String("code", code))
	return toCourseResponse(course), nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, actor Actor) (*dto.CourseResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != course.Code {
			if err := s.ensureCodeFree(ctx, code, course.CourseID); err != nil {
				return nil, err
			}
			course.Code = code
		}
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	regrade := false
	if req.PartialCount != nil && *req.PartialCount != course.PartialCount {
		course.PartialCount = *req.PartialCount
		regrade = true
	}
	if req.GradingScheme != nil {
		scheme, err := grading.ParseScheme(*req.GradingScheme)
		if err != nil {
			return nil, pkgerrors.Invalid("%v", err)
		}
		if scheme != course.Scheme() {
			course.GradingScheme = string(scheme)
			regrade = true
		}
	}
	course.Touch(actor.UserID)

	// stored finals follow the course's grading settings in the same transaction
	regraded := 0
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Course.Update(ctx, course); err != nil {
			return err
		}
		if !regrade {
			return nil
		}
		var txErr error
		regraded, txErr = regradeCourse(ctx, txRepo, course, actor.UserID)
		return txErr
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("course code %s is already in use", course.Code)
		}
		s.logger.Error("update course failed", zap.String("course_id", id), zap.Bool("regrade", regrade), zap.Error(err))
		if regrade {
			return nil, pkgerrors.TransactionFailure(err, "course could not be updated, nothing was changed")
		}
		return nil, fmt.Errorf("update course: %w", err)
	}

	if regrade {
		s.logger.Info("course grading settings changed",
			zap.String("course_id", course.CourseID),
			zap.String("grading_scheme", course.GradingScheme),
			zap.Int("partial_count", course.PartialCount),
			zap.Int("regraded", regraded),
		)
	}
	return toCourseResponse(course), nil
}

func (s *catalogService) AssignCycle(ctx context.Context, id string, req *dto.AssignCycleRequest, actor Actor) (*dto.CourseResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CycleID == nil {
		course.CycleID = nil
		course.Cycle = nil
	} else {
		cycle, err := s.loadCycle(ctx, *req.CycleID)
		if err != nil {
			return nil, err
		}
		course.CycleID = &cycle.CycleID
		course.Cycle = cycle
	}
	course.Touch(actor.UserID)

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("assign course cycle failed", zap.String("course_id", id), zap.Error(err))
		return nil, fmt.Errorf("update course: %w", err)
	}

	return toCourseResponse(course), nil
}

func (s *catalogService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *catalogService) ListCourses(ctx context.Context, cycleID string, activeOnly bool) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, repository.CourseFilter{CycleID: cycleID, ActiveOnly: activeOnly})
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, fmt.Errorf("list courses: %w", err)
	}
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *catalogService) ensureCodeFree(ctx context.Context, code, exceptID string) error {
	existing, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		s.logger.Error("check course code failed", zap.Error(err))
		return fmt.Errorf("check course code: %w", err)
	}
	if existing.CourseID != exceptID {
		return pkgerrors.DuplicateKey("course code %s is already in use", code)
	}
	return nil
}

// ────────────────────── Cycles ──────────────────────

func (s *catalogService) CreateCycle(ctx context.Context, req *dto.CreateCycleRequest, actor Actor) (*dto.CycleResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	start, end, err := cycleDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Cycle.MaxOrder(ctx)
	if err != nil {
		s.logger.Error("read cycle order failed", zap.Error(err))
		return nil, fmt.Errorf("read cycle order: %w", err)
	}

	cycle := &model.Cycle{
		Name:      strings.TrimSpace(req.Name),
		Year:      req.Year,
		Half:      req.Half,
		Order:     order + 1,
		IsActive:  true,
		StartDate: start,
		EndDate:   end,
	}
	cycle.Stamp(actor.UserID)

	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("cycle order %d is already taken, retry", cycle.Order)
		}
		s.logger.Error("create cycle failed", zap.Error(err))
		return nil, fmt.Errorf("create cycle: %w", err)
	}

	s.logger.Info("cycle created", zap.String("cycle_id", cycle.CycleID), zap.Int("order", cycle.Order))
	return toCycleResponse(cycle), nil
}

func (s *catalogService) UpdateCycle(ctx context.Context, id string, req *dto.UpdateCycleRequest, actor Actor) (*dto.CycleResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	cycle, err := s.loadCycle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cycle.Name = strings.TrimSpace(*req.Name)
	}
	if req.Year != nil {
		cycle.Year = *req.Year
	}
	if req.Half != nil {
		cycle.Half = *req.Half
	}
	start, end := formatDate(cycle.StartDate), formatDate(cycle.EndDate)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	cycle.StartDate, cycle.EndDate, err = cycleDates(start, end)
	if err != nil {
		return nil, err
	}
	cycle.Touch(actor.UserID)

	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("update cycle failed", zap.String("cycle_id", id), zap.Error(err))
		return nil, fmt.Errorf("update cycle: %w", err)
	}
	return toCycleResponse(cycle), nil
}

func (s *catalogService) DuplicateCycle(ctx context.Context, id string, actor Actor) (*dto.CycleResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	src, err := s.loadCycle(ctx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.nextFreeOrder(ctx, src.Order+1)
	if err != nil {
		return nil, err
	}

	cycle := &model.Cycle{
		Name:      src.Name + " (Copy)",
		Year:      src.Year,
		Half:      src.Half,
		Order:     order,
		IsActive:  true,
		StartDate: src.StartDate,
		EndDate:   src.EndDate,
	}
	cycle.Stamp(actor.UserID)

	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("cycle order %d is already taken, retry", cycle.Order)
		}
		s.logger.Error("duplicate cycle failed", zap.String("cycle_id", id), zap.Error(err))
		return nil, fmt.Errorf("duplicate cycle: %w", err)
	}

	s.logger.Info("cycle duplicated",
		zap.String("source_id", id),
		zap.String("cycle_id", cycle.CycleID),
		zap.Int("order", cycle.Order),
	)
	return toCycleResponse(cycle), nil
}

// nextFreeOrder returns the first order >= from that no cycle uses.
func (s *catalogService) nextFreeOrder(ctx context.Context, from int) (int, error) {
	for order := from; ; order++ {
		taken, err := s.repo.Cycle.ExistsOrder(ctx, order)
		if err != nil {
			s.logger.Error("check cycle order failed", zap.Error(err))
			return 0, fmt.Errorf("check cycle order: %w", err)
		}
		if !taken {
			return order, nil
		}
	}
}

func (s *catalogService) GetCycle(ctx context.Context, id string) (*dto.CycleResponse, error) {
	cycle, err := s.loadCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *catalogService) ListCycles(ctx context.Context) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		s.logger.Error("list cycles failed", zap.Error(err))
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	result := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		result = append(result, *toCycleResponse(&cycles[i]))
	}
	return result, nil
}

func cycleDates(startStr, endStr string) (start, end *datatypes.Date, err error) {
	start, err = parseDate(startStr)
	if err != nil {
		return nil, nil, pkgerrors.Invalid("start_date must be YYYY-MM-DD")
	}
	end, err = parseDate(endStr)
	if err != nil {
		return nil, nil, pkgerrors.Invalid("end_date must be YYYY-MM-DD")
	}
	if start != nil && end != nil && !time.Time(*end).After(time.Time(*start)) {
		return nil, nil, pkgerrors.Invalid("end_date must be after start_date")
	}
	return start, end, nil
}

// ────────────────────── Assignments ──────────────────────

func (s *catalogService) AssignInstructor(ctx context.Context, req *dto.AssignInstructorRequest, actor Actor) (*dto.AssignmentResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.loadCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	instructor, err := s.repo.User.GetByID(ctx, req.InstructorID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("instructor %s does not exist", req.InstructorID)
		}
		s.logger.Error("load instructor failed", zap.Error(err))
		return nil, fmt.Errorf("load instructor: %w", err)
	}
	if instructor.Role != model.RoleInstructor {
		return nil, pkgerrors.NotFound("instructor %s does not exist", req.InstructorID)
	}

	if _, err := s.repo.Assignment.GetByPair(ctx, course.CourseID, instructor.UserID); err == nil {
		return nil, pkgerrors.DuplicateKey("%s is already assigned to %s", instructor.FullName(), course.Code)
	} else if !isNotFound(err) {
		s.logger.Error("check assignment failed", zap.Error(err))
		return nil, fmt.Errorf("check assignment: %w", err)
	}

	a := &model.CourseAssignment{
		CourseID:     course.CourseID,
		InstructorID: instructor.UserID,
		AssignedAt:   time.Now().UTC(),
	}
	a.Stamp(actor.UserID)
	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("%s is already assigned to %s", instructor.FullName(), course.Code)
		}
		s.logger.Error("create assignment failed", zap.Error(err))
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	a.Course = course
	a.Instructor = instructor
	s.logger.Info("instructor assigned",
		zap.String("course_id", course.CourseID),
		zap.String("instructor_id", instructor.UserID),
	)
	return toAssignmentResponse(a), nil
}

func (s *catalogService) ListAssignments(ctx context.Context, courseID, instructorID string) ([]dto.AssignmentResponse, error) {
	var list []model.CourseAssignment
	var err error
	switch {
	case courseID != "":
		list, err = s.repo.Assignment.ListByCourse(ctx, courseID)
	case instructorID != "":
		list, err = s.repo.Assignment.ListByInstructor(ctx, instructorID)
	default:
		return nil, pkgerrors.Invalid("course_id or instructor_id is required")
	}
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Users ──────────────────────

func (s *catalogService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, actor Actor) (*dto.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		NationalID: strings.TrimSpace(req.NationalID),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Role:       req.Role,
		IsActive:   true,
	}
	if err := s.ensureUserUnique(ctx, user.NationalID, user.Email, ""); err != nil {
		return nil, err
	}
	user.Stamp(actor.UserID)

	if err := s.repo.User.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("national id or email is already registered")
		}
		s.logger.Error("create user failed", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.UserID), zap.String("role", user.Role))
	return toUserResponse(user), nil
}

func (s *catalogService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, actor Actor) (*dto.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureUserUnique(ctx, "", email, user.UserID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	user.Touch(actor.UserID)

	if err := s.repo.User.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, pkgerrors.DuplicateKey("email %s is already registered", user.Email)
		}
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("update user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *catalogService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *catalogService) ListUsers(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if err := dto.Validate(req); err != nil {
		return nil, 0, err
	}
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:       req.Role,
		ActiveOnly: req.ActiveOnly,
		Keyword:    req.Keyword,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *catalogService) ImportUsers(ctx context.Context, rows []ImportUserRow, actor Actor) (*dto.ImportUsersResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	resp := &dto.ImportUsersResponse{Total: len(rows)}
	for _, row := range rows {
		req := &dto.CreateUserRequest{
			NationalID: row.NationalID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			Email:      row.Email,
			Role:       row.Role,
		}
		if _, err := s.CreateUser(ctx, req, actor); err != nil {
			if pkgerrors.KindOf(err) == "" {
				return nil, err
			}
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row.Row, Reason: pkgerrors.MessageOf(err)})
			continue
		}
		resp.Created++
	}

	s.logger.Info("users imported",
		zap.Int("total", resp.Total),
		zap.Int("created", resp.Created),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *catalogService) ensureUserUnique(ctx context.Context, nationalID, email, exceptID string) error {
	if nationalID != "" {
		existing, err := s.repo.User.GetByNationalID(ctx, nationalID)
		if err == nil && existing.UserID != exceptID {
			return pkgerrors.DuplicateKey("national id %s is already registered", nationalID)
		}
		if err != nil && !isNotFound(err) {
			s.logger.Error("check national id failed", zap.Error(err))
			return fmt.Errorf("check national id: %w", err)
		}
	}
	if email != "" {
		existing, err := s.repo.User.GetByEmail(ctx, email)
		if err == nil && existing.UserID != exceptID {
			return pkgerrors.DuplicateKey("email %s is already registered", email)
		}
		if err != nil && !isNotFound(err) {
			s.logger.Error("check email failed", zap.Error(err))
			return fmt.Errorf("check email: %w", err)
		}
	}
	return nil
}

// ── loaders ──

func (s *catalogService) loadCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("course %s does not exist", id)
		}
		s.logger.Error("load course failed", zap.String("course_id", id), zap.Error(err))
		return nil, fmt.Errorf("load course: %w", err)
	}
	return course, nil
}

func (s *catalogService) loadCycle(ctx context.Context, id string) (*model.Cycle, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("cycle %s does not exist", id)
		}
		s.logger.Error("load cycle failed", zap.String("cycle_id", id), zap.Error(err))
		return nil, fmt.Errorf("load cycle: %w", err)
	}
	return cycle, nil
}

func (s *catalogService) loadUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NotFound("user %s does not exist", id)
		}
		s.logger.Error("load user failed", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
