package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gradebook/internal/model"
	"gradebook/internal/repository"
)

// ── in-memory store shared by the mock repositories ──

// memStore keeps copies of every row so services cannot mutate stored state without saving.
// fail injects an error for an operation key such as "Grade.Save".
type memStore struct {
	users             map[string]model.User
	courses           map[string]model.Course
	cycles            map[string]model.Cycle
	assignments       map[string]model.CourseAssignment
	courseEnrollments map[string]model.CourseEnrollment
	cycleEnrollments  map[string]model.CycleEnrollment
	grades            map[string]model.Grade

	activities   *mockScoreRepo[model.ActivityScore]
	practices    *mockScoreRepo[model.PracticeScore]
	partialExams *mockScoreRepo[model.PartialExamScore]

	fail  map[string]error
	clock time.Time
}

func newMockRepository() (*repository.Repository, *memStore) {
	st := &memStore{
		users:             make(map[string]model.User),
		courses:           make(map[string]model.Course),
		cycles:            make(map[string]model.Cycle),
		assignments:       make(map[string]model.CourseAssignment),
		courseEnrollments: make(map[string]model.CourseEnrollment),
		cycleEnrollments:  make(map[string]model.CycleEnrollment),
		grades:            make(map[string]model.Grade),
		fail:              make(map[string]error),
		clock:             time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	st.activities = newMockScoreRepo[model.ActivityScore](st, "Activity")
	st.practices = newMockScoreRepo[model.PracticeScore](st, "Practice")
	st.partialExams = newMockScoreRepo[model.PartialExamScore](st, "PartialExam")

	repo := &repository.Repository{
		User:             &mockUserRepo{st},
		Course:           &mockCourseRepo{st},
		Cycle:            &mockCycleRepo{st},
		Assignment:       &mockAssignmentRepo{st},
		CourseEnrollment: &mockCourseEnrollmentRepo{st},
		CycleEnrollment:  &mockCycleEnrollmentRepo{st},
		Activity:         st.activities,
		Practice:         st.practices,
		PartialExam:      st.partialExams,
		Grade:            &mockGradeRepo{st},
	}
	return repo, st
}

// tick returns a strictly increasing timestamp.
func (st *memStore) tick() time.Time {
	st.clock = st.clock.Add(time.Second)
	return st.clock
}

func (st *memStore) err(op string) error {
	return st.fail[op]
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// ── seed helpers ──

func (st *memStore) addUser(role, first, last string) *model.User {
	u := model.User{
		UserID:     uuid.New().String(),
		NationalID: uuid.New().String()[:8],
		FirstName:  first,
		LastName:   last,
		Email:      strings.ToLower(first+"."+last) + "@school.test",
		Role:       role,
		IsActive:   true,
	}
	st.users[u.UserID] = u
	return &u
}

func (st *memStore) addCycle(name string, order int) *model.Cycle {
	c := model.Cycle{CycleID: uuid.New().String(), Name: name, Year: 2026, Half: 1, Order: order, IsActive: true}
	st.cycles[c.CycleID] = c
	return &c
}

func (st *memStore) addCourse(code string, scheme string, partialCount int, cycleID *string) *model.Course {
	c := model.Course{
		CourseID:      uuid.New().String(),
		Name:          code + " course",
		Code:          code,
		Credits:       3,
		PartialCount:  partialCount,
		GradingScheme: scheme,
		CycleID:       cycleID,
		IsActive:      true,
	}
	st.courses[c.CourseID] = c
	return &c
}

func (st *memStore) assign(courseID, instructorID string) *model.CourseAssignment {
	a := model.CourseAssignment{AssignmentID: uuid.New().String(), CourseID: courseID, InstructorID: instructorID}
	st.assignments[a.AssignmentID] = a
	return &a
}

func (st *memStore) enroll(courseID, studentID string) *model.CourseEnrollment {
	e := model.CourseEnrollment{EnrollmentID: uuid.New().String(), CourseID: courseID, StudentID: studentID}
	st.courseEnrollments[e.EnrollmentID] = e
	return &e
}

func (st *memStore) activeEnrollment(studentID string) *model.CycleEnrollment {
	for _, e := range st.cycleEnrollments {
		if e.StudentID == studentID && e.State == model.EnrollmentActive {
			return &e
		}
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct{ st *memStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if err := m.st.err("User.Create"); err != nil {
		return err
	}
	for _, u := range m.st.users {
		if u.NationalID == user.NationalID || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.UserID = newID(user.UserID)
	user.CreatedAt = m.st.tick()
	m.st.users[user.UserID] = *user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.st.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByNationalID(_ context.Context, nationalID string) (*model.User, error) {
	for _, u := range m.st.users {
		if u.NationalID == nationalID {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if err := m.st.err("User.Update"); err != nil {
		return err
	}
	m.st.users[user.UserID] = *user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.st.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.st.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(u.FullName()+u.NationalID), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	total := int64(len(result))
	return paginate(result, offset, limit), total, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.st.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ st *memStore }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if err := m.st.err("Course.Create"); err != nil {
		return err
	}
	for _, c := range m.st.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	course.CourseID = newID(course.CourseID)
	course.CreatedAt = m.st.tick()
	stored := *course
	stored.Cycle = nil
	m.st.courses[course.CourseID] = stored
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.st.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c.CycleID != nil {
		if cy, ok := m.st.cycles[*c.CycleID]; ok {
			c.Cycle = &cy
		}
	}
	return &c, nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.st.courses {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if err := m.st.err("Course.Update"); err != nil {
		return err
	}
	stored := *course
	stored.Cycle = nil
	m.st.courses[course.CourseID] = stored
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if err := m.st.err("Course.Delete"); err != nil {
		return err
	}
	delete(m.st.courses, id)
	return nil
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	if err := m.st.err("Course.List"); err != nil {
		return nil, err
	}
	var result []model.Course
	for _, c := range m.st.courses {
		if filter.CycleID != "" && (c.CycleID == nil || *c.CycleID != filter.CycleID) {
			continue
		}
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockCourseRepo) CountByCycle(_ context.Context, cycleID string) (int64, error) {
	var n int64
	for _, c := range m.st.courses {
		if c.CycleID != nil && *c.CycleID == cycleID {
			n++
		}
	}
	return n, nil
}

func (m *mockCourseRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, c := range m.st.courses {
		if !activeOnly || c.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock CycleRepository ──

type mockCycleRepo struct{ st *memStore }

func (m *mockCycleRepo) Create(_ context.Context, cycle *model.Cycle) error {
	if err := m.st.err("Cycle.Create"); err != nil {
		return err
	}
	for _, c := range m.st.cycles {
		if c.Order == cycle.Order {
			return gorm.ErrDuplicatedKey
		}
	}
	cycle.CycleID = newID(cycle.CycleID)
	cycle.CreatedAt = m.st.tick()
	m.st.cycles[cycle.CycleID] = *cycle
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.Cycle, error) {
	if c, ok := m.st.cycles[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) Update(_ context.Context, cycle *model.Cycle) error {
	m.st.cycles[cycle.CycleID] = *cycle
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id string) error {
	delete(m.st.cycles, id)
	return nil
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.Cycle, error) {
	var result []model.Cycle
	for _, c := range m.st.cycles {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (m *mockCycleRepo) MaxOrder(_ context.Context) (int, error) {
	highest := 0
	for _, c := range m.st.cycles {
		if c.Order > highest {
			highest = c.Order
		}
	}
	return highest, nil
}

func (m *mockCycleRepo) ExistsOrder(_ context.Context, order int) (bool, error) {
	for _, c := range m.st.cycles {
		if c.Order == order {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCycleRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, c := range m.st.cycles {
		if !activeOnly || c.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ st *memStore }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.CourseAssignment) error {
	for _, x := range m.st.assignments {
		if x.CourseID == a.CourseID && x.InstructorID == a.InstructorID {
			return gorm.ErrDuplicatedKey
		}
	}
	a.AssignmentID = newID(a.AssignmentID)
	stored := *a
	stored.Course, stored.Instructor = nil, nil
	m.st.assignments[a.AssignmentID] = stored
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.CourseAssignment, error) {
	if a, ok := m.st.assignments[id]; ok {
		return &a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByPair(_ context.Context, courseID, instructorID string) (*model.CourseAssignment, error) {
	for _, a := range m.st.assignments {
		if a.CourseID == courseID && a.InstructorID == instructorID {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.st.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) list(match func(a model.CourseAssignment) bool) []model.CourseAssignment {
	var result []model.CourseAssignment
	for _, a := range m.st.assignments {
		if match(a) {
			if c, ok := m.st.courses[a.CourseID]; ok {
				a.Course = &c
			}
			if u, ok := m.st.users[a.InstructorID]; ok {
				a.Instructor = &u
			}
			result = append(result, a)
		}
	}
	return result
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseAssignment, error) {
	return m.list(func(a model.CourseAssignment) bool { return a.CourseID == courseID }), nil
}

func (m *mockAssignmentRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.CourseAssignment, error) {
	return m.list(func(a model.CourseAssignment) bool { return a.InstructorID == instructorID }), nil
}

func (m *mockAssignmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	return int64(len(m.list(func(a model.CourseAssignment) bool { return a.CourseID == courseID }))), nil
}

func (m *mockAssignmentRepo) CountByInstructor(_ context.Context, instructorID string) (int64, error) {
	return int64(len(m.list(func(a model.CourseAssignment) bool { return a.InstructorID == instructorID }))), nil
}

// ── Mock CourseEnrollmentRepository ──

type mockCourseEnrollmentRepo struct{ st *memStore }

func (m *mockCourseEnrollmentRepo) CreateIfMissing(_ context.Context, e *model.CourseEnrollment) (bool, error) {
	if err := m.st.err("CourseEnrollment.CreateIfMissing"); err != nil {
		return false, err
	}
	for _, x := range m.st.courseEnrollments {
		if x.CourseID == e.CourseID && x.StudentID == e.StudentID {
			return false, nil
		}
	}
	e.EnrollmentID = newID(e.EnrollmentID)
	stored := *e
	stored.Course, stored.Student = nil, nil
	m.st.courseEnrollments[e.EnrollmentID] = stored
	return true, nil
}

func (m *mockCourseEnrollmentRepo) GetByPair(_ context.Context, courseID, studentID string) (*model.CourseEnrollment, error) {
	for _, e := range m.st.courseEnrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseEnrollmentRepo) Delete(_ context.Context, id string) error {
	delete(m.st.courseEnrollments, id)
	return nil
}

func (m *mockCourseEnrollmentRepo) list(match func(e model.CourseEnrollment) bool) []model.CourseEnrollment {
	var result []model.CourseEnrollment
	for _, e := range m.st.courseEnrollments {
		if match(e) {
			result = append(result, e)
		}
	}
	return result
}

func (m *mockCourseEnrollmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseEnrollment, error) {
	return m.list(func(e model.CourseEnrollment) bool { return e.CourseID == courseID }), nil
}

func (m *mockCourseEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.CourseEnrollment, error) {
	return m.list(func(e model.CourseEnrollment) bool { return e.StudentID == studentID }), nil
}

func (m *mockCourseEnrollmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	return int64(len(m.list(func(e model.CourseEnrollment) bool { return e.CourseID == courseID }))), nil
}

func (m *mockCourseEnrollmentRepo) CountByStudent(_ context.Context, studentID string) (int64, error) {
	return int64(len(m.list(func(e model.CourseEnrollment) bool { return e.StudentID == studentID }))), nil
}

func (m *mockCourseEnrollmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.st.courseEnrollments)), nil
}

// ── Mock CycleEnrollmentRepository ──

type mockCycleEnrollmentRepo struct{ st *memStore }

func (m *mockCycleEnrollmentRepo) Create(_ context.Context, e *model.CycleEnrollment) error {
	if err := m.st.err("CycleEnrollment.Create"); err != nil {
		return err
	}
	if e.State == model.EnrollmentActive && m.st.activeEnrollment(e.StudentID) != nil {
		return gorm.ErrDuplicatedKey
	}
	e.EnrollmentID = newID(e.EnrollmentID)
	stored := *e
	stored.Cycle, stored.Student = nil, nil
	m.st.cycleEnrollments[e.EnrollmentID] = stored
	return nil
}

func (m *mockCycleEnrollmentRepo) GetActiveByStudent(_ context.Context, studentID string) (*model.CycleEnrollment, error) {
	if e := m.st.activeEnrollment(studentID); e != nil {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleEnrollmentRepo) Update(_ context.Context, e *model.CycleEnrollment) error {
	if err := m.st.err("CycleEnrollment.Update"); err != nil {
		return err
	}
	stored := *e
	stored.Cycle, stored.Student = nil, nil
	m.st.cycleEnrollments[e.EnrollmentID] = stored
	return nil
}

func (m *mockCycleEnrollmentRepo) List(_ context.Context, filter repository.CycleEnrollmentFilter) ([]model.CycleEnrollment, error) {
	var result []model.CycleEnrollment
	for _, e := range m.st.cycleEnrollments {
		if filter.CycleID != "" && e.CycleID != filter.CycleID {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.State != "" && e.State != filter.State {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockCycleEnrollmentRepo) CountByCycle(ctx context.Context, cycleID string) (int64, error) {
	list, _ := m.List(ctx, repository.CycleEnrollmentFilter{CycleID: cycleID})
	return int64(len(list)), nil
}

func (m *mockCycleEnrollmentRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	list, _ := m.List(ctx, repository.CycleEnrollmentFilter{StudentID: studentID})
	return int64(len(list)), nil
}

func (m *mockCycleEnrollmentRepo) CountActive(ctx context.Context) (int64, error) {
	list, _ := m.List(ctx, repository.CycleEnrollmentFilter{State: model.EnrollmentActive})
	return int64(len(list)), nil
}

// ── Mock ScoreRepository (one per category table) ──

type mockScoreRepo[T repository.ScoreRow] struct {
	st   *memStore
	name string
	rows map[string]T
}

func newMockScoreRepo[T repository.ScoreRow](st *memStore, name string) *mockScoreRepo[T] {
	return &mockScoreRepo[T]{st: st, name: name, rows: make(map[string]T)}
}

func categoryOf[T repository.ScoreRow](row *T) *model.CategoryScore {
	switch v := any(row).(type) {
	case *model.ActivityScore:
		return &v.CategoryScore
	case *model.PracticeScore:
		return &v.CategoryScore
	case *model.PartialExamScore:
		return &v.CategoryScore
	}
	panic("unknown score row type")
}

// seed stores row as is, keeping its UpdatedAt.
func (m *mockScoreRepo[T]) seed(row T) {
	m.rows[categoryOf(&row).ID] = row
}

func (m *mockScoreRepo[T]) forPair(courseID, studentID string) []T {
	var result []T
	for _, r := range m.rows {
		c := categoryOf(&r)
		if c.CourseID == courseID && c.StudentID == studentID {
			result = append(result, r)
		}
	}
	return result
}

func (m *mockScoreRepo[T]) GetByID(_ context.Context, id string) (*T, error) {
	if err := m.st.err(m.name + ".GetByID"); err != nil {
		return nil, err
	}
	if r, ok := m.rows[id]; ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScoreRepo[T]) LatestByCourseStudent(_ context.Context, courseID, studentID string) (*T, error) {
	var latest *T
	for _, r := range m.forPair(courseID, studentID) {
		r := r
		if latest == nil || categoryOf(&r).UpdatedAt.After(categoryOf(latest).UpdatedAt) {
			latest = &r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockScoreRepo[T]) Save(_ context.Context, row *T) error {
	if err := m.st.err(m.name + ".Save"); err != nil {
		return err
	}
	c := categoryOf(row)
	for _, r := range m.forPair(c.CourseID, c.StudentID) {
		if categoryOf(&r).ID != c.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	now := m.st.tick()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	m.rows[c.ID] = *row
	return nil
}

func (m *mockScoreRepo[T]) DeleteByCourseStudent(_ context.Context, courseID, studentID string) error {
	for id, r := range m.rows {
		c := categoryOf(&r)
		if c.CourseID == courseID && c.StudentID == studentID {
			delete(m.rows, id)
		}
	}
	return nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct{ st *memStore }

func (m *mockGradeRepo) Save(_ context.Context, g *model.Grade) error {
	if err := m.st.err("Grade.Save"); err != nil {
		return err
	}
	for _, x := range m.st.grades {
		if x.CourseID == g.CourseID && x.StudentID == g.StudentID && x.GradeID != g.GradeID {
			return gorm.ErrDuplicatedKey
		}
	}
	now := m.st.tick()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	stored := *g
	stored.Course, stored.Student, stored.Instructor = nil, nil, nil
	m.st.grades[g.GradeID] = stored
	return nil
}

// withAssocs fills the preloaded associations the gorm repository returns.
func (m *mockGradeRepo) withAssocs(g model.Grade) model.Grade {
	if c, ok := m.st.courses[g.CourseID]; ok {
		if c.CycleID != nil {
			if cy, ok := m.st.cycles[*c.CycleID]; ok {
				c.Cycle = &cy
			}
		}
		g.Course = &c
	}
	if u, ok := m.st.users[g.StudentID]; ok {
		g.Student = &u
	}
	if u, ok := m.st.users[g.InstructorID]; ok {
		g.Instructor = &u
	}
	return g
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	g, ok := m.st.grades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	g = m.withAssocs(g)
	return &g, nil
}

func (m *mockGradeRepo) GetByCourseStudent(_ context.Context, courseID, studentID string) (*model.Grade, error) {
	if err := m.st.err("Grade.GetByCourseStudent"); err != nil {
		return nil, err
	}
	for _, g := range m.st.grades {
		if g.CourseID == courseID && g.StudentID == studentID {
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.st.grades, id)
	return nil
}

func (m *mockGradeRepo) match(filter repository.GradeFilter) []model.Grade {
	var result []model.Grade
	for _, g := range m.st.grades {
		if filter.CycleID != "" {
			c, ok := m.st.courses[g.CourseID]
			if !ok || c.CycleID == nil || *c.CycleID != filter.CycleID {
				continue
			}
		}
		if filter.CourseID != "" && g.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && g.StudentID != filter.StudentID {
			continue
		}
		if filter.InstructorID != "" && g.InstructorID != filter.InstructorID {
			continue
		}
		if filter.State != "" && g.State != filter.State {
			continue
		}
		result = append(result, m.withAssocs(g))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result
}

func (m *mockGradeRepo) List(_ context.Context, filter repository.GradeFilter, offset, limit int) ([]model.Grade, int64, error) {
	if err := m.st.err("Grade.List"); err != nil {
		return nil, 0, err
	}
	result := m.match(filter)
	total := int64(len(result))
	return paginate(result, offset, limit), total, nil
}

func (m *mockGradeRepo) ListByCourse(_ context.Context, courseID string) ([]model.Grade, error) {
	return m.match(repository.GradeFilter{CourseID: courseID}), nil
}

func (m *mockGradeRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{CourseID: courseID}))), nil
}

func (m *mockGradeRepo) CountByStudent(_ context.Context, studentID string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{StudentID: studentID}))), nil
}

func (m *mockGradeRepo) CountByInstructor(_ context.Context, instructorID string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{InstructorID: instructorID}))), nil
}

func (m *mockGradeRepo) CountByInstructorCourse(_ context.Context, instructorID, courseID string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{InstructorID: instructorID, CourseID: courseID}))), nil
}

func (m *mockGradeRepo) CountByCycle(_ context.Context, cycleID string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{CycleID: cycleID}))), nil
}

func (m *mockGradeRepo) CountByState(_ context.Context, state string) (int64, error) {
	return int64(len(m.match(repository.GradeFilter{State: state}))), nil
}
