package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gradebook/internal/model"
)

// AssignmentRepository instructor ↔ course data access
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.CourseAssignment) error
	GetByID(ctx context.Context, id string) (*model.CourseAssignment, error)
	GetByPair(ctx context.Context, courseID, instructorID string) (*model.CourseAssignment, error)
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseAssignment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.CourseAssignment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	CountByInstructor(ctx context.Context, instructorID string) (int64, error)
}

// CourseEnrollmentRepository student ↔ course data access
type CourseEnrollmentRepository interface {
	// CreateIfMissing inserts (course, student) unless it already exists. Reports whether a row was created.
	CreateIfMissing(ctx context.Context, e *model.CourseEnrollment) (bool, error)
	GetByPair(ctx context.Context, courseID, studentID string) (*model.CourseEnrollment, error)
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseEnrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.CourseEnrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// CycleEnrollmentFilter list filter for cycle enrollments
type CycleEnrollmentFilter struct {
	CycleID   string
	StudentID string
	State     string
}

// CycleEnrollmentRepository student ↔ cycle data access
type CycleEnrollmentRepository interface {
	Create(ctx context.Context, e *model.CycleEnrollment) error
	GetActiveByStudent(ctx context.Context, studentID string) (*model.CycleEnrollment, error)
	Update(ctx context.Context, e *model.CycleEnrollment) error
	List(ctx context.Context, filter CycleEnrollmentFilter) ([]model.CycleEnrollment, error)
	CountByCycle(ctx context.Context, cycleID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// ── CourseAssignment ──

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.CourseAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.CourseAssignment, error) {
	var a model.CourseAssignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) GetByPair(ctx context.Context, courseID, instructorID string) (*model.CourseAssignment, error) {
	var a model.CourseAssignment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND instructor_id = ?", courseID, instructorID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.CourseAssignment{}).Error
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseAssignment, error) {
	var list []model.CourseAssignment
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("course_id = ?", courseID).
		Order("assigned_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.CourseAssignment, error) {
	var list []model.CourseAssignment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("instructor_id = ?", instructorID).
		Order("assigned_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseAssignment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) CountByInstructor(ctx context.Context, instructorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseAssignment{}).
		Where("instructor_id = ?", instructorID).
		Count(&count).Error
	return count, err
}

// ── CourseEnrollment ──

type courseEnrollmentRepo struct {
	db *gorm.DB
}

// NewCourseEnrollmentRepo creates a CourseEnrollmentRepository
func NewCourseEnrollmentRepo(db *gorm.DB) CourseEnrollmentRepository {
	return &courseEnrollmentRepo{db: db}
}

func (r *courseEnrollmentRepo) CreateIfMissing(ctx context.Context, e *model.CourseEnrollment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *courseEnrollmentRepo) GetByPair(ctx context.Context, courseID, studentID string) (*model.CourseEnrollment, error) {
	var e model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *courseEnrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.CourseEnrollment{}).Error
}

func (r *courseEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseEnrollment, error) {
	var list []model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *courseEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.CourseEnrollment, error) {
	var list []model.CourseEnrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *courseEnrollmentRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *courseEnrollmentRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseEnrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *courseEnrollmentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseEnrollment{}).Count(&count).Error
	return count, err
}

// ── CycleEnrollment ──

type cycleEnrollmentRepo struct {
	db *gorm.DB
}

// NewCycleEnrollmentRepo creates a CycleEnrollmentRepository
func NewCycleEnrollmentRepo(db *gorm.DB) CycleEnrollmentRepository {
	return &cycleEnrollmentRepo{db: db}
}

func (r *cycleEnrollmentRepo) Create(ctx context.Context, e *model.CycleEnrollment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// GetActiveByStudent locks the row so concurrent enrollment changes for the student serialise.
func (r *cycleEnrollmentRepo) GetActiveByStudent(ctx context.Context, studentID string) (*model.CycleEnrollment, error) {
	var e model.CycleEnrollment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND state = ?", studentID, model.EnrollmentActive).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *cycleEnrollmentRepo) Update(ctx context.Context, e *model.CycleEnrollment) error {
	return r.db.WithContext(ctx).Omit("Cycle", "Student").Save(e).Error
}

func (r *cycleEnrollmentRepo) List(ctx context.Context, filter CycleEnrollmentFilter) ([]model.CycleEnrollment, error) {
	var list []model.CycleEnrollment
	db := r.db.WithContext(ctx).Preload("Cycle").Preload("Student")
	if filter.CycleID != "" {
		db = db.Where("cycle_id = ?", filter.CycleID)
	}
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.State != "" {
		db = db.Where("state = ?", filter.State)
	}
	err := db.Order("enrolled_at DESC").Find(&list).Error
	return list, err
}

func (r *cycleEnrollmentRepo) CountByCycle(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CycleEnrollment{}).
		Where("cycle_id = ?", cycleID).
		Count(&count).Error
	return count, err
}

func (r *cycleEnrollmentRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CycleEnrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *cycleEnrollmentRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CycleEnrollment{}).
		Where("state = ?", model.EnrollmentActive).
		Count(&count).Error
	return count, err
}
