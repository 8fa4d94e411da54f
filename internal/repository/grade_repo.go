package repository

import (
	"context"

	"gorm.io/gorm"

	"gradebook/internal/model"
)

// GradeFilter list filter for grades
type GradeFilter struct {
	CycleID      string
	CourseID     string
	StudentID    string
	InstructorID string
	State        string
}

// GradeRepository final grade data access
type GradeRepository interface {
	// Save inserts or overwrites the row by primary key.
	Save(ctx context.Context, g *model.Grade) error
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	GetByCourseStudent(ctx context.Context, courseID, studentID string) (*model.Grade, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter GradeFilter, offset, limit int) ([]model.Grade, int64, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	CountByInstructor(ctx context.Context, instructorID string) (int64, error)
	CountByInstructorCourse(ctx context.Context, instructorID, courseID string) (int64, error)
	CountByCycle(ctx context.Context, cycleID string) (int64, error)
	CountByState(ctx context.Context, state string) (int64, error)
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo creates a GradeRepository
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Save(ctx context.Context, g *model.Grade) error {
	return r.db.WithContext(ctx).
		Omit("Course", "Student", "Instructor").
		Save(g).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var g model.Grade
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Student").
		Preload("Instructor").
		Where("grade_id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) GetByCourseStudent(ctx context.Context, courseID, studentID string) (*model.Grade, error) {
	var g model.Grade
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.Grade{}).Error
}

func (r *gradeRepo) List(ctx context.Context, filter GradeFilter, offset, limit int) ([]model.Grade, int64, error) {
	var grades []model.Grade
	var total int64

	db := r.filtered(ctx, filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filtered(ctx, filter).
		Preload("Course").
		Preload("Course.Cycle").
		Preload("Student").
		Preload("Instructor").
		Order("grades.updated_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&grades).Error; err != nil {
		return nil, 0, err
	}

	return grades, total, nil
}

func (r *gradeRepo) filtered(ctx context.Context, filter GradeFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Grade{})
	if filter.CycleID != "" {
		db = db.Joins("JOIN courses ON courses.course_id = grades.course_id").
			Where("courses.cycle_id = ?", filter.CycleID)
	}
	if filter.CourseID != "" {
		db = db.Where("grades.course_id = ?", filter.CourseID)
	}
	if filter.StudentID != "" {
		db = db.Where("grades.student_id = ?", filter.StudentID)
	}
	if filter.InstructorID != "" {
		db = db.Where("grades.instructor_id = ?", filter.InstructorID)
	}
	if filter.State != "" {
		db = db.Where("grades.state = ?", filter.State)
	}
	return db
}

func (r *gradeRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("updated_at DESC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	return r.count(ctx, "course_id = ?", courseID)
}

func (r *gradeRepo) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	return r.count(ctx, "student_id = ?", studentID)
}

func (r *gradeRepo) CountByInstructor(ctx context.Context, instructorID string) (int64, error) {
	return r.count(ctx, "instructor_id = ?", instructorID)
}

func (r *gradeRepo) CountByInstructorCourse(ctx context.Context, instructorID, courseID string) (int64, error) {
	return r.count(ctx, "instructor_id = ? AND course_id = ?", instructorID, courseID)
}

func (r *gradeRepo) CountByState(ctx context.Context, state string) (int64, error) {
	return r.count(ctx, "state = ?", state)
}

// CountByCycle counts grades of every course linked to the cycle.
func (r *gradeRepo) CountByCycle(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Joins("JOIN courses ON courses.course_id = grades.course_id").
		Where("courses.cycle_id = ?", cycleID).
		Count(&count).Error
	return count, err
}

func (r *gradeRepo) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Where(query, args...).
		Count(&count).Error
	return count, err
}
