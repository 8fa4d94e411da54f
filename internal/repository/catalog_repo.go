package repository

import (
	"context"

	"gorm.io/gorm"

	"gradebook/internal/model"
)

// CourseFilter list filter for courses
type CourseFilter struct {
	CycleID    string
	ActiveOnly bool
}

// CourseRepository course data access
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	CountByCycle(ctx context.Context, cycleID string) (int64, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// CycleRepository academic cycle data access
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.Cycle) error
	GetByID(ctx context.Context, id string) (*model.Cycle, error)
	Update(ctx context.Context, cycle *model.Cycle) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Cycle, error)
	MaxOrder(ctx context.Context) (int, error)
	ExistsOrder(ctx context.Context, order int) (bool, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// ── Course ──

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Cycle").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit("Cycle").Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	var courses []model.Course
	db := r.db.WithContext(ctx).Preload("Cycle")
	if filter.CycleID != "" {
		db = db.Where("cycle_id = ?", filter.CycleID)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("code ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) CountByCycle(ctx context.Context, cycleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("cycle_id = ?", cycleID).
		Count(&count).Error
	return count, err
}

func (r *courseRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Course{})
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Count(&count).Error
	return count, err
}

// ── Cycle ──

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo creates a CycleRepository
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id string) (*model.Cycle, error) {
	var cycle model.Cycle
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

func (r *cycleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("cycle_id = ?", id).
		Delete(&model.Cycle{}).Error
}

func (r *cycleRepo) List(ctx context.Context) ([]model.Cycle, error) {
	var cycles []model.Cycle
	err := r.db.WithContext(ctx).
		Order("cycle_order ASC").
		Find(&cycles).Error
	return cycles, err
}

// MaxOrder returns the highest cycle_order, 0 when there are no cycles.
func (r *cycleRepo) MaxOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Cycle{}).
		Select("COALESCE(MAX(cycle_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *cycleRepo) ExistsOrder(ctx context.Context, order int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Cycle{}).
		Where("cycle_order = ?", order).
		Count(&count).Error
	return count > 0, err
}

func (r *cycleRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Cycle{})
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Count(&count).Error
	return count, err
}
