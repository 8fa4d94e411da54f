package repository

import (
	"context"

	"gorm.io/gorm"

	"gradebook/internal/model"
)

// ScoreRow is any of the three category score tables.
type ScoreRow interface {
	model.ActivityScore | model.PracticeScore | model.PartialExamScore
}

// ScoreRepository category score data access, one instance per category table
type ScoreRepository[T ScoreRow] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	// LatestByCourseStudent returns the most recently updated row for (course, student).
	LatestByCourseStudent(ctx context.Context, courseID, studentID string) (*T, error)
	// Save inserts or overwrites the row by primary key.
	Save(ctx context.Context, row *T) error
	DeleteByCourseStudent(ctx context.Context, courseID, studentID string) error
}

type scoreRepo[T ScoreRow] struct {
	db *gorm.DB
}

// NewScoreRepo creates a ScoreRepository for table T
func NewScoreRepo[T ScoreRow](db *gorm.DB) ScoreRepository[T] {
	return &scoreRepo[T]{db: db}
}

func (r *scoreRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepo[T]) LatestByCourseStudent(ctx context.Context, courseID, studentID string) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("updated_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepo[T]) Save(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *scoreRepo[T]) DeleteByCourseStudent(ctx context.Context, courseID, studentID string) error {
	var row T
	return r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&row).Error
}
