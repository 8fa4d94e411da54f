package repository

import (
	"context"

	"gorm.io/gorm"

	"gradebook/internal/model"
)

// Repository aggregates every repository.
type Repository struct {
	db *gorm.DB

	User             UserRepository
	Course           CourseRepository
	Cycle            CycleRepository
	Assignment       AssignmentRepository
	CourseEnrollment CourseEnrollmentRepository
	CycleEnrollment  CycleEnrollmentRepository
	Activity         ScoreRepository[model.ActivityScore]
	Practice         ScoreRepository[model.PracticeScore]
	PartialExam      ScoreRepository[model.PartialExamScore]
	Grade            GradeRepository
}

// NewRepository wires every repository on the same connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		User:             NewUserRepo(db),
		Course:           NewCourseRepo(db),
		Cycle:            NewCycleRepo(db),
		Assignment:       NewAssignmentRepo(db),
		CourseEnrollment: NewCourseEnrollmentRepo(db),
		CycleEnrollment:  NewCycleEnrollmentRepo(db),
		Activity:         NewScoreRepo[model.ActivityScore](db),
		Practice:         NewScoreRepo[model.PracticeScore](db),
		PartialExam:      NewScoreRepo[model.PartialExamScore](db),
		Grade:            NewGradeRepo(db),
	}
}

// BeginTx starts a transaction. Returns a nil tx when the aggregate has no connection (in-memory test repos).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate whose repositories run on tx. A nil tx returns r unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// RunInTx runs fn inside one transaction and commits when it returns nil.
// Any error or panic from fn rolls back.
func (r *Repository) RunInTx(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return err
		}
	}
	return nil
}
