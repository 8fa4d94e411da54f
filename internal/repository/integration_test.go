//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gradebook/internal/grading"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var (
	testDB *gorm.DB
	seq    atomic.Int64
)

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=gradebook password=gradebook dbname=gradebook_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	// the schema (partial unique index included) comes from the real migrations
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	seq.Store(time.Now().UnixNano() % 1_000_000)
	code := m.Run()
	os.Exit(code)
}

type fixture struct {
	student *model.User
	cycleX  *model.Cycle
	cycleY  *model.Cycle
	course  *model.Course
}

// setupTestData one student, two cycles and a course in the first cycle. Rows are removed on cleanup.
func setupTestData(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	n := seq.Add(10)

	f := &fixture{
		student: &model.User{
			NationalID: fmt.Sprintf("%08d", n),
			FirstName:  "Sofia",
			LastName:   "Quispe",
			Email:      fmt.Sprintf("student%d@school.test", n),
			Role:       model.RoleStudent,
			IsActive:   true,
		},
		cycleX: &model.Cycle{Name: fmt.Sprintf("X-%d", n), Year: 2026, Half: 1, Order: int(n), IsActive: true},
		cycleY: &model.Cycle{Name: fmt.Sprintf("Y-%d", n), Year: 2026, Half: 2, Order: int(n) + 1, IsActive: true},
	}
	for _, row := range []interface{}{f.student, f.cycleX, f.cycleY} {
		if err := testDB.WithContext(ctx).Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
	f.course = &model.Course{
		Name:          "Algebra",
		Code:          fmt.Sprintf("C%d", n),
		Credits:       3,
		PartialCount:  3,
		GradingScheme: string(grading.SchemeCategory),
		CycleID:       &f.cycleX.CycleID,
		IsActive:      true,
	}
	if err := testDB.WithContext(ctx).Create(f.course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	t.Cleanup(func() {
		testDB.Where("student_id = ?", f.student.UserID).Delete(&model.Grade{})
		testDB.Where("student_id = ?", f.student.UserID).Delete(&model.ActivityScore{})
		testDB.Where("student_id = ?", f.student.UserID).Delete(&model.CourseEnrollment{})
		testDB.Where("student_id = ?", f.student.UserID).Delete(&model.CycleEnrollment{})
		testDB.Where("course_id = ?", f.course.CourseID).Delete(&model.Course{})
		testDB.Where("cycle_id IN ?", []string{f.cycleX.CycleID, f.cycleY.CycleID}).Delete(&model.Cycle{})
		testDB.Where("user_id = ?", f.student.UserID).Delete(&model.User{})
	})
	return f
}

// ═══════════════════════════════════════════════════════════
// Test: at most one active cycle enrollment per student
// ═══════════════════════════════════════════════════════════

func TestCycleEnrollment_PartialUniqueActive(t *testing.T) {
	f := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.CycleEnrollment{StudentID: f.student.UserID, CycleID: f.cycleX.CycleID, State: model.EnrollmentActive}
	if err := repo.CycleEnrollment.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := &model.CycleEnrollment{StudentID: f.student.UserID, CycleID: f.cycleY.CycleID, State: model.EnrollmentActive}
	err := repo.CycleEnrollment.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey for a second active row, got %v", err)
	}

	// a suspended row does not count
	first.State = model.EnrollmentSuspended
	if err := repo.CycleEnrollment.Update(ctx, first); err != nil {
		t.Fatalf("suspend first: %v", err)
	}
	second.EnrollmentID = ""
	if err := repo.CycleEnrollment.Create(ctx, second); err != nil {
		t.Fatalf("create after suspend: %v", err)
	}

	active, err := repo.CycleEnrollment.GetActiveByStudent(ctx, f.student.UserID)
	if err != nil {
		t.Fatalf("GetActiveByStudent: %v", err)
	}
	if active.CycleID != f.cycleY.CycleID {
		t.Errorf("expected active cycle %s, got %s", f.cycleY.CycleID, active.CycleID)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: CreateIfMissing is idempotent
// ═══════════════════════════════════════════════════════════

func TestCourseEnrollment_CreateIfMissing(t *testing.T) {
	f := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	created, err := repo.CourseEnrollment.CreateIfMissing(ctx, &model.CourseEnrollment{CourseID: f.course.CourseID, StudentID: f.student.UserID})
	if err != nil || !created {
		t.Fatalf("first CreateIfMissing: created=%v err=%v", created, err)
	}

	created, err = repo.CourseEnrollment.CreateIfMissing(ctx, &model.CourseEnrollment{CourseID: f.course.CourseID, StudentID: f.student.UserID})
	if err != nil {
		t.Fatalf("second CreateIfMissing: %v", err)
	}
	if created {
		t.Error("second CreateIfMissing must not insert")
	}

	n, err := repo.CourseEnrollment.CountByStudent(ctx, f.student.UserID)
	if err != nil {
		t.Fatalf("CountByStudent: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 course enrollment, got %d", n)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: RunInTx rollback / commit
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	f := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	boom := errors.New("grade write failed")
	err := repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		row := &model.ActivityScore{CategoryScore: model.CategoryScore{
			ID:           uuid.New().String(),
			CourseID:     f.course.CourseID,
			StudentID:    f.student.UserID,
			InstructorID: f.student.UserID,
			State:        model.StateDraft,
		}}
		row.SetItems(grading.ActivityItems{15, 16, 0, 18})
		if err := txRepo.Activity.Save(ctx, row); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	_, err = repo.Activity.LatestByCourseStudent(ctx, f.course.CourseID, f.student.UserID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected no activity row after rollback, got %v", err)
	}
}

func TestTransaction_Commit(t *testing.T) {
	f := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	activityID := uuid.New().String()
	err := repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		row := &model.ActivityScore{CategoryScore: model.CategoryScore{
			ID:           activityID,
			CourseID:     f.course.CourseID,
			StudentID:    f.student.UserID,
			InstructorID: f.student.UserID,
			State:        model.StateDraft,
		}}
		row.SetItems(grading.ActivityItems{15, 16, 0, 18})
		if err := txRepo.Activity.Save(ctx, row); err != nil {
			return err
		}
		return txRepo.Grade.Save(ctx, &model.Grade{
			GradeID:         uuid.New().String(),
			CourseID:        f.course.CourseID,
			StudentID:       f.student.UserID,
			InstructorID:    f.student.UserID,
			ActivityID:      &activityID,
			ActivityAverage: row.Average,
			State:           model.StateDraft,
		})
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	got, err := repo.Activity.GetByID(ctx, activityID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if items := got.Items(); items != (grading.ActivityItems{15, 16, 0, 18}) {
		t.Errorf("slots did not round-trip: %v", items)
	}
	if got.Average != 49.0/3.0 {
		t.Errorf("expected stored average %v, got %v", 49.0/3.0, got.Average)
	}

	grade, err := repo.Grade.GetByCourseStudent(ctx, f.course.CourseID, f.student.UserID)
	if err != nil {
		t.Fatalf("GetByCourseStudent: %v", err)
	}
	if grade.ActivityID == nil || *grade.ActivityID != activityID {
		t.Errorf("grade does not reference the activity row")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: unique constraints surface as ErrDuplicatedKey
// ═══════════════════════════════════════════════════════════

func TestUniqueConstraints(t *testing.T) {
	f := setupTestData(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	dupCourse := &model.Course{Name: "Copy", Code: f.course.Code, Credits: 3, PartialCount: 3, GradingScheme: "category"}
	if err := repo.Course.Create(ctx, dupCourse); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("course code: expected ErrDuplicatedKey, got %v", err)
	}

	dupCycle := &model.Cycle{Name: "Copy", Year: 2026, Half: 1, Order: f.cycleX.Order}
	if err := repo.Cycle.Create(ctx, dupCycle); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("cycle order: expected ErrDuplicatedKey, got %v", err)
	}

	dupUser := &model.User{NationalID: f.student.NationalID, FirstName: "A", LastName: "B", Email: "other@school.test", Role: model.RoleStudent}
	if err := repo.User.Create(ctx, dupUser); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("national id: expected ErrDuplicatedKey, got %v", err)
	}
}
