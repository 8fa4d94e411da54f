package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gradebook/internal/dto"
	"gradebook/internal/grading"
	"gradebook/internal/model"
	pkgerrors "gradebook/pkg/errors"
)

func setupCatalogService(t *testing.T) (CatalogService, *memStore, Actor) {
	t.Helper()
	repo, st := newMockRepository()
	admin := st.addUser(model.RoleAdmin, "Ana", "Admin")
	return NewCatalogService(repo, zap.NewNop()), st, Actor{UserID: admin.UserID, Role: model.RoleAdmin}
}

// ── Courses ──

func TestCatalogService_CreateCourse_Defaults(t *testing.T) {
	svc, _, admin := setupCatalogService(t)

	resp, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Name: "Algebra", Code: "mat101"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "MAT101", resp.Code)
	assert.Equal(t, 3, resp.Credits)
	assert.Equal(t, 3, resp.PartialCount)
	assert.Equal(t, "category", resp.GradingScheme)
	assert.True(t, resp.IsActive)
}

func TestCatalogService_CreateCourse_DuplicateCode(t *testing.T) {
	svc, _, admin := setupCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Algebra", Code: "MAT101"}, admin)
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Algebra II", Code: " mat101 "}, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateKey)
}

func TestCatalogService_CreateCourse_Validation(t *testing.T) {
	svc, st, admin := setupCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Algebra", Code: "MAT101", GradingScheme: "weighted"}, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalid)

	missing := "5d0c7b1a-2f1e-4c6d-9a8b-7e6f5d4c3b2a"
	_, err = svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Algebra", Code: "MAT101", CycleID: &missing}, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	ivan := st.addUser(model.RoleInstructor, "Ivan", "Rojas")
	_, err = svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Algebra", Code: "MAT101"}, Actor{UserID: ivan.UserID, Role: model.RoleInstructor})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
	assert.Empty(t, st.courses)
}

func TestCatalogService_AssignCycle(t *testing.T) {
	svc, st, admin := setupCatalogService(t)
	ctx := context.Background()
	cycle := st.addCycle("2026-I", 1)
	course := st.addCourse("MAT101", "category", 3, nil)

	resp, err := svc.AssignCycle(ctx, course.CourseID, &dto.AssignCycleRequest{CycleID: &cycle.CycleID}, admin)
	require.NoError(t, err)
	require.NotNil(t, resp.CycleID)
	assert.Equal(t, cycle.CycleID, *resp.CycleID)

	resp, err = svc.AssignCycle(ctx, course.CourseID, &dto.AssignCycleRequest{}, admin)
	require.NoError(t, err)
	assert.Nil(t, resp.CycleID)
	assert.Nil(t, st.courses[course.CourseID].CycleID)
}

func TestCatalogService_UpdateCourse_RegradesStoredFinals(t *testing.T) {
	f := setupGradeFixture(t, string(grading.SchemeCategory))
	ctx := context.Background()
	svc := NewCatalogService(f.repo, zap.NewNop())

	req := f.scenarioRequest()
	req.Partials = [4]float64{12, 14, 16}
	submitted, err := f.svc.SubmitGrades(ctx, req, f.asInstructor())
	require.NoError(t, err)
	assert.InDelta(t, 17.93125, f.st.grades[submitted.ID].FinalAverage, tolerance)

	legacy := string(grading.SchemeLegacyPartials)
	_, err = svc.UpdateCourse(ctx, f.course.CourseID, &dto.UpdateCourseRequest{GradingScheme: &legacy}, f.asAdmin())
	require.NoError(t, err)
	assert.InDelta(t, 14.0, f.st.grades[submitted.ID].FinalAverage, tolerance)

	two := 2
	_, err = svc.UpdateCourse(ctx, f.course.CourseID, &dto.UpdateCourseRequest{PartialCount: &two}, f.asAdmin())
	require.NoError(t, err)
	stored := f.st.grades[submitted.ID]
	assert.InDelta(t, 13.0, stored.FinalAverage, tolerance)
	assert.InDelta(t, 13.0, stored.LegacyFinal, tolerance)
	assert.InDelta(t, 18.0625, stored.ActivityAverage, tolerance)
}

func TestCatalogService_UpdateCourse_RegradeFailure(t *testing.T) {
	f := setupGradeFixture(t, string(grading.SchemeCategory))
	ctx := context.Background()
	svc := NewCatalogService(f.repo, zap.NewNop())

	_, err := f.svc.SubmitGrades(ctx, f.scenarioRequest(), f.asInstructor())
	require.NoError(t, err)

	f.st.fail["Grade.Save"] = errors.New("disk full")
	legacy := string(grading.SchemeLegacyPartials)
	_, err = svc.UpdateCourse(ctx, f.course.CourseID, &dto.UpdateCourseRequest{GradingScheme: &legacy}, f.asAdmin())
	assert.ErrorIs(t, err, pkgerrors.ErrTransactionFailure)

	// renaming alone does not touch grades
	name := "Algebra I"
	_, err = svc.UpdateCourse(ctx, f.course.CourseID, &dto.UpdateCourseRequest{Name: &name}, f.asAdmin())
	require.NoError(t, err)
	assert.Equal(t, "Algebra I", f.st.courses[f.course.CourseID].Name)
}

// ── Cycles ──

func TestCatalogService_CreateCycle_OrderIncreases(t *testing.T) {
	svc, _, admin := setupCatalogService(t)
	ctx := context.Background()

	first, err := svc.CreateCycle(ctx, &dto.CreateCycleRequest{Name: "2026-I", Year: 2026, Half: 1, StartDate: "2026-03-01", EndDate: "2026-07-15"}, admin)
	require.NoError(t, err)
	second, err := svc.CreateCycle(ctx, &dto.CreateCycleRequest{Name: "2026-II", Year: 2026, Half: 2}, admin)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, "2026-03-01", first.StartDate)

	_, err = svc.CreateCycle(ctx, &dto.CreateCycleRequest{Name: "Bad", Year: 2026, Half: 1, StartDate: "2026-08-01", EndDate: "2026-07-01"}, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalid)
}

func TestCatalogService_DuplicateCycle(t *testing.T) {
	svc, st, admin := setupCatalogService(t)
	ctx := context.Background()
	src := st.addCycle("2026-I", 1)
	st.addCycle("2026-II", 2)

	dup, err := svc.DuplicateCycle(ctx, src.CycleID, admin)
	require.NoError(t, err)
	assert.Equal(t, "2026-I (Copy)", dup.Name)
	assert.Equal(t, 3, dup.Order)
	assert.NotEqual(t, src.CycleID, dup.ID)
	assert.Len(t, st.cycles, 3)
}

// ── Assignments ──

func TestCatalogService_AssignInstructor(t *testing.T) {
	svc, st, admin := setupCatalogService(t)
	ctx := context.Background()
	course := st.addCourse("MAT101", "category", 3, nil)
	ivan := st.addUser(model.RoleInstructor, "Ivan", "Rojas")
	student := st.addUser(model.RoleStudent, "Sofia", "Quispe")

	req := &dto.AssignInstructorRequest{CourseID: course.CourseID, InstructorID: ivan.UserID}
	resp, err := svc.AssignInstructor(ctx, req, admin)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Rojas", resp.InstructorName)

	_, err = svc.AssignInstructor(ctx, req, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateKey)

	_, err = svc.AssignInstructor(ctx, &dto.AssignInstructorRequest{CourseID: course.CourseID, InstructorID: student.UserID}, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	list, err := svc.ListAssignments(ctx, course.CourseID, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ── Users ──

func TestCatalogService_CreateUser_Unique(t *testing.T) {
	svc, _, admin := setupCatalogService(t)
	ctx := context.Background()

	req := &dto.CreateUserRequest{NationalID: "70123456", FirstName: "Sofia", LastName: "Quispe", Email: "Sofia@School.test", Role: "student"}
	resp, err := svc.CreateUser(ctx, req, admin)
	require.NoError(t, err)
	assert.Equal(t, "sofia@school.test", resp.Email)

	req.Email = "other@school.test"
	_, err = svc.CreateUser(ctx, req, admin)
	assert.ErrorIs(t, err, pkgerrors.ErrDuplicateKey)
}

func TestCatalogService_ImportUsers(t *testing.T) {
	svc, st, admin := setupCatalogService(t)

	rows := []ImportUserRow{
		{Row: 2, NationalID: "70123456", FirstName: "Sofia", LastName: "Quispe", Email: "sofia@school.test", Role: "student"},
		{Row: 3, NationalID: "70123456", FirstName: "Luis", LastName: "Mamani", Email: "luis@school.test", Role: "student"},
		{Row: 4, NationalID: "40123456", FirstName: "Ivan", LastName: "Rojas", Email: "not-an-email", Role: "instructor"},
		{Row: 5, NationalID: "40999999", FirstName: "Rosa", LastName: "Flores", Email: "rosa@school.test", Role: "instructor"},
	}
	resp, err := svc.ImportUsers(context.Background(), rows, admin)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 3, resp.Errors[0].Row)
	assert.Equal(t, 4, resp.Errors[1].Row)
	assert.Len(t, st.users, 3) // admin + two imported
}

func TestParseImportFile(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Email", "DNI", "Nombres", "Apellidos", "Rol"},
		{"sofia@school.test", "70123456", "Sofia", "Quispe", "Student"},
		{},
		{"rosa@school.test", "40999999", "Rosa", "Flores", "instructor"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	parsed, err := ParseImportFile(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, ImportUserRow{Row: 2, NationalID: "70123456", FirstName: "Sofia", LastName: "Quispe", Email: "sofia@school.test", Role: "student"}, parsed[0])
	assert.Equal(t, 4, parsed[1].Row)
}

func TestParseImportFile_BadHeader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "mail"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"x", "y"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ParseImportFile(&buf)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalid)

	_, err = ParseImportFile(bytes.NewReader([]byte("not a spreadsheet")))
	assert.ErrorIs(t, err, pkgerrors.ErrInvalid)
}
