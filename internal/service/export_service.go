package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gradebook/internal/dto"
	"gradebook/internal/repository"
	pkgerrors "gradebook/pkg/errors"
)

// ExportService grade spreadsheet export.
//
// The sheet is built only from the denormalized grade fields; category rows are never read.
type ExportService interface {
	// ExportGrades returns the XLSX bytes and a suggested file name.
	ExportGrades(ctx context.Context, req *dto.GradeListRequest, actor Actor) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportHeaders = []string{
	"Cycle", "Course code", "Course", "Student", "Instructor",
	"Activities", "Practices", "Partial exams", "Final", "State", "Updated",
}

func (s *exportService) ExportGrades(ctx context.Context, req *dto.GradeListRequest, actor Actor) (*bytes.Buffer, string, error) {
	if !actor.IsAdmin() && !actor.IsInstructor() {
		return nil, "", pkgerrors.Forbidden("only administrators and instructors can export grades")
	}
	if err := dto.Validate(req); err != nil {
		return nil, "", err
	}

	filter := repository.GradeFilter{
		CycleID:      req.CycleID,
		CourseID:     req.CourseID,
		StudentID:    req.StudentID,
		InstructorID: req.InstructorID,
		State:        req.State,
	}
	if actor.IsInstructor() {
		filter.InstructorID = actor.UserID
	}

	grades, _, err := s.repo.Grade.List(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("list grades for export failed", zap.Error(err))
		return nil, "", fmt.Errorf("list grades: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Grades"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "B", 14)
	f.SetColWidth(sheet, "C", "E", 28)
	f.SetColWidth(sheet, "F", "K", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	scoreStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00

	for i, h := range exportHeaders {
		f.SetCellValue(sheet, cellName(i, 1), h)
	}
	f.SetCellStyle(sheet, cellName(0, 1), cellName(len(exportHeaders)-1, 1), headerStyle)

	row := 2
	for i := range grades {
		g := toGradeResponse(&grades[i])
		values := []interface{}{
			g.CycleName, g.CourseCode, g.CourseName, g.StudentName, g.InstructorName,
			g.ActivityAverage, g.PracticeAverage, g.PartialExamAverage, g.FinalAverage,
			g.State, g.UpdatedAt,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellName(col, row), v)
		}
		f.SetCellStyle(sheet, cellName(5, row), cellName(8, row), scoreStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}

	s.logger.Info("grades exported", zap.Int("rows", len(grades)))
	filename := fmt.Sprintf("grades_%s.xlsx", time.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

// cellName converts a zero-based column and a one-based row to "A1" form.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
