package service

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gradebook/internal/dto"
	"gradebook/internal/model"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dto.TimeLayout)
}

func formatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(dto.DateLayout)
}

func parseDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func toGradeResponse(g *model.Grade) *dto.GradeResponse {
	resp := &dto.GradeResponse{
		ID:                 g.GradeID,
		CourseID:           g.CourseID,
		StudentID:          g.StudentID,
		InstructorID:       g.InstructorID,
		ActivityID:         g.ActivityID,
		PracticeID:         g.PracticeID,
		PartialExamID:      g.PartialExamID,
		ActivityAverage:    g.ActivityAverage,
		PracticeAverage:    g.PracticeAverage,
		PartialExamAverage: g.PartialExamAverage,
		Partials:           g.LegacyPartials(),
		FinalAverage:       g.FinalAverage,
		State:              g.State,
		Comments:           g.Comments,
		UpdatedAt:          formatTime(g.UpdatedAt),
	}
	if g.Course != nil {
		resp.CourseCode = g.Course.Code
		resp.CourseName = g.Course.Name
		resp.GradingScheme = string(g.Course.Scheme())
		if g.Course.Cycle != nil {
			resp.CycleName = g.Course.Cycle.Name
		}
	}
	if g.Student != nil {
		resp.StudentName = g.Student.FullName()
	}
	if g.Instructor != nil {
		resp.InstructorName = g.Instructor.FullName()
	}
	return resp
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:            c.CourseID,
		Name:          c.Name,
		Code:          c.Code,
		Description:   c.Description,
		Credits:       c.Credits,
		PartialCount:  c.PartialCount,
		GradingScheme: string(c.Scheme()),
		CycleID:       c.CycleID,
		IsActive:      c.IsActive,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
	if c.Cycle != nil {
		resp.CycleName = c.Cycle.Name
	}
	return resp
}

func toCycleResponse(c *model.Cycle) *dto.CycleResponse {
	return &dto.CycleResponse{
		ID:        c.CycleID,
		Name:      c.Name,
		Year:      c.Year,
		Half:      c.Half,
		Order:     c.Order,
		IsActive:  c.IsActive,
		StartDate: formatDate(c.StartDate),
		EndDate:   formatDate(c.EndDate),
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.UserID,
		NationalID: u.NationalID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CreatedAt:  formatTime(u.CreatedAt),
	}
}

func toAssignmentResponse(a *model.CourseAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:           a.AssignmentID,
		CourseID:     a.CourseID,
		InstructorID: a.InstructorID,
		AssignedAt:   formatTime(a.AssignedAt),
	}
	if a.Course != nil {
		resp.CourseCode = a.Course.Code
	}
	if a.Instructor != nil {
		resp.InstructorName = a.Instructor.FullName()
	}
	return resp
}

func toCycleEnrollmentResponse(e *model.CycleEnrollment) *dto.CycleEnrollmentResponse {
	resp := &dto.CycleEnrollmentResponse{
		ID:         e.EnrollmentID,
		StudentID:  e.StudentID,
		CycleID:    e.CycleID,
		State:      e.State,
		EnrolledAt: formatTime(e.EnrolledAt),
	}
	if e.Student != nil {
		resp.StudentName = e.Student.FullName()
	}
	if e.Cycle != nil {
		resp.CycleName = e.Cycle.Name
	}
	return resp
}

func toCourseEnrollmentResponse(e *model.CourseEnrollment) *dto.CourseEnrollmentResponse {
	resp := &dto.CourseEnrollmentResponse{
		ID:         e.EnrollmentID,
		CourseID:   e.CourseID,
		StudentID:  e.StudentID,
		EnrolledAt: formatTime(e.EnrolledAt),
	}
	if e.Course != nil {
		resp.CourseCode = e.Course.Code
	}
	return resp
}
