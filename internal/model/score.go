package model

import (
	"time"

	"gradebook/internal/grading"
)

// Grade / category row lifecycle
const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// CategoryScore is the shared shape of the three per-category score tables.
// Unique (course_id, student_id) per table.
type CategoryScore struct {
	ID           string     `gorm:"type:uuid;primaryKey"                             json:"id"`
	CourseID     string     `gorm:"type:uuid;not null;uniqueIndex:,composite:pair"   json:"course_id"`
	StudentID    string     `gorm:"type:uuid;not null;uniqueIndex:,composite:pair"   json:"student_id"`
	InstructorID string     `gorm:"type:uuid;not null;index"                         json:"instructor_id"`
	Slots        ScoreArray `gorm:"type:double precision[];not null"                 json:"slots"`
	Average      float64    `gorm:"not null;default:0"                               json:"average"`
	State        string     `gorm:"type:varchar(20);not null;default:'draft'"        json:"state"`
	Comments     string     `gorm:"type:text"                                        json:"comments"`
	BaseModel
}

// ActivityScore 8 activity slots table: activity_scores
type ActivityScore struct {
	CategoryScore
}

// TableName table name
func (ActivityScore) TableName() string { return "activity_scores" }

// Items returns the fixed-size slot array.
func (s *ActivityScore) Items() grading.ActivityItems {
	var items grading.ActivityItems
	s.Slots.fill(items[:])
	return items
}

// SetItems overwrites all slots and recomputes the stored average.
func (s *ActivityScore) SetItems(items grading.ActivityItems) {
	s.Slots = append(ScoreArray(nil), items[:]...)
	s.Average = items.Average()
}

// PracticeScore 4 practice slots table: practice_scores
type PracticeScore struct {
	CategoryScore
}

// TableName table name
func (PracticeScore) TableName() string { return "practice_scores" }

// Items returns the fixed-size slot array.
func (s *PracticeScore) Items() grading.PracticeItems {
	var items grading.PracticeItems
	s.Slots.fill(items[:])
	return items
}

// SetItems overwrites all slots and recomputes the stored average.
func (s *PracticeScore) SetItems(items grading.PracticeItems) {
	s.Slots = append(ScoreArray(nil), items[:]...)
	s.Average = items.Average()
}

// PartialExamScore 2 partial exam slots table: partial_exam_scores
type PartialExamScore struct {
	CategoryScore
}

// TableName table name
func (PartialExamScore) TableName() string { return "partial_exam_scores" }

// Items returns the fixed-size slot array.
func (s *PartialExamScore) Items() grading.PartialExamItems {
	var items grading.PartialExamItems
	s.Slots.fill(items[:])
	return items
}

// SetItems overwrites all slots and recomputes the stored average.
func (s *PartialExamScore) SetItems(items grading.PartialExamItems) {
	s.Slots = append(ScoreArray(nil), items[:]...)
	s.Average = items.Average()
}

// Grade final grade per (course, student) table: grades
type Grade struct {
	GradeID       string  `gorm:"type:uuid;primaryKey"                                 json:"grade_id"`
	CourseID      string  `gorm:"type:uuid;not null;uniqueIndex:uq_grade_pair"          json:"course_id"`
	StudentID     string  `gorm:"type:uuid;not null;uniqueIndex:uq_grade_pair"          json:"student_id"`
	InstructorID  string  `gorm:"type:uuid;not null;index"                             json:"instructor_id"`
	ActivityID    *string `gorm:"type:uuid"                                            json:"activity_id,omitempty"`
	PracticeID    *string `gorm:"type:uuid"                                            json:"practice_id,omitempty"`
	PartialExamID *string `gorm:"type:uuid"                                            json:"partial_exam_id,omitempty"`

	ActivityAverage    float64 `gorm:"not null;default:0" json:"activity_average"`
	PracticeAverage    float64 `gorm:"not null;default:0" json:"practice_average"`
	PartialExamAverage float64 `gorm:"not null;default:0" json:"partial_exam_average"`
	FinalAverage       float64 `gorm:"not null;default:0" json:"final_average"`

	// legacy flat partials
	Partials     ScoreArray `gorm:"type:double precision[];not null" json:"partials"`
	LegacyFinal  float64    `gorm:"not null;default:0"               json:"legacy_final"`
	State        string     `gorm:"type:varchar(20);not null;default:'draft'" json:"state"`
	Comments     string     `gorm:"type:text"                        json:"comments"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	BaseModel

	Course     *Course `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Student    *User   `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Instructor *User   `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
}

// TableName table name
func (Grade) TableName() string { return "grades" }

// LegacyPartials returns the fixed-size legacy partial array.
func (g *Grade) LegacyPartials() grading.LegacyPartials {
	var p grading.LegacyPartials
	g.Partials.fill(p[:])
	return p
}

// SetLegacyPartials overwrites the four legacy partial slots.
func (g *Grade) SetLegacyPartials(p grading.LegacyPartials) {
	g.Partials = append(ScoreArray(nil), p[:]...)
}

// ApplyFinal writes the denormalized category averages and the final average. It never touches State.
func (g *Grade) ApplyFinal(avg grading.CategoryAverages, final float64) {
	g.ActivityAverage = avg.Activity
	g.PracticeAverage = avg.Practice
	g.PartialExamAverage = avg.PartialExam
	g.FinalAverage = final
}
