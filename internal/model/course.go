package model

import "gradebook/internal/grading"

// Course table: courses
type Course struct {
	CourseID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"course_id"`
	Name          string  `gorm:"type:varchar(100);not null"                          json:"name"`
	Code          string  `gorm:"type:varchar(20);not null;uniqueIndex"                json:"code"`
	Description   string  `gorm:"type:text"                                           json:"description"`
	Credits       int     `gorm:"not null;default:3"                                  json:"credits"`
	PartialCount  int     `gorm:"not null;default:3"                                  json:"partial_count"`  // legacy, 1-4
	GradingScheme string  `gorm:"type:varchar(20);not null;default:'category'"        json:"grading_scheme"` // category | legacy_partials
	CycleID       *string `gorm:"type:uuid;index"                                     json:"cycle_id,omitempty"`
	IsActive      bool    `gorm:"not null;default:true"                               json:"is_active"`
	BaseModel

	Cycle *Cycle `gorm:"foreignKey:CycleID;references:CycleID" json:"cycle,omitempty"`
}

// TableName table name
func (Course) TableName() string { return "courses" }

// Scheme returns the grading variant of the course. Unknown tags fall back to the category scheme.
func (c *Course) Scheme() grading.Scheme {
	s, err := grading.ParseScheme(c.GradingScheme)
	if err != nil {
		return grading.SchemeCategory
	}
	return s
}
