package dto

// ── Grades ──

// SubmitGradesRequest full category snapshot for one (course, student).
// Missing trailing slots are unset (0).
type SubmitGradesRequest struct {
	CourseID     string     `json:"course_id"     binding:"required,uuid"`
	StudentID    string     `json:"student_id"    binding:"required,uuid"`
	InstructorID string     `json:"instructor_id" binding:"omitempty,uuid"` // admins grade on behalf of an instructor
	Activities   [8]float64 `json:"activities"`
	Practices    [4]float64 `json:"practices"`
	PartialExams [2]float64 `json:"partial_exams"`
	Partials     [4]float64 `json:"partials"` // legacy_partials courses only
	Comments     string     `json:"comments"      binding:"max=2000"`
	State        string     `json:"state"`
}

// GradeListRequest grade list filters
type GradeListRequest struct {
	PaginationRequest
	CycleID      string `form:"cycle_id"      binding:"omitempty,uuid"`
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	StudentID    string `form:"student_id"    binding:"omitempty,uuid"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	State        string `form:"state"         binding:"omitempty,oneof=draft published"`
}

// GradeResponse denormalized grade
type GradeResponse struct {
	ID                 string     `json:"id"`
	CourseID           string     `json:"course_id"`
	CourseCode         string     `json:"course_code,omitempty"`
	CourseName         string     `json:"course_name,omitempty"`
	CycleName          string     `json:"cycle_name,omitempty"`
	StudentID          string     `json:"student_id"`
	StudentName        string     `json:"student_name,omitempty"`
	InstructorID       string     `json:"instructor_id"`
	InstructorName     string     `json:"instructor_name,omitempty"`
	GradingScheme      string     `json:"grading_scheme,omitempty"`
	ActivityID         *string    `json:"activity_id,omitempty"`
	PracticeID         *string    `json:"practice_id,omitempty"`
	PartialExamID      *string    `json:"partial_exam_id,omitempty"`
	ActivityAverage    float64    `json:"activity_average"`
	PracticeAverage    float64    `json:"practice_average"`
	PartialExamAverage float64    `json:"partial_exam_average"`
	Partials           [4]float64 `json:"partials"`
	FinalAverage       float64    `json:"final_average"`
	State              string     `json:"state"`
	Comments           string     `json:"comments"`
	UpdatedAt          string     `json:"updated_at"`
}

// FinalGradeResponse read-only recomputation of a grade
type FinalGradeResponse struct {
	GradeID            string  `json:"grade_id"`
	GradingScheme      string  `json:"grading_scheme"`
	ActivityAverage    float64 `json:"activity_average"`
	PracticeAverage    float64 `json:"practice_average"`
	PartialExamAverage float64 `json:"partial_exam_average"`
	FinalAverage       float64 `json:"final_average"`
	// Stored is the final average currently persisted on the grade row.
	Stored float64 `json:"stored"`
}

// RecalculateResponse course-wide recomputation result
type RecalculateResponse struct {
	CourseID string `json:"course_id"`
	Updated  int    `json:"updated"`
}
