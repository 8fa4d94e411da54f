package dto

// ── Reports ──

// DashboardResponse admin dashboard counts
type DashboardResponse struct {
	Students          int64 `json:"students"`
	Instructors       int64 `json:"instructors"`
	ActiveCourses     int64 `json:"active_courses"`
	ActiveCycles      int64 `json:"active_cycles"`
	ActiveEnrollments int64 `json:"active_enrollments"`
	CourseEnrollments int64 `json:"course_enrollments"`
	PublishedGrades   int64 `json:"published_grades"`
	DraftGrades       int64 `json:"draft_grades"`
}

// CourseSummaryResponse grade summary of one course
type CourseSummaryResponse struct {
	CourseID      string  `json:"course_id"`
	CourseCode    string  `json:"course_code"`
	CourseName    string  `json:"course_name"`
	GradingScheme string  `json:"grading_scheme"`
	Enrolled      int64   `json:"enrolled"`
	Graded        int     `json:"graded"`
	Published     int     `json:"published"`
	Draft         int     `json:"draft"`
	// Average is the mean of the final averages > 0; 0 when none.
	Average float64 `json:"average"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
}

// InstructorStatsResponse per-instructor statistics
type InstructorStatsResponse struct {
	InstructorID   string                  `json:"instructor_id"`
	InstructorName string                  `json:"instructor_name"`
	Courses        []CourseSummaryResponse `json:"courses"`
	Students       int64                   `json:"students"`
	GradesEntered  int64                   `json:"grades_entered"`
}

// TranscriptResponse all grades of a student
type TranscriptResponse struct {
	StudentID        string                   `json:"student_id"`
	StudentName      string                   `json:"student_name"`
	ActiveEnrollment *CycleEnrollmentResponse `json:"active_enrollment,omitempty"`
	Grades           []GradeResponse          `json:"grades"`
	// Average is the mean of the published final averages > 0.
	Average float64 `json:"average"`
}
