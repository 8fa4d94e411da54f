package dto

// ── Enrollments ──

// CycleEnrollmentRequest create or reassign a student's cycle enrollment
type CycleEnrollmentRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CycleID   string `json:"cycle_id"   binding:"required,uuid"`
	Force     bool   `json:"force"`
}

// CourseEnrollmentRequest enroll a student in one course
type CourseEnrollmentRequest struct {
	CourseID  string `json:"course_id"  binding:"required,uuid"`
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// CycleEnrollmentListRequest cycle enrollment filters
type CycleEnrollmentListRequest struct {
	CycleID   string `form:"cycle_id"   binding:"omitempty,uuid"`
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	State     string `form:"state"      binding:"omitempty,oneof=active completed suspended"`
}

// CycleEnrollmentResponse cycle enrollment
type CycleEnrollmentResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	CycleID     string `json:"cycle_id"`
	CycleName   string `json:"cycle_name,omitempty"`
	State       string `json:"state"`
	EnrolledAt  string `json:"enrolled_at"`
	// CoursesEnrolled is the number of course enrollments the cascade created.
	CoursesEnrolled int `json:"courses_enrolled"`
	// Superseded is the prior active enrollment that was suspended, if any.
	Superseded *string `json:"superseded,omitempty"`
}

// CourseEnrollmentResponse course enrollment
type CourseEnrollmentResponse struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	CourseCode string `json:"course_code,omitempty"`
	StudentID  string `json:"student_id"`
	EnrolledAt string `json:"enrolled_at"`
}

// SyncResponse result of the enrollment sync
type SyncResponse struct {
	StudentsChecked int `json:"students_checked"`
	Created         int `json:"created"`
}
