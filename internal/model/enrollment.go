package model

import "time"

// Cycle enrollment states
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentSuspended = "suspended"
)

// CourseAssignment instructor ↔ course table: course_assignments
type CourseAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"assignment_id"`
	CourseID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_pair"     json:"course_id"`
	InstructorID string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_pair"     json:"instructor_id"`
	AssignedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"assigned_at"`
	BaseModel

	Course     *Course `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Instructor *User   `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
}

// TableName table name
func (CourseAssignment) TableName() string { return "course_assignments" }

// CourseEnrollment student ↔ course table: course_enrollments
type CourseEnrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"enrollment_id"`
	CourseID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment_pair" json:"course_id"`
	StudentID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment_pair" json:"student_id"`
	EnrolledAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"enrolled_at"`
	BaseModel

	Course  *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID;references:UserID"  json:"student,omitempty"`
}

// TableName table name
func (CourseEnrollment) TableName() string { return "course_enrollments" }

// CycleEnrollment student ↔ cycle table: cycle_enrollments.
// At most one row per student is active (partial unique index).
type CycleEnrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string    `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CycleID      string    `gorm:"type:uuid;not null;index"                       json:"cycle_id"`
	State        string    `gorm:"type:varchar(20);not null;default:'active'"     json:"state"` // active | completed | suspended
	EnrolledAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"enrolled_at"`
	BaseModel

	Cycle   *Cycle `gorm:"foreignKey:CycleID;references:CycleID"  json:"cycle,omitempty"`
	Student *User  `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`
}

// TableName table name
func (CycleEnrollment) TableName() string { return "cycle_enrollments" }
