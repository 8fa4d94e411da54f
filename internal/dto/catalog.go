package dto

// ── Courses ──

// CreateCourseRequest create course
type CreateCourseRequest struct {
	Name          string  `json:"name"           binding:"required,min=2,max=100"`
	Code          string  `json:"code"           binding:"required,min=2,max=20"`
	Description   string  `json:"description"    binding:"max=2000"`
	Credits       int     `json:"credits"        binding:"omitempty,min=1,max=30"`
	PartialCount  int     `json:"partial_count"  binding:"omitempty,min=1,max=4"`
	GradingScheme string  `json:"grading_scheme" binding:"omitempty,oneof=category legacy_partials"`
	CycleID       *string `json:"cycle_id"       binding:"omitempty,uuid"`
}

// UpdateCourseRequest update course
type UpdateCourseRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=100"`
	Code          *string `json:"code"           binding:"omitempty,min=2,max=20"`
	Description   *string `json:"description"    binding:"omitempty,max=2000"`
	Credits       *int    `json:"credits"        binding:"omitempty,min=1,max=30"`
	PartialCount  *int    `json:"partial_count"  binding:"omitempty,min=1,max=4"`
	GradingScheme *string `json:"grading_scheme" binding:"omitempty,oneof=category legacy_partials"`
}

// AssignCycleRequest set, change or clear (null) the cycle of a course
type AssignCycleRequest struct {
	CycleID *string `json:"cycle_id" binding:"omitempty,uuid"`
}

// CourseResponse course
type CourseResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	Credits       int     `json:"credits"`
	PartialCount  int     `json:"partial_count"`
	GradingScheme string  `json:"grading_scheme"`
	CycleID       *string `json:"cycle_id,omitempty"`
	CycleName     string  `json:"cycle_name,omitempty"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ── Cycles ──

// CreateCycleRequest create cycle. Order is assigned automatically.
type CreateCycleRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Year      int    `json:"year"       binding:"required,min=1900,max=2999"`
	Half      int    `json:"half"       binding:"required,oneof=1 2"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// UpdateCycleRequest update cycle
type UpdateCycleRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Year      *int    `json:"year"       binding:"omitempty,min=1900,max=2999"`
	Half      *int    `json:"half"       binding:"omitempty,oneof=1 2"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// CycleResponse cycle
type CycleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Half      int    `json:"half"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"is_active"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── Assignments ──

// AssignInstructorRequest assign an instructor to a course
type AssignInstructorRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
}

// AssignmentResponse course assignment
type AssignmentResponse struct {
	ID             string `json:"id"`
	CourseID       string `json:"course_id"`
	CourseCode     string `json:"course_code,omitempty"`
	InstructorID   string `json:"instructor_id"`
	InstructorName string `json:"instructor_name,omitempty"`
	AssignedAt     string `json:"assigned_at"`
}

// ── Users ──

// CreateUserRequest register an instructor, student or admin
type CreateUserRequest struct {
	NationalID string `json:"national_id" binding:"required,min=6,max=20,numeric"`
	FirstName  string `json:"first_name"  binding:"required,min=1,max=100"`
	LastName   string `json:"last_name"   binding:"required,min=1,max=100"`
	Email      string `json:"email"       binding:"required,email,max=120"`
	Role       string `json:"role"        binding:"required,oneof=admin instructor student"`
}

// UpdateUserRequest update a user
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name"  binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email,max=120"`
}

// UserListRequest user list filters
type UserListRequest struct {
	PaginationRequest
	Role       string `form:"role"        binding:"omitempty,oneof=admin instructor student"`
	ActiveOnly bool   `form:"active_only"`
	Keyword    string `form:"keyword"     binding:"omitempty,max=50"`
}

// UserResponse user
type UserResponse struct {
	ID         string `json:"id"`
	NationalID string `json:"national_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// ImportUsersResponse result of a spreadsheet import
type ImportUsersResponse struct {
	Total   int               `json:"total"`
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportUserError one rejected spreadsheet row
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
