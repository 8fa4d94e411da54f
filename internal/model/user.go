package model

// Roles
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// User table: users
type User struct {
	UserID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	NationalID string `gorm:"type:varchar(20);not null;uniqueIndex"           json:"national_id"`
	FirstName  string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email      string `gorm:"type:varchar(120);not null;uniqueIndex"          json:"email"`
	Role       string `gorm:"type:varchar(20);not null"                      json:"role"` // admin | instructor | student
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName table name
func (User) TableName() string { return "users" }

// FullName "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
