package model

import "gorm.io/datatypes"

// Cycle academic cycle table: cycles
type Cycle struct {
	CycleID   string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Name      string          `gorm:"type:varchar(100);not null"                     json:"name"`
	Year      int             `gorm:"not null"                                       json:"year"`
	Half      int             `gorm:"not null"                                       json:"half"`  // 1 | 2
	Order     int             `gorm:"column:cycle_order;not null;uniqueIndex"         json:"order"` // strictly increasing
	IsActive  bool            `gorm:"not null;default:true"                          json:"is_active"`
	StartDate *datatypes.Date `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate   *datatypes.Date `gorm:"type:date"                                      json:"end_date,omitempty"`
	BaseModel
}

// TableName table name
func (Cycle) TableName() string { return "cycles" }
