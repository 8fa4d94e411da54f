package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── PostgreSQL DOUBLE PRECISION[] ──

// ScoreArray maps a PostgreSQL double precision[] column. It implements the GORM Scanner/Valuer pair.
type ScoreArray []float64

// Scan parses the {1.5,2,3} text form returned by PostgreSQL.
func (a *ScoreArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("ScoreArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = ScoreArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(ScoreArray, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "NULL" {
			arr = append(arr, 0)
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return fmt.Errorf("ScoreArray.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, f)
	}
	*a = arr
	return nil
}

// Value renders the {1.5,2,3} text form.
func (a ScoreArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, f := range a {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// fill copies the stored slots into dst; missing trailing slots stay 0 and extra ones are dropped.
func (a ScoreArray) fill(dst []float64) {
	copy(dst, a)
}

// BaseModel audit columns embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// Stamp sets both audit actors; used on create.
func (b *BaseModel) Stamp(actorID string) {
	if actorID == "" {
		return
	}
	b.CreatedBy = &actorID
	b.UpdatedBy = &actorID
}

// Touch records the updating actor.
func (b *BaseModel) Touch(actorID string) {
	if actorID == "" {
		return
	}
	b.UpdatedBy = &actorID
}
