package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeRecord is one row of the structured HR dataset. Fields holds the
// free-form attribute map (salary, leave balance, performance rating, ...);
// RecordKey is the normalized full name used for exact lookups.
type EmployeeRecord struct {
	Id        uuid.UUID
	RecordKey string
	Scope     string
	Fields    map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
