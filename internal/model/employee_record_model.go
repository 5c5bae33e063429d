package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EmployeeRecord struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordKey string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Scope     string            `gorm:"type:varchar(50);not null;index"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt    `gorm:"index"`
}

func (EmployeeRecord) TableName() string {
	return "employee_records"
}
