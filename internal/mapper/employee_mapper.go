package mapper

import (
	"time"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EmployeeMapper struct{}

func NewEmployeeMapper() *EmployeeMapper {
	return &EmployeeMapper{}
}

func (m *EmployeeMapper) ToEntity(r *model.EmployeeRecord) *entity.EmployeeRecord {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.EmployeeRecord{
		Id:        r.Id,
		RecordKey: r.RecordKey,
		Scope:     r.Scope,
		Fields:    map[string]interface{}(r.Fields),
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: r.DeletedAt.Valid,
	}
}

func (m *EmployeeMapper) ToModel(r *entity.EmployeeRecord) *model.EmployeeRecord {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.EmployeeRecord{
		Id:        r.Id,
		RecordKey: r.RecordKey,
		Scope:     r.Scope,
		Fields:    datatypes.JSONMap(r.Fields),
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *EmployeeMapper) ToEntities(records []*model.EmployeeRecord) []*entity.EmployeeRecord {
	entities := make([]*entity.EmployeeRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
