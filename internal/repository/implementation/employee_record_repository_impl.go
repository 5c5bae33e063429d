package implementation

import (
	"context"
	"errors"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/mapper"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"

	"gorm.io/gorm"
)

type EmployeeRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmployeeMapper
}

func NewEmployeeRecordRepository(db *gorm.DB) contract.EmployeeRecordRepository {
	return &EmployeeRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmployeeMapper(),
	}
}

func (r *EmployeeRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EmployeeRecordRepositoryImpl) Create(ctx context.Context, record *entity.EmployeeRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmployeeRecordRepositoryImpl) Update(ctx context.Context, record *entity.EmployeeRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmployeeRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmployeeRecord, error) {
	var m model.EmployeeRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EmployeeRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmployeeRecord, error) {
	var models []*model.EmployeeRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EmployeeRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.EmployeeRecord{}).Count(&count).Error
	return count, err
}

func (r *EmployeeRecordRepositoryImpl) FindByRecordKey(ctx context.Context, scope string, recordKey string) (*entity.EmployeeRecord, error) {
	return r.FindOne(ctx,
		specification.ByScope{Scope: scope},
		specification.ByRecordKey{RecordKey: recordKey},
	)
}
