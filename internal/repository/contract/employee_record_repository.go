package contract

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
)

type EmployeeRecordRepository interface {
	Create(ctx context.Context, record *entity.EmployeeRecord) error
	Update(ctx context.Context, record *entity.EmployeeRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmployeeRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmployeeRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindByRecordKey does an exact lookup on the normalized key within a
	// scope. Returns (nil, nil) on a miss.
	FindByRecordKey(ctx context.Context, scope string, recordKey string) (*entity.EmployeeRecord, error)
}
