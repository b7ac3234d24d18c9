package coach

import (
	"context"

	"academy-api/internal/logs"
)

type CoachServiceAPI interface {
	List(academicID uint, f ListFilter) ([]Coach, int64, error)
	Get(academicID, id uint) (*Coach, error)
	Create(ctx context.Context, academicID uint, in CoachInput) (*Coach, error)
	Update(ctx context.Context, academicID, id uint, in CoachInput) (*Coach, error)
	Delete(academicID, id uint) error
	BulkDelete(academicID uint, ids []uint) (int64, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ CoachServiceAPI = (*CoachService)(nil)
