package block

import "academy-api/internal/logs"

type BlockServiceAPI interface {
	List(academicID uint, f ListFilter) ([]Block, int64, error)
	Get(academicID, id uint) (*Block, error)
	Create(academicID uint, in BlockInput) (*Block, error)
	Update(academicID, id uint, in BlockInput) (*Block, error)
	Delete(academicID, id uint) error
	BulkDelete(academicID uint, ids []uint) (int64, error)
	Check(academicID uint, in CheckInput) (*CheckResult, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ BlockServiceAPI = (*BlockService)(nil)
