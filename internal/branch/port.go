package branch

import "academy-api/internal/logs"

type BranchServiceAPI interface {
	List(academicID uint, f ListFilter) ([]BranchSummary, int64, error)
	Get(academicID, id uint) (*Branch, error)
	Create(academicID uint, in BranchInput) (*Branch, error)
	Update(academicID, id uint, in BranchInput) (*Branch, error)
	Delete(academicID, id uint) error
	BulkDelete(academicID uint, ids []uint) (int64, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ BranchServiceAPI = (*BranchService)(nil)
