package program

import "academy-api/internal/logs"

type ProgramServiceAPI interface {
	List(academicID uint, f ListFilter) ([]Program, int64, error)
	Get(academicID, id uint) (*Program, error)
	Create(academicID uint, in ProgramInput) (*Program, error)
	Update(academicID, id uint, in ProgramInput) (*Program, error)
	Delete(academicID, id uint) error
	BulkDelete(academicID uint, ids []uint) (int64, error)

	CreatePackage(academicID, programID uint, in PackageInput) (*Package, error)
	UpdatePackage(academicID, id uint, in PackageInput) (*Package, error)
	DeletePackage(academicID, id uint) error

	CreateDiscount(academicID, programID uint, in DiscountInput) (*Discount, error)
	UpdateDiscount(academicID, id uint, in DiscountInput) (*Discount, error)
	DeleteDiscount(academicID, id uint) error
}

type LogServicePort interface {
	logs.Writer
}

var _ ProgramServiceAPI = (*ProgramService)(nil)
