package academy

import (
	"context"

	"academy-api/internal/auth"
	"academy-api/internal/logs"
)

type AcademyServiceAPI interface {
	Get(id uint) (*Academic, error)
	List(f ListFilter) ([]AcademySummary, int64, error)
	UpdateDetails(id uint, in DetailsInput) (*Academic, error)
	UpdateMedia(ctx context.Context, id uint, in MediaInput) (*Academic, error)
	SetStatus(id uint, status string) (*Academic, error)
	CompleteOnboarding(id uint) (*Academic, error)
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	AddAthletic(academicID uint, in AthleticInput) (*Athletic, error)
	ListAthletics(academicID uint) ([]Athletic, error)
	RemoveAthletic(academicID, id uint) error
}

type LogServicePort interface {
	logs.Writer
}

var (
	_ AcademyServiceAPI       = (*AcademyService)(nil)
	_ auth.AcademyProvisioner = (*AcademyService)(nil)
)
