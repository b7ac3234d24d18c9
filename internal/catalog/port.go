package catalog

import (
	"context"

	"academy-api/internal/logs"
)

type CatalogServiceAPI interface {
	ListSports(locale string) ([]LocalizedItem, error)
	ListFacilities(locale string) ([]LocalizedItem, error)
	ListGenders(locale string) ([]LocalizedItem, error)
	ListSpokenLanguages(locale string) ([]LocalizedItem, error)

	GetSport(id uint) (*Sport, error)
	CreateSport(in SportInput) (*Sport, error)
	UpdateSport(id uint, in SportInput) (*Sport, error)
	DeleteSport(id uint) error
	BulkDeleteSports(ids []uint) (int64, error)

	CreateFacility(in CatalogInput) (*Facility, error)
	CreateGender(in CatalogInput) (*Gender, error)
	CreateSpokenLanguage(in CatalogInput) (*SpokenLanguage, error)
}

type SportsReader interface {
	Sports(ctx context.Context, locale string) ([]LocalizedItem, bool, error)
	Invalidate(ctx context.Context)
}

var _ CatalogServiceAPI = (*CatalogService)(nil)
var _ SportsReader = (*SportCache)(nil)
var _ logs.Writer = (*logs.LogService)(nil)
