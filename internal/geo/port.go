package geo

import (
	"io"

	"academy-api/internal/logs"
)

type GeoServiceAPI interface {
	List(l Level, f ListFilter) ([]Place, int64, error)
	Get(l Level, id uint) (*PlaceDetail, error)
	Create(l Level, in PlaceInput) (*PlaceDetail, error)
	UpdateMain(l Level, id uint, in PlaceInput) (*PlaceDetail, error)
	SetTranslation(l Level, id uint, locale string, in TranslationInput) (*PlaceDetail, error)
	DeleteTranslation(l Level, id uint, locale string) error
	Delete(l Level, id uint) error
	BulkDelete(l Level, ids []uint) (int64, error)
	Import(l Level, filename string, r io.Reader) (*ImportResult, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ GeoServiceAPI = (*GeoService)(nil)
