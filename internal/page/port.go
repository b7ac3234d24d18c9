package page

import (
	"time"

	"academy-api/internal/logs"
)

type PageServiceAPI interface {
	GetIfModified(slug, locale string, clientLastModified *time.Time) (*Result, error)
	List() ([]Page, error)
	Upsert(slug string, in PageInput) (*Page, error)
	Delete(slug string) error
}

type LogServicePort interface {
	logs.Writer
}

var _ PageServiceAPI = (*PageService)(nil)
