package report

import "academy-api/internal/logs"

type ReportServiceAPI interface {
	ExportBookings(req BookingExportRequest) (*File, error)
	ExportAcademyBookings(academicID uint, req BookingExportRequest) (*File, error)
	ExportBlocks(academicID uint, req BlockExportRequest) (*File, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ ReportServiceAPI = (*ReportService)(nil)
