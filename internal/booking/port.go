package booking

import (
	"context"

	"academy-api/internal/logs"
)

type BookingServiceAPI interface {
	Create(ctx context.Context, userID uint, in CreateInput) (*Booking, error)
	Get(academicID, id uint) (*Booking, error)
	List(academicID uint, f ListFilter) ([]Booking, int64, error)
	ListMine(userID uint, f ListFilter) ([]Booking, int64, error)
	UpdateStatus(ctx context.Context, academicID, id uint, status string) (*Booking, error)
	SetDeduction(academicID, id uint, ref *uint) (*Booking, error)
	UpdateSessionStatus(ctx context.Context, academicID, sessionID uint, status string) (*BookingSession, error)
}

type LogServicePort interface {
	logs.Writer
}

var _ BookingServiceAPI = (*BookingService)(nil)
