package calendar

import (
	"context"
	"time"

	propertydomain "farmbooking-go/internal/domain/property"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, propertyID string, day time.Time) (*DayRecord, error)
	ListRange(ctx context.Context, propertyID string, start, end time.Time) ([]DayRecord, error)
	Create(ctx context.Context, rec *DayRecord) error
	Update(ctx context.Context, rec *DayRecord) error
	// ListAvailableProperties returns properties with no booked record on the
	// given day, optionally restricted to one owner.
	ListAvailableProperties(ctx context.Context, day time.Time, ownerID *string) ([]propertydomain.Property, error)
}
