package calendar

import (
	"context"
	"errors"
	"time"

	identitydomain "farmbooking-go/internal/domain/identity"
	propertydomain "farmbooking-go/internal/domain/property"
	"github.com/google/uuid"
)

// PropertyDirectory resolves property ids for authorization.
type PropertyDirectory interface {
	GetByID(ctx context.Context, id string) (*propertydomain.Property, error)
}

type Service struct {
	repo       Repository
	properties PropertyDirectory
	now        func() time.Time
}

func NewService(repo Repository, properties PropertyDirectory) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		now:        time.Now,
	}
}

// GetStatus returns every record for the property with day in [start, end],
// ascending. Days with no record are absent; callers treat absence as the
// default unbooked state.
func (s *Service) GetStatus(ctx context.Context, caller identitydomain.Caller, propertyID string, start, end time.Time) ([]DayRecord, error) {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessProperty(prop.OwnerID) {
		return nil, ErrForbidden
	}
	return s.repo.ListRange(ctx, propertyID, DateOnly(start), DateOnly(end))
}

// UpsertStatus applies a batch of day changes as one transaction.
//
// The whole batch is rejected before any write if a day lies in the past.
// Owners are blocked outright from admin-locked days. An admin write pins
// admin_locked to the booked flag, so booking locks and unbooking unlocks;
// a successful owner write always leaves the day unlocked.
func (s *Service) UpsertStatus(ctx context.Context, caller identitydomain.Caller, propertyID string, changes []DayChange) error {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !caller.CanAccessProperty(prop.OwnerID) {
		return ErrForbidden
	}

	today := DateOnly(s.now())
	for _, c := range changes {
		if DateOnly(c.Day).Before(today) {
			return ErrPastDate
		}
	}

	admin := caller.IsAdmin()
	return s.repo.Transaction(ctx, func(tx Repository) error {
		for _, c := range changes {
			day := DateOnly(c.Day)

			existing, err := tx.Get(ctx, propertyID, day)
			if err != nil && !errors.Is(err, ErrDayNotFound) {
				return err
			}

			if existing == nil {
				rec := DayRecord{
					ID:          uuid.NewString(),
					PropertyID:  propertyID,
					Day:         day,
					IsBooked:    c.IsBooked,
					Note:        c.Note,
					AdminLocked: admin && c.IsBooked,
				}
				if err := tx.Create(ctx, &rec); err != nil {
					return err
				}
				continue
			}

			if !admin && existing.AdminLocked {
				return ErrDayLocked
			}

			existing.IsBooked = c.IsBooked
			existing.Note = c.Note
			if admin {
				existing.AdminLocked = c.IsBooked
			} else {
				// Redundant with the lock check above, but keeps the
				// owner-writes-never-lock invariant local.
				existing.AdminLocked = false
			}
			if err := tx.Update(ctx, existing); err != nil {
				return err
			}
		}
		return nil
	})
}

// IsAvailable reports whether the property has no booked record on the day.
func (s *Service) IsAvailable(ctx context.Context, propertyID string, day time.Time) (bool, error) {
	rec, err := s.repo.Get(ctx, propertyID, DateOnly(day))
	if errors.Is(err, ErrDayNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !rec.IsBooked, nil
}

// ListAvailable returns every property the caller may see that has no booked
// record on the day. Properties with no record at all count as available.
func (s *Service) ListAvailable(ctx context.Context, caller identitydomain.Caller, day time.Time) ([]propertydomain.Property, error) {
	var ownerID *string
	if caller.Role == identitydomain.RoleOwner {
		id := caller.ID
		ownerID = &id
	}
	return s.repo.ListAvailableProperties(ctx, DateOnly(day), ownerID)
}
