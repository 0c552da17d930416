package calendar

import "time"

// DayRecord is the per-property, per-day booking state. The ledger is sparse:
// a missing row means the day is unbooked, unlocked and unannotated, which is
// exactly what DefaultDay returns.
type DayRecord struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	PropertyID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_day_records_property_day"`
	Day         time.Time `gorm:"type:date;not null;uniqueIndex:uq_day_records_property_day"`
	IsBooked    bool      `gorm:"not null;default:false"`
	Note        *string
	AdminLocked bool      `gorm:"not null;default:false;column:admin_locked"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// DefaultDay is the state of a day with no stored record.
func DefaultDay(propertyID string, day time.Time) DayRecord {
	return DayRecord{PropertyID: propertyID, Day: day}
}

// DayChange is one entry of an upsert batch.
type DayChange struct {
	Day      time.Time
	IsBooked bool
	Note     *string
}

// DateOnly normalizes a timestamp to its calendar day at UTC midnight. Every
// day stored in or compared against the ledger goes through this.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
