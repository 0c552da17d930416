package calendar

import (
	"context"
	"errors"
	"time"

	calendardomain "farmbooking-go/internal/domain/calendar"
	propertydomain "farmbooking-go/internal/domain/property"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(calendardomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, propertyID string, day time.Time) (*calendardomain.DayRecord, error) {
	var rec calendardomain.DayRecord
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND day = ?", propertyID, day).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, calendardomain.ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, propertyID string, start, end time.Time) ([]calendardomain.DayRecord, error) {
	var recs []calendardomain.DayRecord
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND day >= ? AND day <= ?", propertyID, start, end).
		Order("day asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *calendardomain.DayRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PostgresRepository) Update(ctx context.Context, rec *calendardomain.DayRecord) error {
	return r.db.WithContext(ctx).Model(rec).
		Select("is_booked", "note", "admin_locked", "updated_at").
		Updates(map[string]any{
			"is_booked":    rec.IsBooked,
			"note":         rec.Note,
			"admin_locked": rec.AdminLocked,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ListAvailableProperties(ctx context.Context, day time.Time, ownerID *string) ([]propertydomain.Property, error) {
	query := r.db.WithContext(ctx).Model(&propertydomain.Property{}).
		Where(`NOT EXISTS (
			SELECT 1 FROM day_records
			WHERE day_records.property_id = properties.id
			  AND day_records.day = ?
			  AND day_records.is_booked = ?
		)`, day, true)
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var props []propertydomain.Property
	if err := query.Order("created_at asc").Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}
