package property

import (
	"context"
	"errors"

	propertydomain "farmbooking-go/internal/domain/property"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*propertydomain.Property, error) {
	var prop propertydomain.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertydomain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &prop, nil
}

func (r *PostgresRepository) Create(ctx context.Context, prop *propertydomain.Property) error {
	return r.db.WithContext(ctx).Create(prop).Error
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]propertydomain.Property, error) {
	var props []propertydomain.Property
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&props).Error
	if err != nil {
		return nil, err
	}
	return props, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]propertydomain.Property, error) {
	var props []propertydomain.Property
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&props).Error; err != nil {
		return nil, err
	}
	return props, nil
}
