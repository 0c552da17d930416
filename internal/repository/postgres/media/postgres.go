package media

import (
	"context"
	"errors"

	mediadomain "farmbooking-go/internal/domain/media"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(mediadomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, asset *mediadomain.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*mediadomain.MediaAsset, error) {
	var asset mediadomain.MediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mediadomain.ErrMediaNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *PostgresRepository) ListByProperty(ctx context.Context, propertyID string) ([]mediadomain.MediaAsset, error) {
	var assets []mediadomain.MediaAsset
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at desc").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&mediadomain.MediaAsset{}, "id = ?", id).Error
}
