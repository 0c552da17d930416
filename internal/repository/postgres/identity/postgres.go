package identity

import (
	"context"
	"errors"

	identitydomain "farmbooking-go/internal/domain/identity"
	propertydomain "farmbooking-go/internal/domain/property"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*identitydomain.Identity, error) {
	var ident identitydomain.Identity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &ident, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*identitydomain.Identity, error) {
	var ident identitydomain.Identity
	if err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&ident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &ident, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ident *identitydomain.Identity) error {
	err := r.db.WithContext(ctx).Create(ident).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return identitydomain.ErrUserExists
	}
	return err
}

func (r *PostgresRepository) CreateOwnerProperty(ctx context.Context, prop *identitydomain.OwnerProperty) error {
	return r.db.WithContext(ctx).Create(&propertydomain.Property{
		ID:       prop.ID,
		Name:     prop.Name,
		OwnerID:  prop.OwnerID,
		Size:     prop.Size,
		Location: prop.Location,
	}).Error
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id string, email *string) error {
	err := r.db.WithContext(ctx).Model(&identitydomain.Identity{}).Where("id = ?", id).Update("email", email).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return identitydomain.ErrEmailInUse
	}
	return err
}

func (r *PostgresRepository) UpdatePhone(ctx context.Context, id string, phone *string) error {
	return r.db.WithContext(ctx).Model(&identitydomain.Identity{}).Where("id = ?", id).Update("phone", phone).Error
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&identitydomain.Identity{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

func (r *PostgresRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&identitydomain.Identity{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *PostgresRepository) LoginTaken(ctx context.Context, username, email string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&identitydomain.Identity{})
	if email != "" {
		query = query.Where("username = ? OR email = ?", username, email)
	} else {
		query = query.Where("username = ?", username)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identitydomain.Identity{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CountOwners(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identitydomain.Identity{}).
		Where("role = ?", identitydomain.RoleOwner).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) ListOwners(ctx context.Context, offset, limit int) ([]identitydomain.Identity, error) {
	var owners []identitydomain.Identity
	err := r.db.WithContext(ctx).
		Where("role = ?", identitydomain.RoleOwner).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *PostgresRepository) ListOwnerProperties(ctx context.Context, ownerIDs []string) ([]identitydomain.OwnerProperty, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	var props []propertydomain.Property
	err := r.db.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("created_at asc").
		Find(&props).Error
	if err != nil {
		return nil, err
	}

	briefs := make([]identitydomain.OwnerProperty, 0, len(props))
	for _, p := range props {
		briefs = append(briefs, identitydomain.OwnerProperty{
			ID:       p.ID,
			OwnerID:  p.OwnerID,
			Name:     p.Name,
			Size:     p.Size,
			Location: p.Location,
		})
	}
	return briefs, nil
}
