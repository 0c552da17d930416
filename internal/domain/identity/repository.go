package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByLogin(ctx context.Context, login string) (*Identity, error)
	Create(ctx context.Context, ident *Identity) error
	CreateOwnerProperty(ctx context.Context, prop *OwnerProperty) error
	UpdateEmail(ctx context.Context, id string, email *string) error
	UpdatePhone(ctx context.Context, id string, phone *string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateActive(ctx context.Context, id string, active bool) error
	LoginTaken(ctx context.Context, username, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error)
	CountOwners(ctx context.Context) (int64, error)
	ListOwners(ctx context.Context, offset, limit int) ([]Identity, error)
	ListOwnerProperties(ctx context.Context, ownerIDs []string) ([]OwnerProperty, error)
}
