package property

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Property, error)
	Create(ctx context.Context, prop *Property) error
	ListByOwner(ctx context.Context, ownerID string) ([]Property, error)
	ListAll(ctx context.Context) ([]Property, error)
}
