package media

import (
	"context"
	"io"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, asset *MediaAsset) error
	GetByID(ctx context.Context, id string) (*MediaAsset, error)
	ListByProperty(ctx context.Context, propertyID string) ([]MediaAsset, error)
	Delete(ctx context.Context, id string) error
}

// FileStore is the blob area backing the catalog. Save must never leave a
// partially written file behind: on any failure, including the limit being
// exceeded, the destination is removed before the error is returned.
type FileStore interface {
	Save(dir, filename string, src io.Reader, limit int64) (int64, error)
	Remove(dir, filename string) error
}
