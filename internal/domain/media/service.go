package media

import (
	"context"
	"path/filepath"
	"strings"

	identitydomain "farmbooking-go/internal/domain/identity"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/pkg/logger"
	"github.com/google/uuid"
)

type PropertyDirectory interface {
	GetByID(ctx context.Context, id string) (*propertydomain.Property, error)
}

type Limits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
}

type Service struct {
	repo       Repository
	store      FileStore
	properties PropertyDirectory
	limits     Limits
	log        logger.Logger
}

func NewService(repo Repository, store FileStore, properties PropertyDirectory, limits Limits, log logger.Logger) *Service {
	return &Service{
		repo:       repo,
		store:      store,
		properties: properties,
		limits:     limits,
		log:        log,
	}
}

// Upload stores the given files and their catalog rows. The rows commit
// together; on any failure every file already written for this request is
// removed so nothing orphaned stays behind.
func (s *Service) Upload(ctx context.Context, caller identitydomain.Caller, propertyID string, uploads []Upload) ([]MediaAsset, error) {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessProperty(prop.OwnerID) {
		return nil, ErrForbidden
	}

	dir := PropertyDir(propertyID)
	var saved []MediaAsset

	cleanup := func() {
		for _, asset := range saved {
			if err := s.store.Remove(dir, asset.Filename); err != nil {
				s.log.Warn("media: cleanup of aborted upload failed", "filename", asset.Filename, "err", err)
			}
		}
	}

	for _, up := range uploads {
		kind, limit, err := s.classify(up.ContentType)
		if err != nil {
			cleanup()
			return nil, err
		}

		filename := storedFilename(up.Filename)
		size, err := s.store.Save(dir, filename, up.Reader, limit)
		if err != nil {
			cleanup()
			return nil, err
		}

		saved = append(saved, MediaAsset{
			ID:         uuid.NewString(),
			PropertyID: propertyID,
			Kind:       kind,
			Filename:   filename,
			MimeType:   up.ContentType,
			SizeBytes:  size,
		})
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for i := range saved {
			if err := tx.Create(ctx, &saved[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	return saved, nil
}

func (s *Service) List(ctx context.Context, caller identitydomain.Caller, propertyID string) ([]MediaAsset, error) {
	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessProperty(prop.OwnerID) {
		return nil, ErrForbidden
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

// Delete removes the catalog row and, best effort, the stored file. A failed
// file removal is logged and never blocks the deletion.
func (s *Service) Delete(ctx context.Context, caller identitydomain.Caller, propertyID, mediaID string) error {
	asset, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if asset.PropertyID != propertyID {
		return ErrMediaNotFound
	}

	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !caller.CanAccessProperty(prop.OwnerID) {
		return ErrForbidden
	}

	if err := s.store.Remove(PropertyDir(propertyID), asset.Filename); err != nil {
		s.log.Warn("media: file removal failed, deleting record anyway", "media_id", mediaID, "err", err)
	}

	return s.repo.Delete(ctx, asset.ID)
}

func (s *Service) classify(contentType string) (string, int64, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage, s.limits.MaxImageBytes, nil
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo, s.limits.MaxVideoBytes, nil
	default:
		return "", 0, ErrUnsupportedType
	}
}

// storedFilename keeps only the extension of the client name and replaces the
// rest with a random opaque hex string.
func storedFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}
