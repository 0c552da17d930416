package property

import (
	"context"
	"fmt"
	"strings"

	identitydomain "farmbooking-go/internal/domain/identity"
	"github.com/google/uuid"
)

// OwnerDirectory is the slice of the identity repository the registry needs
// to validate owner references.
type OwnerDirectory interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Identity, error)
}

type Service struct {
	repo   Repository
	owners OwnerDirectory
}

func NewService(repo Repository, owners OwnerDirectory) *Service {
	return &Service{repo: repo, owners: owners}
}

// Create registers a bare property for an existing owner. Admin only.
func (s *Service) Create(ctx context.Context, caller identitydomain.Caller, name, ownerID string) (*Property, error) {
	if !caller.IsAdmin() {
		return nil, identitydomain.ErrAdminsOnly
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil || owner.Role != identitydomain.RoleOwner {
		return nil, ErrInvalidOwner
	}

	prop := Property{
		ID:      uuid.NewString(),
		Name:    name,
		OwnerID: owner.ID,
	}
	if err := s.repo.Create(ctx, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// ListForCaller returns the caller's own properties for owners and every
// property for admins.
func (s *Service) ListForCaller(ctx context.Context, caller identitydomain.Caller) ([]Property, error) {
	if caller.Role == identitydomain.RoleOwner {
		return s.repo.ListByOwner(ctx, caller.ID)
	}
	return s.repo.ListAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}
