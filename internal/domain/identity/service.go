package identity

import (
	"context"
	"fmt"
	"strings"

	"farmbooking-go/internal/auth"
	"github.com/google/uuid"
)

const defaultPageSize = 25

var allowedPageSizes = map[int]struct{}{10: {}, 25: {}, 50: {}, 75: {}, 100: {}}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login resolves a username-or-email plus password to an identity. Inactive
// owners are refused even with a correct password.
func (s *Service) Login(ctx context.Context, login, password string) (*Identity, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	ident, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(ident.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !ident.Active() {
		return nil, ErrAccountDisabled
	}
	return ident, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Identity, error) {
	return s.repo.GetByID(ctx, id)
}

// OnboardOwner atomically creates one owner identity and one property. If
// either insert fails, neither persists.
func (s *Service) OnboardOwner(ctx context.Context, caller Caller, in OnboardOwnerInput) (*OwnerProperty, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminsOnly
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.PropertyName = strings.TrimSpace(in.PropertyName)
	if in.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if in.PropertyName == "" {
		return nil, fmt.Errorf("farmhouse name is required")
	}
	if in.Size <= 0 {
		return nil, ErrInvalidSize
	}

	phone := strings.TrimSpace(in.Phone)
	if !validPhone(phone) {
		return nil, ErrInvalidPhone
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var result OwnerProperty
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.LoginTaken(ctx, in.Username, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrUserExists
		}

		owner := Identity{
			ID:           uuid.NewString(),
			Username:     in.Username,
			PasswordHash: hash,
			Role:         RoleOwner,
			IsActive:     true,
			Phone:        &phone,
		}
		if in.Email != "" {
			owner.Email = &in.Email
		}
		if err := tx.Create(ctx, &owner); err != nil {
			return err
		}

		prop := OwnerProperty{
			ID:      uuid.NewString(),
			OwnerID: owner.ID,
			Name:    in.PropertyName,
			Size:    &in.Size,
		}
		if loc := strings.TrimSpace(in.Location); loc != "" {
			prop.Location = &loc
		}
		if err := tx.CreateOwnerProperty(ctx, &prop); err != nil {
			return err
		}

		result = prop
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListOwners pages through owner identities with their property briefs.
// Out-of-range pages clamp instead of erroring so stale dashboards keep
// working after deletions.
func (s *Service) ListOwners(ctx context.Context, caller Caller, page, pageSize int) (*OwnerPage, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminsOnly
	}

	if _, ok := allowedPageSizes[pageSize]; !ok {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total, err := s.repo.CountOwners(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &OwnerPage{Items: []OwnerRow{}, Total: 0, Page: 1, PageSize: pageSize, Pages: 1}, nil
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	owners, err := s.repo.ListOwners(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owners))
	for _, o := range owners {
		ids = append(ids, o.ID)
	}
	props, err := s.repo.ListOwnerProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOwner := make(map[string][]OwnerProperty, len(owners))
	for _, p := range props {
		byOwner[p.OwnerID] = append(byOwner[p.OwnerID], p)
	}

	items := make([]OwnerRow, 0, len(owners))
	for _, o := range owners {
		items = append(items, OwnerRow{
			ID:         o.ID,
			Username:   o.Username,
			Email:      o.Email,
			Phone:      o.Phone,
			IsActive:   o.IsActive,
			Properties: byOwner[o.ID],
		})
	}

	return &OwnerPage{Items: items, Total: total, Page: page, PageSize: pageSize, Pages: pages}, nil
}

// UpdateContact applies a partial contact update: nil fields are untouched,
// empty strings clear the stored value.
func (s *Service) UpdateContact(ctx context.Context, caller Caller, ownerID string, in ContactUpdateInput) error {
	if !caller.IsAdmin() {
		return ErrAdminsOnly
	}
	if in.Email == nil && in.Phone == nil {
		return ErrNothingToUpdate
	}

	owner, err := s.getOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if email == "" {
				if err := tx.UpdateEmail(ctx, owner.ID, nil); err != nil {
					return err
				}
			} else {
				taken, err := tx.EmailTakenByOther(ctx, email, owner.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrEmailInUse
				}
				if err := tx.UpdateEmail(ctx, owner.ID, &email); err != nil {
					return err
				}
			}
		}

		if in.Phone != nil {
			phone := strings.TrimSpace(*in.Phone)
			if phone == "" {
				return tx.UpdatePhone(ctx, owner.ID, nil)
			}
			if !validPhone(phone) {
				return ErrInvalidPhone
			}
			return tx.UpdatePhone(ctx, owner.ID, &phone)
		}
		return nil
	})
}

func (s *Service) ResetPassword(ctx context.Context, caller Caller, ownerID, newPassword string) error {
	if !caller.IsAdmin() {
		return ErrAdminsOnly
	}
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	owner, err := s.getOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, owner.ID, hash)
}

func (s *Service) SetActive(ctx context.Context, caller Caller, ownerID string, active bool) error {
	if !caller.IsAdmin() {
		return ErrAdminsOnly
	}

	owner, err := s.getOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.repo.UpdateActive(ctx, owner.ID, active)
}

func (s *Service) getOwner(ctx context.Context, ownerID string) (*Identity, error) {
	ident, err := s.repo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, ErrOwnerNotFound
	}
	if ident.Role != RoleOwner {
		return nil, ErrOwnerNotFound
	}
	return ident, nil
}

// validPhone accepts any formatting but requires 7 to 15 digits once
// everything else is stripped.
func validPhone(phone string) bool {
	digits := 0
	for _, ch := range phone {
		if ch >= '0' && ch <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}
