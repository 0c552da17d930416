package identity

import "time"

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Caller is the resolved capability of an authenticated request. Every service
// operation authorizes against it instead of re-reading the users table.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccessProperty reports whether the caller may read or mutate a property
// owned by ownerID. Admins may access anything; owners only their own;
// any other role is refused.
func (c Caller) CanAccessProperty(ownerID string) bool {
	switch c.Role {
	case RoleAdmin:
		return true
	case RoleOwner:
		return c.ID == ownerID
	default:
		return false
	}
}

type Identity struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"not null;uniqueIndex"`
	Email        *string   `gorm:"uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(16);not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	Phone        *string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Identity) TableName() string { return "users" }

// Active applies the role rule: admins count as active regardless of the flag.
func (i *Identity) Active() bool {
	return i.Role == RoleAdmin || i.IsActive
}

// OwnerProperty is the property row created alongside an onboarded owner and
// the brief nested under owner listings. The postgres repository maps it onto
// the properties table.
type OwnerProperty struct {
	ID       string
	OwnerID  string
	Name     string
	Size     *int
	Location *string
}

type OwnerRow struct {
	ID         string
	Username   string
	Email      *string
	Phone      *string
	IsActive   bool
	Properties []OwnerProperty
}

type OwnerPage struct {
	Items    []OwnerRow
	Total    int64
	Page     int
	PageSize int
	Pages    int
}

type OnboardOwnerInput struct {
	Username     string
	Password     string
	Email        string
	Phone        string
	PropertyName string
	Size         int
	Location     string
}

type ContactUpdateInput struct {
	// nil leaves the field untouched; empty string clears it.
	Email *string
	Phone *string
}
