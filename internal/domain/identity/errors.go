package identity

import "errors"

var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrAdminsOnly         = errors.New("admins only")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidPhone       = errors.New("phone must contain 7 to 15 digits")
	ErrInvalidSize        = errors.New("size must be a positive integer")
	ErrNothingToUpdate    = errors.New("provide email and/or phone to update")
)
