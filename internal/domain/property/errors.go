package property

import "errors"

var (
	ErrPropertyNotFound = errors.New("farmhouse not found")
	ErrInvalidOwner     = errors.New("owner_id must refer to an owner user")
)
