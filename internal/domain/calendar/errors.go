package calendar

import "errors"

var (
	ErrDayNotFound = errors.New("day record not found")
	ErrForbidden   = errors.New("forbidden")
	ErrPastDate    = errors.New("cannot modify past dates")
	ErrDayLocked   = errors.New("date is locked by admin")
)
