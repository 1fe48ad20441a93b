package service

import "errors"

// Domain error kinds. Services wrap these with context via fmt.Errorf("%w: ...")
// and the API layer maps them to HTTP statuses with errors.Is. Anything not
// matching one of these is treated as an internal failure.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrDuplicate   = errors.New("already exists")
	ErrUnavailable = errors.New("external data unavailable")
)
