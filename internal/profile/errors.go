package profile

import "errors"

var (
	ErrInvalidState         = errors.New("profile: invalid state")
	ErrTypeMismatch         = errors.New("profile: type mismatch")
	ErrInvalidArgument      = errors.New("profile: invalid argument")
	ErrUnsupportedOperation = errors.New("profile: unsupported operation")
	ErrNotFound             = errors.New("profile: not found")
	ErrCyclicReference      = errors.New("profile: cyclic chain reference")
)
