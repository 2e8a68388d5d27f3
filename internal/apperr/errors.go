package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidID     = errors.New("invalid warband id")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid snapshot")
)
