package reservation

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("reservation time conflict")
	ErrNotFound     = errors.New("reservation not found")
	ErrIDGeneration = errors.New("could not allocate a free reservation id")
)
