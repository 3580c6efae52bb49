package auth

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrCredentials = errors.New("invalid credentials")
)
