package auth

import "errors"

// Service errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a special character")
	ErrInvalidInput       = errors.New("invalid registration input")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
