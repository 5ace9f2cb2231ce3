package domain

import "errors"

// Authentication / authorization errors.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password —
	// callers must never be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrIdentityInactive   = errors.New("identity inactive")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Domain-object errors.
var (
	ErrDistrictNotFound  = errors.New("district not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDuplicateContract = errors.New("contract number already in use")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownSection    = errors.New("unknown section")
	ErrInvalidWeights    = errors.New("section weights must be positive")
)
