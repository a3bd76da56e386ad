package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes; anything else is treated as an internal error.
var (
	ErrEmailTaken          = errors.New("account already exists")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("could not validate credentials")
	ErrInvalidVerification = errors.New("invalid verification token")
	ErrInvalidBirthday     = errors.New("invalid birthday format, expected YYYY-MM-DD")
	ErrNotFound            = errors.New("contact not found")
)
