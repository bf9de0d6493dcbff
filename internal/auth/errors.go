package auth

import "errors"

// Expected auth outcomes. Anything else coming out of this package is a
// store or crypto fault and should surface as a server error.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
