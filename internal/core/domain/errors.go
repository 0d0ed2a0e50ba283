package domain

import "errors"

// ErrBadCredentials is returned for a failed login. An unknown username and a
// wrong password deliberately produce the same error.
var ErrBadCredentials = errors.New("bad credentials")

// Token verification failures.
var (
	ErrEmptyToken       = errors.New("token is empty")
	ErrMalformedToken   = errors.New("malformed token")
	ErrExpiredToken     = errors.New("expired token")
	ErrUnsupportedToken = errors.New("unsupported token")
)

// ErrUnknownSubject is returned when a token verifies but its subject no
// longer exists. Tokens are stateless and cannot be revoked, so privileged
// operations re-validate subject existence on every request.
var ErrUnknownSubject = errors.New("unknown token subject")

// Resource access failures.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access forbidden")
)

// Uniqueness violations.
var (
	ErrDuplicateTitle    = errors.New("title already in use")
	ErrDuplicateName     = errors.New("name already in use")
	ErrDuplicateUsername = errors.New("username already in use")
)

// ErrInvalidSort is returned for an unknown sort field or direction.
var ErrInvalidSort = errors.New("invalid sort specification")
