package service

import "errors"

// Caller-facing error taxonomy of the session protocol. The fine-grained
// token failures from the codec (signature, malformed, expired) all collapse
// into ErrInvalidToken here so callers cannot distinguish a tampered token
// from an expired one.
var (
	ErrIdentityAlreadyExists = errors.New("identity already exists")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
)
