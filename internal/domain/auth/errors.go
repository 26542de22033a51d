package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid worker or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
