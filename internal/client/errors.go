package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthenticated = errors.New("not logged in or session expired")
	ErrForbidden       = errors.New("not the owner")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)
