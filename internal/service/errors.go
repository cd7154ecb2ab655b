package service

import "errors"

var (
	// ErrNoActiveCart is returned when finalization is attempted with no
	// reconciled cart in the session.
	ErrNoActiveCart = errors.New("service: no active cart")
	// ErrUnknownUser is returned when the user record cannot be found for
	// an identity that should have registered.
	ErrUnknownUser = errors.New("service: unknown user")
	// ErrOrderNotFound is returned when an approval action references an
	// order that does not exist or has already been resolved.
	ErrOrderNotFound = errors.New("service: order not found")
)
