package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrExternalDependency marks a failed call to an outside collaborator
	// (mail gateway, identity provider). Callers log it and keep going;
	// it never fails the request that triggered it.
	ErrExternalDependency = errors.New("external dependency failure")
)
