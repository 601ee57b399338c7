package services

import "errors"

var (
	// ErrInvalidArgument reports a malformed user name, password or book id.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForeignLocator reports a blob key outside the caller's namespace.
	ErrForeignLocator = errors.New("locator belongs to another owner")
)
