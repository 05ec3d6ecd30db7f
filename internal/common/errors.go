package common

import "errors"

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")

	// transport errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("canister unavailable")

	ErrInternal = errors.New("internal error")
)
