package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrBroadcastNotFound = errors.New("broadcast not found")
)
