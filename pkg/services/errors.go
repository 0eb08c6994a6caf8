package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName       = errors.New("display name cannot be empty")
	ErrAlreadyLoggedIn = errors.New("session already has a display name")
	ErrNotLoggedIn     = errors.New("no active session")
	ErrEmptyQuery      = errors.New("empty query")
	ErrNoResults       = errors.New("no results")
)

// PersistenceError reports a failed write of a persisted collection.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
