package store

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence     = errors.New("persistence failed")
	ErrCorruptSnapshot = errors.New("stored snapshot is corrupt")
)

// PersistenceError is returned when a slot cannot be read, decoded or written.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
