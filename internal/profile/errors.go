package profile

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no profile has the requested id.
var ErrNotFound = errors.New("profile not found")

// StorageError reports a failed read or write of the durable store. The
// registry state prior to the failed write stays authoritative.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s profile store: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
