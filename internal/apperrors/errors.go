// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a repository is unknown to the store.
var ErrNotFound = errors.New("repository not found")

// ProviderError wraps a failure of the upstream ranking/commit source.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
