package api

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("permission denied")
)

// TransientError is a fetch failure for reasons other than auth:
// timeout, transport, 5xx. View-local concern with a manual retry
// affordance; never escalated to a logout, never retried in a loop.
type TransientError struct {
	Status int // 0 when the request never completed
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend unavailable (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth a manual retry.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
