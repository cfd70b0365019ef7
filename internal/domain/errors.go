package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the review engine. Match them with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrState            = errors.New("invalid state")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNoWordsDue       = errors.New("no words due for review")
	ErrPersistence      = errors.New("persistence error")
)

// FlushError reports review results that could not be persisted.
// The session that produced them is kept so the flush can be retried.
type FlushError struct {
	Words []string
	Err   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("%s: %d review results not persisted (%s): %v",
		ErrPersistence, len(e.Words), strings.Join(e.Words, ", "), e.Err)
}

// Is makes FlushError match ErrPersistence.
func (e *FlushError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *FlushError) Unwrap() error {
	return e.Err
}
