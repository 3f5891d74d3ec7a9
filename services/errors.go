package services

import (
	"errors"
	"fmt"
	"strings"
)

// Service-level errors returned to the HTTP layer, which maps them to status
// codes (NotFound→404, Locked→403, InvalidArgument→400, everything else→500).
// Validation failures are detected before any write; storage failures are
// wrapped with fmt.Errorf("%w") and surface as internal errors.

// NotFoundError reports referenced entities that do not exist
type NotFoundError struct {
	Resource string
	IDs      []string
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("%s %s not found", e.Resource, e.IDs[0])
	}
	return fmt.Sprintf("%ss not found: %s", e.Resource, strings.Join(e.IDs, ", "))
}

// LockedError reports pick submissions against games past their deadline
type LockedError struct {
	GameIDs []string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("picks are locked for games: %s", strings.Join(e.GameIDs, ", "))
}

// InvalidArgumentError reports malformed input rejected before any write
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsLocked reports whether err is a LockedError
func IsLocked(err error) bool {
	var target *LockedError
	return errors.As(err, &target)
}

// IsInvalidArgument reports whether err is an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}
