package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for the catalog. Handlers branch on these with
// errors.Is; the typed errors below carry the details.
var (
	// ErrConflict indicates a create with an id that already exists.
	ErrConflict = errors.New("already exists")

	// ErrNotFound indicates that requested key values are absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed or ambiguous request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable indicates a failed external API call.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ConflictError reports a duplicate character id on create.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("'%s' already exists", e.ID)
}

// Is implements errors.Is support.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NotFoundError reports the exact subset of requested values that are
// absent from the store. Field names the lookup column.
type NotFoundError struct {
	Field   string
	Missing []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s [%s] not found", e.Field, strings.Join(e.Missing, " "))
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UpstreamError wraps a failed call to an external provider.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
