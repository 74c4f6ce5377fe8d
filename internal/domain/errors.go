package domain

import (
    "errors"
    "fmt"
    "strings"
)

var (
    // ErrDuplicateEntry marks conflicts that map to HTTP 409.
    ErrDuplicateEntry = errors.New("duplicate entry")
    // ErrNotFound marks lookups of rows that do not exist.
    ErrNotFound = errors.New("not found")
)

// ValidationError carries the offending field for a 400 response.
type ValidationError struct {
    Field string
    Msg   string
}

func (e *ValidationError) Error() string {
    if e.Msg != "" { return e.Msg }
    return e.Field + " is required"
}

func Invalid(field, format string, args ...any) error {
    return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// DuplicateStoriesError rejects a bulk import whose ids collide with
// existing non-mock rows. The whole batch is refused.
type DuplicateStoriesError struct {
    IDs []string
}

func (e *DuplicateStoriesError) Error() string {
    return fmt.Sprintf("duplicate story ids: %s", strings.Join(e.IDs, ", "))
}

func (e *DuplicateStoriesError) Unwrap() error { return ErrDuplicateEntry }
