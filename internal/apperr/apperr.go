package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no record matches a key.
	ErrNotFound = errors.New("estimate not found")

	// ErrIncompleteQuote is returned when a total is requested for a quote
	// whose mandatory line items are missing or duplicated.
	ErrIncompleteQuote = errors.New("quote is missing mandatory line items")
)

// ValidationError reports a missing or out-of-domain input. Callers recover
// by asking for the field again.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConfigError reports a rate catalog without an entry for a key the
// calculators asked for. It points at a code/config mismatch, not user input.
type ConfigError struct {
	Catalog string
	Table   string
	Key     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog %q: table %s has no entry for %q", e.Catalog, e.Table, e.Key)
}

// UnsupportedAddonError is returned for add-on kinds the registry does not know.
type UnsupportedAddonError struct {
	Kind string
}

func (e *UnsupportedAddonError) Error() string {
	return fmt.Sprintf("unsupported add-on kind %q", e.Kind)
}

// PersistenceConflictError is returned when an upsert cannot decide which
// stored record a key refers to.
type PersistenceConflictError struct {
	Key     string
	Matches int
}

func (e *PersistenceConflictError) Error() string {
	return fmt.Sprintf("key %q matches %d stored estimates", e.Key, e.Matches)
}

// CorruptRecordError reports a stored estimate that no longer decodes. It is
// a server-side data fault even when Err is a ValidationError.
type CorruptRecordError struct {
	Key string
	Err error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("stored estimate %q is unreadable: %v", e.Key, e.Err)
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err carries a CorruptRecordError.
func IsCorrupt(err error) bool {
	var ce *CorruptRecordError
	return errors.As(err, &ce)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfig reports whether err carries a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsUnsupportedAddon reports whether err carries an UnsupportedAddonError.
func IsUnsupportedAddon(err error) bool {
	var ue *UnsupportedAddonError
	return errors.As(err, &ue)
}

// IsConflict reports whether err carries a PersistenceConflictError.
func IsConflict(err error) bool {
	var pe *PersistenceConflictError
	return errors.As(err, &pe)
}
