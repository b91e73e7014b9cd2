/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Surrounding layers (api, store) wrap these errors with added context.

ERROR CATEGORIES:
  1. Precondition errors - Absent configuration the engine must not guess
  2. Store errors - Config store lookup failures
  3. Input errors - Malformed caller input

FAILURE SEMANTICS:
  The engine distinguishes fatal preconditions from degradable gaps:
  - Absent OrganizationConfig or PayrollRules: fatal, raised immediately
  - Absent optional tables (brackets, holidays, per-diem rates): degrade
    to zero and continue

USAGE:
    if errors.Is(err, payroll.ErrMissingRules) {
        // reject the request, the configuration is unusable
    }

SEE ALSO:
  - engine.go: Raises precondition errors
  - store.go: Uses store errors
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingConfig is returned when no OrganizationConfig was supplied.
	// The engine never guesses rule constants.
	ErrMissingConfig = errors.New("organization config is required")

	// ErrMissingRules is returned when the config carries no payroll rules.
	ErrMissingRules = errors.New("payroll rules are required")

	// ErrConfigNotFound is returned by config stores when no snapshot
	// covers the requested organization and as-of date.
	ErrConfigNotFound = errors.New("no config version found")

	// ErrInvalidDate is returned when a date string does not parse as
	// an ISO calendar date (2006-01-02).
	ErrInvalidDate = errors.New("invalid calendar date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigNotFoundError reports which lookup failed.
type ConfigNotFoundError struct {
	OrganizationID string
	AsOf           Date
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no config version for organization %q as of %s", e.OrganizationID, e.AsOf)
}

func (e *ConfigNotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPrecondition returns true when the error is a fatal precondition
// failure rather than a degradable configuration gap.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrMissingConfig) ||
		errors.Is(err, ErrMissingRules)
}

// IsNotFound returns true if the error indicates a missing config snapshot.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}
