/*
store.go - Versioned configuration store interface

PURPOSE:
  Defines the interface between the engine's surroundings and the
  configuration record store. A store holds OrganizationConfig snapshots
  keyed by organization and effective-from date; Resolve picks the single
  snapshot in effect at a given date.

  The engine itself NEVER calls this interface — it receives a fully
  resolved config by value. Only the API and presentation layers resolve
  snapshots, once per calculation call.

IMPLEMENTATIONS:
  - payroll/store: in-memory, for testing and development
  - store/sqlite:  SQLite-backed, for the server

SEE ALSO:
  - engine.go: Consumes resolved configs, read-only
  - factory: JSON representation persisted by the SQLite store
*/
package payroll

import "context"

// ConfigRecord is one stored configuration version.
type ConfigRecord struct {
	OrganizationID string
	Version        int
	EffectiveFrom  Date
	Config         *OrganizationConfig
}

// ConfigStore persists and resolves configuration snapshots.
// Saving never mutates an existing version; each save is a new version.
type ConfigStore interface {
	// Save persists a new configuration version.
	Save(ctx context.Context, record ConfigRecord) error

	// Resolve returns the latest version whose EffectiveFrom <= asOf.
	// Returns an error wrapping ErrConfigNotFound when none qualifies.
	Resolve(ctx context.Context, organizationID string, asOf Date) (*ConfigRecord, error)

	// ListVersions returns all versions for an organization, ordered by
	// EffectiveFrom ascending.
	ListVersions(ctx context.Context, organizationID string) ([]ConfigRecord, error)
}
