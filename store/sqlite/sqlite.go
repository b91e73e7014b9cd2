/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements payroll.ConfigStore (versioned organization configurations)
  plus holiday calendars and a calculation history log using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  payroll.ConfigStore: Versioned config snapshots with as-of resolution

VERSIONING:
  Config rows are never updated in place. Every Save inserts a new row
  with the next version number; Resolve picks the newest row whose
  effective_from date is on or before the requested date. History stays
  queryable for retroactive recalculation.

KEY TABLES:
  org_configs:  Versioned config snapshots (JSON payload per row)
  holidays:     Per-organization holiday calendar
  calculations: History of calculation runs (params + result JSON)

INDEXES:
  - idx_org_configs_effective: As-of resolution (hot path)
  - idx_holidays_org_date: Calendar lookups by organization and year

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  record, err := store.Resolve(ctx, "org-1", payroll.Today())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: Interface definition
  - payroll/store/memory.go: In-memory implementation for testing
  - factory/config.go: The JSON form persisted here
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements the persistence interfaces using SQLite.
type Store struct {
	db      *sql.DB
	factory *factory.ConfigFactory
	mu      sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewConfigFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Versioned organization configurations (insert-only)
	CREATE TABLE IF NOT EXISTS org_configs (
		organization_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (organization_id, version)
	);

	-- As-of resolution scans versions newest-first per organization
	CREATE INDEX IF NOT EXISTS idx_org_configs_effective
		ON org_configs(organization_id, effective_from DESC);

	-- Holiday calendar per organization
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		date TEXT NOT NULL,
		name TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_org_date
		ON holidays(organization_id, date);

	-- Calculation history (params and result stored as JSON)
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		config_version INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_org
		ON calculations(organization_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFIG STORE (payroll.ConfigStore interface)
// =============================================================================

// Save inserts a new config version. The version number is assigned here:
// one past the organization's current highest version.
func (s *Store) Save(ctx context.Context, record payroll.ConfigRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Config == nil {
		return payroll.ErrMissingConfig
	}

	cj, err := s.factory.ToJSON(record.Config)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(cj)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM org_configs WHERE organization_id = ?`,
		record.OrganizationID,
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read current version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO org_configs (organization_id, version, effective_from, config_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.OrganizationID,
		current.Int64+1,
		record.EffectiveFrom.String(),
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return tx.Commit()
}

// Resolve returns the config version in effect on the given date.
func (s *Store) Resolve(ctx context.Context, orgID string, asOf payroll.Date) (*payroll.ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT organization_id, version, effective_from, config_json
		FROM org_configs
		WHERE organization_id = ? AND effective_from <= ?
		ORDER BY effective_from DESC, version DESC
		LIMIT 1`,
		orgID, asOf.String(),
	)

	record, err := s.scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, &payroll.ConfigNotFoundError{OrganizationID: orgID, AsOf: asOf}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config: %w", err)
	}
	return &record, nil
}

// ListVersions returns all config versions for an organization, ordered
// by effective date.
func (s *Store) ListVersions(ctx context.Context, orgID string) ([]payroll.ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT organization_id, version, effective_from, config_json
		FROM org_configs
		WHERE organization_id = ?
		ORDER BY effective_from ASC, version ASC`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var records []payroll.ConfigRecord
	for rows.Next() {
		record, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRecord(row rowScanner) (payroll.ConfigRecord, error) {
	var record payroll.ConfigRecord
	var effectiveFrom, payload string

	if err := row.Scan(&record.OrganizationID, &record.Version, &effectiveFrom, &payload); err != nil {
		return payroll.ConfigRecord{}, err
	}

	date, err := payroll.ParseDate(effectiveFrom)
	if err != nil {
		return payroll.ConfigRecord{}, fmt.Errorf("corrupt effective_from %q: %w", effectiveFrom, err)
	}
	record.EffectiveFrom = date

	cfg, err := s.factory.ParseConfig(payload)
	if err != nil {
		return payroll.ConfigRecord{}, fmt.Errorf("corrupt config payload: %w", err)
	}
	record.Config = cfg

	return record, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a named calendar entry for one organization.
type Holiday struct {
	ID             string
	OrganizationID string
	Date           payroll.Date
	Name           string
}

// SaveHoliday inserts or replaces a holiday. One entry per organization
// and date.
func (s *Store) SaveHoliday(ctx context.Context, h Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, organization_id, date, name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(organization_id, date) DO UPDATE SET name = excluded.name`,
		h.ID,
		h.OrganizationID,
		h.Date.String(),
		h.Name,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes a holiday by id.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// ListHolidays returns an organization's holidays, optionally filtered
// by year (0 = all years), ordered by date.
func (s *Store) ListHolidays(ctx context.Context, orgID string, year int) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, organization_id, date, name FROM holidays WHERE organization_id = ?`
	args := []any{orgID}
	if year > 0 {
		query += ` AND date >= ? AND date <= ?`
		args = append(args, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var date string
		var name sql.NullString
		if err := rows.Scan(&h.ID, &h.OrganizationID, &date, &name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		d, err := payroll.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt holiday date %q: %w", date, err)
		}
		h.Date = d
		h.Name = name.String
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// CALCULATION HISTORY
// =============================================================================

// CalculationRun is one persisted engine invocation.
type CalculationRun struct {
	ID             string
	OrganizationID string
	ConfigVersion  int
	Params         payroll.CalculationParams
	Result         payroll.CalculationResult
	CreatedAt      time.Time
}

// SaveCalculation records a calculation run.
func (s *Store) SaveCalculation(ctx context.Context, run CalculationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculations (id, organization_id, config_version, params_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.OrganizationID,
		run.ConfigVersion,
		string(paramsJSON),
		string(resultJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// ListCalculations returns the most recent runs for an organization,
// newest first.
func (s *Store) ListCalculations(ctx context.Context, orgID string, limit int) ([]CalculationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, config_version, params_json, result_json, created_at
		FROM calculations
		WHERE organization_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		orgID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var runs []CalculationRun
	for rows.Next() {
		var run CalculationRun
		var paramsJSON, resultJSON, createdAt string
		if err := rows.Scan(&run.ID, &run.OrganizationID, &run.ConfigVersion, &paramsJSON, &resultJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
			return nil, fmt.Errorf("corrupt params payload: %w", err)
		}
		if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
			return nil, fmt.Errorf("corrupt result payload: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			run.CreatedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Reset clears all data. Test helper.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"org_configs", "holidays", "calculations"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
