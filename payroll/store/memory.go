// Package store provides ConfigStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[string][]payroll.ConfigRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]payroll.ConfigRecord)}
}

// Save appends a new version, keeping the slice ordered by EffectiveFrom.
// The version number is assigned here, not by the caller.
func (m *Memory) Save(_ context.Context, record payroll.ConfigRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.records[record.OrganizationID]
	record.Version = len(records) + 1

	i := sort.Search(len(records), func(i int) bool {
		return records[i].EffectiveFrom.After(record.EffectiveFrom)
	})
	records = append(records, payroll.ConfigRecord{})
	copy(records[i+1:], records[i:])
	records[i] = record
	m.records[record.OrganizationID] = records
	return nil
}

// Resolve picks the latest version effective at asOf.
func (m *Memory) Resolve(_ context.Context, organizationID string, asOf payroll.Date) (*payroll.ConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.records[organizationID]
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].EffectiveFrom.BeforeOrEqual(asOf) {
			r := records[i]
			return &r, nil
		}
	}
	return nil, &payroll.ConfigNotFoundError{OrganizationID: organizationID, AsOf: asOf}
}

func (m *Memory) ListVersions(_ context.Context, organizationID string) ([]payroll.ConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]payroll.ConfigRecord, len(m.records[organizationID]))
	copy(result, m.records[organizationID])
	return result, nil
}
