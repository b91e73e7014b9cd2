package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

func record(org string, year int, month time.Month, day int) payroll.ConfigRecord {
	return payroll.ConfigRecord{
		OrganizationID: org,
		EffectiveFrom:  payroll.NewDate(year, month, day),
		Config:         &payroll.OrganizationConfig{OrganizationID: org, Rules: &payroll.PayrollRules{}},
	}
}

func TestMemory_ResolvePicksLatestEffectiveVersion(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.Save(ctx, record("org-1", 2024, time.January, 1)))
	require.NoError(t, m.Save(ctx, record("org-1", 2025, time.June, 1)))
	require.NoError(t, m.Save(ctx, record("org-1", 2026, time.January, 1)))

	resolved, err := m.Resolve(ctx, "org-1", payroll.NewDate(2025, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, payroll.NewDate(2025, time.June, 1), resolved.EffectiveFrom)
}

func TestMemory_ResolveBeforeFirstVersionFails(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.Save(ctx, record("org-1", 2025, time.June, 1)))

	_, err := m.Resolve(ctx, "org-1", payroll.NewDate(2025, time.May, 31))
	assert.ErrorIs(t, err, payroll.ErrConfigNotFound)
}

func TestMemory_ResolveUnknownOrganizationFails(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.Resolve(ctx, "nowhere", payroll.Today())
	assert.True(t, payroll.IsNotFound(err))
}

func TestMemory_ListVersionsOrderedByEffectiveDate(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// Saved out of order.
	require.NoError(t, m.Save(ctx, record("org-1", 2026, time.January, 1)))
	require.NoError(t, m.Save(ctx, record("org-1", 2024, time.January, 1)))

	versions, err := m.ListVersions(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.True(t, versions[0].EffectiveFrom.Before(versions[1].EffectiveFrom))
}
