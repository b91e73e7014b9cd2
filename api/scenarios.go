/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario stores organization config
	versions and holidays that demonstrate specific features.

AVAILABLE SCENARIOS:

	demo:            Small round numbers, easy to verify by hand
	public-sector:   Progressive brackets, ceiling, derived per-diem scheme
	fixed-rate:      Flat per-diem rates, manual travel days
	yearly-revision: Two config versions showing as-of resolution

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save one or more config versions via the store
 3. Add holidays where the scenario exercises the travel calendar

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "public-sector"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Calculation and config handlers
  - presets/presets.go: The configs loaded here
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/presets"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "demo",
		Name:        "Demo Organization",
		Description: "Small round numbers that are easy to verify by hand",
		Category:    "basic",
	},
	{
		ID:          "public-sector",
		Name:        "Public Sector",
		Description: "Progressive tax brackets, contribution ceiling, derived per-diem scheme",
		Category:    "payroll",
	},
	{
		ID:          "fixed-rate",
		Name:        "Fixed-Rate Agency",
		Description: "Flat per-diem rates per role with manual travel days",
		Category:    "payroll",
	},
	{
		ID:          "yearly-revision",
		Name:        "Yearly Revision",
		Description: "Two config versions showing as-of date resolution",
		Category:    "config",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario reports the last loaded scenario.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and loads the named scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset database", err)
		return
	}
	h.invalidateEngines()

	var err error
	switch req.ScenarioID {
	case "demo":
		err = loadDemoScenario(ctx, h)
	case "public-sector":
		err = loadPublicSectorScenario(ctx, h)
	case "fixed-rate":
		err = loadFixedRateScenario(ctx, h)
	case "yearly-revision":
		err = loadYearlyRevisionScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadDemoScenario(ctx context.Context, h *Handler) error {
	return h.Store.Save(ctx, payroll.ConfigRecord{
		OrganizationID: "demo",
		EffectiveFrom:  payroll.NewDate(2024, time.January, 1),
		Config:         presets.DemoOrganization(),
	})
}

func loadPublicSectorScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.Save(ctx, payroll.ConfigRecord{
		OrganizationID: "org-public",
		EffectiveFrom:  payroll.NewDate(2024, time.January, 1),
		Config:         presets.StandardPublicSector("org-public"),
	}); err != nil {
		return err
	}

	// National holidays exercised by the travel calendar.
	holidays := []sqlite.Holiday{
		{ID: "hol-new-year", OrganizationID: "org-public", Date: payroll.NewDate(2026, time.January, 1), Name: "New Year"},
		{ID: "hol-labor-day", OrganizationID: "org-public", Date: payroll.NewDate(2026, time.May, 1), Name: "Labor Day"},
		{ID: "hol-independence", OrganizationID: "org-public", Date: payroll.NewDate(2026, time.September, 7), Name: "Independence Day"},
	}
	for _, holiday := range holidays {
		if err := h.Store.SaveHoliday(ctx, holiday); err != nil {
			return err
		}
	}
	return nil
}

func loadFixedRateScenario(ctx context.Context, h *Handler) error {
	return h.Store.Save(ctx, payroll.ConfigRecord{
		OrganizationID: "org-agency",
		EffectiveFrom:  payroll.NewDate(2024, time.January, 1),
		Config:         presets.FixedRateAgency("org-agency"),
	})
}

func loadYearlyRevisionScenario(ctx context.Context, h *Handler) error {
	// Version 1: the base tables.
	v1 := presets.DemoOrganization()
	v1.OrganizationID = "org-revision"
	if err := h.Store.Save(ctx, payroll.ConfigRecord{
		OrganizationID: "org-revision",
		EffectiveFrom:  payroll.NewDate(2025, time.January, 1),
		Config:         v1,
	}); err != nil {
		return err
	}

	// Version 2: the next yearly revision adds an adjustment period.
	v2 := presets.DemoOrganization()
	v2.OrganizationID = "org-revision"
	v2.Adjustments = append(v2.Adjustments, payroll.AdjustmentEntry{
		Period:        3,
		Percent:       payroll.Money(8),
		EffectiveFrom: payroll.NewDate(2026, time.January, 1),
	})
	return h.Store.Save(ctx, payroll.ConfigRecord{
		OrganizationID: "org-revision",
		EffectiveFrom:  payroll.NewDate(2026, time.January, 1),
		Config:         v2,
	})
}
