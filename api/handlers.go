/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculations:
    POST   /api/calculations                          Run a calculation
    GET    /api/breakdown-keys                        Breakdown key contract

  Organizations:
    GET    /api/organizations/{id}/config             Resolve config (as-of)
    POST   /api/organizations/{id}/config             Save new config version
    GET    /api/organizations/{id}/config/versions    List config versions
    GET    /api/organizations/{id}/active-period      Active adjustment period
    GET    /api/organizations/{id}/calculations       Calculation history

  Holidays:
    GET    /api/holidays?organization_id=&year=       List holidays
    POST   /api/holidays                              Create holiday
    DELETE /api/holidays/{id}                         Delete holiday

  Scenarios:
    GET    /api/scenarios                             List demo scenarios
    POST   /api/scenarios/load                        Load a demo scenario
    POST   /api/scenarios/reset                       Reset database

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (versioned configs, holidays, history)
  - Factory: JSON to config conversion
  - Cached engines per organization for quick repeat calculations

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Resolve the config version in effect on the as-of date
  4. Call domain logic (engine, resolver)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Organization/config not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.ConfigFactory

	// Cached engines keyed by organization. An entry is reused only while
	// its config version still matches the resolved one.
	mu      sync.RWMutex
	engines map[string]cachedEngine

	// Track currently loaded scenario
	currentScenario string
}

type cachedEngine struct {
	version int
	engine  *payroll.Engine
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewConfigFactory(),
		engines: make(map[string]cachedEngine),
	}
}

// resolveEngine returns the engine for the config version in effect on
// the given date, reusing the cached instance when the version matches.
// The organization's stored holiday calendar is merged into the config's
// travel holiday list when the engine is built.
func (h *Handler) resolveEngine(r *http.Request, orgID string, asOf payroll.Date) (*payroll.Engine, int, error) {
	record, err := h.Store.Resolve(r.Context(), orgID, asOf)
	if err != nil {
		return nil, 0, err
	}

	h.mu.RLock()
	cached, ok := h.engines[orgID]
	h.mu.RUnlock()
	if ok && cached.version == record.Version {
		return cached.engine, record.Version, nil
	}

	holidays, err := h.Store.ListHolidays(r.Context(), orgID, 0)
	if err != nil {
		return nil, 0, err
	}
	for _, holiday := range holidays {
		record.Config.Dailies.Holidays = append(record.Config.Dailies.Holidays, holiday.Date)
	}

	engine, err := payroll.NewEngine(record.Config)
	if err != nil {
		return nil, 0, err
	}

	h.mu.Lock()
	h.engines[orgID] = cachedEngine{version: record.Version, engine: engine}
	h.mu.Unlock()

	return engine, record.Version, nil
}

// invalidateEngines drops all cached engines. Called after scenario loads
// and resets, and by the refresher when effective dates roll over.
func (h *Handler) invalidateEngines() {
	h.mu.Lock()
	h.engines = make(map[string]cachedEngine)
	h.mu.Unlock()
}

// cachedOrganizations returns the organizations with a cached engine.
func (h *Handler) cachedOrganizations() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	orgs := make([]string, 0, len(h.engines))
	for org := range h.engines {
		orgs = append(orgs, org)
	}
	return orgs
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate runs one payroll calculation.
// POST /api/calculations
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.OrganizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required", nil)
		return
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err)
		return
	}

	engine, version, err := h.resolveEngine(r, req.OrganizationID, asOf)
	if err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "no config in effect for organization", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve config", err)
		return
	}

	params := req.Params.toDomain(req.OrganizationID)
	result, err := engine.Calculate(params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "calculation failed", err)
		return
	}

	run := sqlite.CalculationRun{
		ID:             fmt.Sprintf("calc-%d", time.Now().UnixNano()),
		OrganizationID: req.OrganizationID,
		ConfigVersion:  version,
		Params:         params,
		Result:         result,
	}
	if err := h.Store.SaveCalculation(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record calculation", err)
		return
	}

	writeJSON(w, http.StatusOK, toResultDTO(req.OrganizationID, version, result))
}

// GetBreakdownKeys returns the breakdown key contract.
// GET /api/breakdown-keys
func (h *Handler) GetBreakdownKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BreakdownKeysDTO{
		Credits: payroll.CreditKeys,
		Debits:  payroll.DebitKeys,
	})
}

// ListCalculations returns the recent calculation history.
// GET /api/organizations/{id}/calculations?limit=
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.Store.ListCalculations(r.Context(), orgID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list calculations", err)
		return
	}

	dtos := make([]CalculationRunDTO, 0, len(runs))
	for _, run := range runs {
		dto := CalculationRunDTO{
			ID:             run.ID,
			OrganizationID: run.OrganizationID,
			ConfigVersion:  run.ConfigVersion,
			CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		}
		dto.NetPay, _ = run.Result.NetPay.Float64()
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig resolves the config in effect for an organization.
// GET /api/organizations/{id}/config?as_of=
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err)
		return
	}

	record, err := h.Store.Resolve(r.Context(), orgID, asOf)
	if err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "no config in effect for organization", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve config", err)
		return
	}

	cj, err := h.Factory.ToJSON(record.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode config", err)
		return
	}

	writeJSON(w, http.StatusOK, ConfigDTO{
		Version:       record.Version,
		EffectiveFrom: record.EffectiveFrom.String(),
		Config:        cj,
	})
}

// SaveConfig stores a new config version for an organization.
// POST /api/organizations/{id}/config
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	var req SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	effectiveFrom, err := payroll.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid effective_from date", err)
		return
	}

	// The URL owns the organization identity.
	req.Config.OrganizationID = orgID
	cfg, err := h.Factory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid config", err)
		return
	}

	record := payroll.ConfigRecord{
		OrganizationID: orgID,
		EffectiveFrom:  effectiveFrom,
		Config:         cfg,
	}
	if err := h.Store.Save(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config", err)
		return
	}

	h.invalidateEngines()
	w.WriteHeader(http.StatusCreated)
}

// ListConfigVersions lists all stored versions for an organization.
// GET /api/organizations/{id}/config/versions
func (h *Handler) ListConfigVersions(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	records, err := h.Store.ListVersions(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list versions", err)
		return
	}

	dtos := make([]ConfigVersionDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, ConfigVersionDTO{
			OrganizationID: record.OrganizationID,
			Version:        record.Version,
			EffectiveFrom:  record.EffectiveFrom.String(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetActivePeriod reports the adjustment period in effect on a date.
// Period auto-selection lives here, in the presentation layer; the engine
// always takes an explicit period index.
// GET /api/organizations/{id}/active-period?as_of=
func (h *Handler) GetActivePeriod(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "id")

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err)
		return
	}

	record, err := h.Store.Resolve(r.Context(), orgID, asOf)
	if err != nil {
		if payroll.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "no config in effect for organization", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve config", err)
		return
	}

	period, found := payroll.ActivePeriodIndex(record.Config.Adjustments, asOf)
	writeJSON(w, http.StatusOK, ActivePeriodDTO{
		OrganizationID: orgID,
		AsOf:           asOf.String(),
		PeriodIndex:    period,
		Found:          found,
	})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns an organization's holidays.
// GET /api/holidays?organization_id=&year=
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required", nil)
		return
	}
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	holidays, err := h.Store.ListHolidays(r.Context(), orgID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:             holiday.ID,
			OrganizationID: holiday.OrganizationID,
			Date:           holiday.Date.String(),
			Name:           holiday.Name,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to an organization's calendar.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.OrganizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required", nil)
		return
	}

	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	holiday := sqlite.Holiday{
		ID:             fmt.Sprintf("hol-%d", time.Now().UnixNano()),
		OrganizationID: req.OrganizationID,
		Date:           date,
		Name:           req.Name,
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save holiday", err)
		return
	}
	h.dropEngine(req.OrganizationID)

	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:             holiday.ID,
		OrganizationID: holiday.OrganizationID,
		Date:           holiday.Date.String(),
		Name:           holiday.Name,
	})
}

// DeleteHoliday removes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete holiday", err)
		return
	}
	// The holiday's organization is not in the URL; drop every cached engine.
	h.invalidateEngines()
	w.WriteHeader(http.StatusNoContent)
}

// ResetDatabase clears all data. Dev/demo only.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset database", err)
		return
	}
	h.invalidateEngines()
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseAsOf(s string) (payroll.Date, error) {
	if s == "" {
		return payroll.Today(), nil
	}
	return payroll.ParseDate(s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
