/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Calculation endpoint (config resolution + engine + history)
- Config versioning endpoints
- Active period resolution
- Holiday management
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/presets"
	"github.com/warp/payroll-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store)
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)

	return handler, server
}

func saveDemoConfig(t *testing.T, h *Handler) {
	t.Helper()
	err := h.Store.Save(context.Background(), payroll.ConfigRecord{
		OrganizationID: "demo",
		EffectiveFrom:  payroll.NewDate(2024, time.January, 1),
		Config:         presets.DemoOrganization(),
	})
	if err != nil {
		t.Fatalf("Failed to save demo config: %v", err)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestCalculate_BaseComposition(t *testing.T) {
	// GIVEN: The demo config (analyst a1 = 3000, gratification 60%)
	handler, server := newTestServer(t)
	saveDemoConfig(t, handler)

	// WHEN: Calculating an analyst with no extras
	resp := postJSON(t, server.URL+"/api/calculations", CalculateRequest{
		OrganizationID: "demo",
		AsOf:           "2026-01-15",
		Params: CalculationParamsDTO{
			Role:                 "analyst",
			PayTier:              "a1",
			ContributionTableKey: "default",
			TaxTableKey:          "default",
			CeilingApplies:       true,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decodeJSON[CalculationResultDTO](t, resp)

	// THEN: Gross = 3000 + 1800, contribution 458, tax 519.05
	if !approx(result.TotalGross, 4800) {
		t.Errorf("total gross: expected 4800, got %v", result.TotalGross)
	}
	if !approx(result.Breakdown[payroll.KeyContribution], 458) {
		t.Errorf("contribution: expected 458, got %v", result.Breakdown[payroll.KeyContribution])
	}
	if !approx(result.Breakdown[payroll.KeyIncomeTax], 519.05) {
		t.Errorf("income tax: expected 519.05, got %v", result.Breakdown[payroll.KeyIncomeTax])
	}
	if !approx(result.NetPay, result.TotalGross-result.TotalDeductions) {
		t.Errorf("net pay %v != gross %v - deductions %v",
			result.NetPay, result.TotalGross, result.TotalDeductions)
	}
	if result.ConfigVersion != 1 {
		t.Errorf("config version: expected 1, got %d", result.ConfigVersion)
	}
}

func TestCalculate_RecordsHistory(t *testing.T) {
	// GIVEN: A completed calculation
	handler, server := newTestServer(t)
	saveDemoConfig(t, handler)

	resp := postJSON(t, server.URL+"/api/calculations", CalculateRequest{
		OrganizationID: "demo",
		Params: CalculationParamsDTO{
			Role: "analyst", PayTier: "a1",
			ContributionTableKey: "default", TaxTableKey: "default",
		},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// WHEN: Reading the organization's calculation history
	histResp, err := http.Get(server.URL + "/api/organizations/demo/calculations")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	runs := decodeJSON[[]CalculationRunDTO](t, histResp)

	// THEN: The run is recorded with the resolved config version
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].ConfigVersion != 1 {
		t.Errorf("config version: expected 1, got %d", runs[0].ConfigVersion)
	}
}

func TestCalculate_UnknownOrganization(t *testing.T) {
	_, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/calculations", CalculateRequest{
		OrganizationID: "nowhere",
		Params:         CalculationParamsDTO{Role: "analyst", PayTier: "a1"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestConfigVersioning_AsOfResolution(t *testing.T) {
	// GIVEN: Two config versions with different effective dates
	handler, server := newTestServer(t)

	v1 := presets.DemoOrganization()
	v1.OrganizationID = "org-x"
	if err := handler.Store.Save(context.Background(), payroll.ConfigRecord{
		OrganizationID: "org-x",
		EffectiveFrom:  payroll.NewDate(2025, time.January, 1),
		Config:         v1,
	}); err != nil {
		t.Fatalf("Failed to save v1: %v", err)
	}

	v2 := presets.DemoOrganization()
	v2.OrganizationID = "org-x"
	if err := handler.Store.Save(context.Background(), payroll.ConfigRecord{
		OrganizationID: "org-x",
		EffectiveFrom:  payroll.NewDate(2026, time.January, 1),
		Config:         v2,
	}); err != nil {
		t.Fatalf("Failed to save v2: %v", err)
	}

	// WHEN/THEN: A 2025 date resolves to version 1
	resp, err := http.Get(server.URL + "/api/organizations/org-x/config?as_of=2025-06-01")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	cfg := decodeJSON[ConfigDTO](t, resp)
	if cfg.Version != 1 {
		t.Errorf("as-of 2025-06-01: expected version 1, got %d", cfg.Version)
	}

	// WHEN/THEN: A 2026 date resolves to version 2
	resp, err = http.Get(server.URL + "/api/organizations/org-x/config?as_of=2026-06-01")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	cfg = decodeJSON[ConfigDTO](t, resp)
	if cfg.Version != 2 {
		t.Errorf("as-of 2026-06-01: expected version 2, got %d", cfg.Version)
	}

	// AND: Both versions are listed
	resp, err = http.Get(server.URL + "/api/organizations/org-x/config/versions")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	versions := decodeJSON[[]ConfigVersionDTO](t, resp)
	if len(versions) != 2 {
		t.Errorf("expected 2 versions, got %d", len(versions))
	}
}

func TestGetActivePeriod(t *testing.T) {
	// GIVEN: The demo config with adjustment periods effective 2024 and 2025
	handler, server := newTestServer(t)
	saveDemoConfig(t, handler)

	// WHEN: Asking for the active period mid-2024
	resp, err := http.Get(server.URL + "/api/organizations/demo/active-period?as_of=2024-06-01")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	active := decodeJSON[ActivePeriodDTO](t, resp)

	// THEN: Period 1 is active (period 2 only starts in 2025)
	if !active.Found || active.PeriodIndex != 1 {
		t.Errorf("expected period 1, got %+v", active)
	}
}

func TestBreakdownKeysContract(t *testing.T) {
	_, server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/breakdown-keys")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	keys := decodeJSON[BreakdownKeysDTO](t, resp)

	if len(keys.Credits) == 0 || len(keys.Debits) == 0 {
		t.Errorf("expected non-empty key lists, got %+v", keys)
	}
}

func TestHolidays_CreateListDelete(t *testing.T) {
	_, server := newTestServer(t)

	// Create
	resp := postJSON(t, server.URL+"/api/holidays", CreateHolidayRequest{
		OrganizationID: "demo",
		Date:           "2026-03-03",
		Name:           "Founders Day",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[HolidayDTO](t, resp)

	// List
	listResp, err := http.Get(server.URL + "/api/holidays?organization_id=demo&year=2026")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	holidays := decodeJSON[[]HolidayDTO](t, listResp)
	if len(holidays) != 1 || holidays[0].Date != "2026-03-03" {
		t.Fatalf("expected the created holiday, got %+v", holidays)
	}

	// Delete
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/holidays/%s", server.URL, created.ID), nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", delResp.StatusCode)
	}

	listResp, err = http.Get(server.URL + "/api/holidays?organization_id=demo&year=2026")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	holidays = decodeJSON[[]HolidayDTO](t, listResp)
	if len(holidays) != 0 {
		t.Errorf("expected no holidays after delete, got %+v", holidays)
	}
}
