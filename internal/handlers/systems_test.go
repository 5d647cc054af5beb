package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gridsim/internal/models"
	"gridsim/internal/repository"
	"gridsim/internal/service"
)

func protectedRequest(t *testing.T, r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header = authHeader("tok")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func minimalDefinition() models.SystemDefinition {
	factors := make([]float64, models.HoursPerDay)
	for i := range factors {
		factors[i] = 1
	}
	return models.SystemDefinition{
		Buses: []models.Bus{
			{ID: 1, Type: models.BusSlack},
			{ID: 2, Type: models.BusPQ, LoadMW: 100},
		},
		Generators: []models.Generator{{ID: "G1", Bus: 1, PMaxMW: 500, CostB: 10}},
		Lines:      []models.Line{{ID: "L1", FromBus: 1, ToBus: 2, ReactancePU: 0.1, CapacityMW: 300}},
		LoadFactors: factors,
	}
}

func TestCreateSystem_OK(t *testing.T) {
	catalog := &mockCatalog{system: models.GridSystem{ID: "sys-1", Name: "grid"}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Catalog: catalog}
	r := newTestRouter(s)

	body, _ := json.Marshal(map[string]any{
		"name":       "grid",
		"definition": minimalDefinition(),
	})
	w := protectedRequest(t, r, http.MethodPost, "/api/v1/systems/", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if catalog.lastName != "grid" || len(catalog.lastDef.Buses) != 2 {
		t.Fatalf("catalog received %q / %+v", catalog.lastName, catalog.lastDef)
	}
}

func TestCreateSystem_ValidationErrorIs400(t *testing.T) {
	catalog := &mockCatalog{err: service.ErrBadLoadFactors}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Catalog: catalog}
	r := newTestRouter(s)

	body, _ := json.Marshal(map[string]any{
		"name":       "grid",
		"definition": minimalDefinition(),
	})
	w := protectedRequest(t, r, http.MethodPost, "/api/v1/systems/", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestGetSystem_NotFound(t *testing.T) {
	catalog := &mockCatalog{err: repository.ErrNotFound}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Catalog: catalog}
	r := newTestRouter(s)

	w := protectedRequest(t, r, http.MethodGet, "/api/v1/systems/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSimulateSystem_ReturnsRun(t *testing.T) {
	planner := &mockPlanner{run: models.SimulationRun{
		RunID:      "run-1",
		SystemID:   "sys-1",
		TotalCost:  2400,
		PeakLoadMW: 110,
	}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Planner: planner}
	r := newTestRouter(s)

	w := protectedRequest(t, r, http.MethodPost, "/api/v1/systems/sys-1/simulate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if planner.lastRunID != "sys-1" {
		t.Fatalf("planner ran %q, want sys-1", planner.lastRunID)
	}

	var run models.SimulationRun
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if run.RunID != "run-1" || run.TotalCost != 2400 {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestSimulateSystem_UnknownSystemIs404(t *testing.T) {
	planner := &mockPlanner{err: repository.ErrNotFound}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Planner: planner}
	r := newTestRouter(s)

	w := protectedRequest(t, r, http.MethodPost, "/api/v1/systems/nope/simulate", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSystemsRoutes_RequireAuth(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}, Catalog: &mockCatalog{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/systems/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
