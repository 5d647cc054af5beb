package handlers

import (
	"context"
	"net/http"

	"gridsim/internal/models"
	"gridsim/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCatalog struct {
	system     models.GridSystem
	systems    []models.GridSystem
	err        error
	lastName   string
	lastDef    models.SystemDefinition
	deleteErr  error
	lastGetID  string
	lastDelID  string
	createHits int
}

func (m *mockCatalog) Create(ctx context.Context, name string, def models.SystemDefinition) (models.GridSystem, error) {
	m.createHits++
	m.lastName = name
	m.lastDef = def
	return m.system, m.err
}
func (m *mockCatalog) Get(ctx context.Context, id string) (models.GridSystem, error) {
	m.lastGetID = id
	return m.system, m.err
}
func (m *mockCatalog) List(ctx context.Context) ([]models.GridSystem, error) {
	return m.systems, m.err
}
func (m *mockCatalog) Update(ctx context.Context, id, name string, def models.SystemDefinition) (models.GridSystem, error) {
	m.lastName = name
	m.lastDef = def
	return m.system, m.err
}
func (m *mockCatalog) Delete(ctx context.Context, id string) error {
	m.lastDelID = id
	return m.deleteErr
}
func (m *mockCatalog) EnsureDefault(ctx context.Context) (models.GridSystem, error) {
	return m.system, m.err
}

type mockPlanner struct {
	run       models.SimulationRun
	err       error
	lastRunID string
	runCalls  int
}

func (m *mockPlanner) Run(ctx context.Context, systemID string) (models.SimulationRun, error) {
	m.runCalls++
	m.lastRunID = systemID
	return m.run, m.err
}

type mockRunLog struct {
	runs       []models.SimulationRun
	run        models.SimulationRun
	err        error
	latestErr  error
	lastFilter service.RunFilter
}

func (m *mockRunLog) List(ctx context.Context, f service.RunFilter) ([]models.SimulationRun, error) {
	m.lastFilter = f
	return m.runs, m.err
}
func (m *mockRunLog) Get(ctx context.Context, runID string) (models.SimulationRun, error) {
	return m.run, m.err
}
func (m *mockRunLog) Latest(ctx context.Context) (models.SimulationRun, error) {
	if m.latestErr != nil {
		return models.SimulationRun{}, m.latestErr
	}
	return m.run, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
