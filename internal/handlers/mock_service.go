package handlers

import (
	"context"
	"net/http"
	"time"

	"water_heater/internal/models"
	"water_heater/internal/service"

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

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockThermo struct {
	snapshot     service.ControllerState
	setTargetErr error
	boostErr     error
	greenErr     error
	heartbeatErr error

	lastTarget     float64
	setTargetCalls int
	boostCalls     int
	greenCalls     int
	heartbeatCalls int
}

func (m *mockThermo) SetTargetTemperature(ctx context.Context, v float64) (float64, error) {
	m.setTargetCalls++
	m.lastTarget = v
	if m.setTargetErr != nil {
		return 0, m.setTargetErr
	}
	m.snapshot.TargetTempC = &v
	return v, nil
}
func (m *mockThermo) Boost(ctx context.Context) error {
	m.boostCalls++
	return m.boostErr
}
func (m *mockThermo) Green(ctx context.Context) error {
	m.greenCalls++
	return m.greenErr
}
func (m *mockThermo) Heartbeat(ctx context.Context) error {
	m.heartbeatCalls++
	return m.heartbeatErr
}
func (m *mockThermo) Snapshot() service.ControllerState {
	return m.snapshot
}

type mockMonitoring struct {
	state models.HeaterState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.HeaterState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.HeaterEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.HeaterEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
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
