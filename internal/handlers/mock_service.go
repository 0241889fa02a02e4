package handlers

import (
	"context"
	"net/http"
	"time"

	"hvac_control/internal/models"
	"hvac_control/internal/service"

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

type mockControl struct {
	current     service.CurrentState
	ingestErr   error
	webResp     models.Settings
	webErr      error
	cmdSettings models.Settings
	cmdSource   models.Origin
	cmdOK       bool

	ingestCalls  int
	webCalls     int
	lastRoom     models.RoomConditions
	lastSnapshot models.Settings
	lastPatch    models.SettingsPatch
}

func (m *mockControl) Ingest(ctx context.Context, room models.RoomConditions, s models.Settings) error {
	m.ingestCalls++
	m.lastRoom = room
	m.lastSnapshot = s
	return m.ingestErr
}
func (m *mockControl) WebUpdate(ctx context.Context, p models.SettingsPatch) (models.Settings, error) {
	m.webCalls++
	m.lastPatch = p
	return m.webResp, m.webErr
}
func (m *mockControl) Command(ctx context.Context) (models.Settings, models.Origin, bool) {
	return m.cmdSettings, m.cmdSource, m.cmdOK
}
func (m *mockControl) Current(ctx context.Context) service.CurrentState {
	return m.current
}

type mockSchedule struct {
	sched      models.Schedule
	getErr     error
	updResp    models.Schedule
	updErr     error
	status     models.ScheduleStatus
	statusErr  error
	lastUpdate service.ScheduleUpdate
}

func (m *mockSchedule) Get(ctx context.Context) (models.Schedule, error) {
	return m.sched, m.getErr
}
func (m *mockSchedule) Update(ctx context.Context, u service.ScheduleUpdate) (models.Schedule, error) {
	m.lastUpdate = u
	return m.updResp, m.updErr
}
func (m *mockSchedule) Status(ctx context.Context, now time.Time) (models.ScheduleStatus, error) {
	return m.status, m.statusErr
}

type mockHistory struct {
	resp      []models.Reading
	err       error
	lastLimit int
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]models.Reading, error) {
	m.lastLimit = limit
	return m.resp, m.err
}

type mockEventLog struct {
	resp     []models.Event
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
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
