package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"team-calendar-api/core/cache"
	"team-calendar-api/core/config"
	"team-calendar-api/core/constants"
	"team-calendar-api/core/entity"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/utils"
	teamEntity "team-calendar-api/modules/team/entity"
	teamRepository "team-calendar-api/modules/team/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.SetLogger(hclog.NewNullLogger())
	os.Exit(m.Run())
}

type envelope struct {
	Status  any              `json:"status"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
}

type testServer struct {
	t       *testing.T
	e       *echo.Echo
	teamID  uuid.UUID
	manager uuid.UUID
	member  uuid.UUID
	loner   uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: constants.StorageDriverMemory},
		JWT:     config.JWTConfig{Secret: testSecret},
	}
	store, err := OpenStore(cfg)
	require.NoError(t, err)
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	teams := teamRepository.NewTeamRepository(store)
	team, err := teams.CreateTeam(ctx, &teamEntity.Team{Name: "platform"})
	require.NoError(t, err)

	newUser := func(role string, teamID *uuid.UUID) uuid.UUID {
		u, err := teams.CreateUser(ctx, &teamEntity.User{Email: uuid.NewString() + "@example.com", Role: role, IsActive: true, TeamID: teamID})
		require.NoError(t, err)
		return u.ID
	}

	return &testServer{
		t:       t,
		e:       New(cfg, store, c),
		teamID:  team.ID,
		manager: newUser(entity.RoleManager, &team.ID),
		member:  newUser(entity.RoleUser, &team.ID),
		loner:   newUser(entity.RoleManager, nil),
	}
}

func (s *testServer) token(userID uuid.UUID) string {
	tok, err := utils.GenerateToken(testSecret, userID, constants.ScopeTokenAccess, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

type meetingBody struct {
	ID           uuid.UUID   `json:"id"`
	Status       string      `json:"status"`
	IsCancelled  bool        `json:"is_cancelled"`
	Participants []uuid.UUID `json:"participants"`
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthIsRequired(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/api/v1/private/meetings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errors.ErrMissingAuthorizationHeader, env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/private/meetings", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errors.ErrInvalidTokenFormat, env.Code)

	expired, err := utils.GenerateToken(testSecret, s.manager, constants.ScopeTokenAccess, -time.Minute)
	require.NoError(t, err)
	rec, env = s.do(http.MethodGet, "/api/v1/private/meetings", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errors.ErrTokenExpired, env.Code)

	refresh, err := utils.GenerateToken(testSecret, s.manager, constants.ScopeTokenRefresh, time.Hour)
	require.NoError(t, err)
	rec, _ = s.do(http.MethodGet, "/api/v1/private/meetings", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/private/meetings", s.token(uuid.New()), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeetingRoutes(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(s.manager)
	member := s.token(s.member)

	create := map[string]any{
		"title":        "Planning",
		"start_at":     "2030-01-15T10:00:00Z",
		"end_at":       "2030-01-15T11:00:00Z",
		"participants": []uuid.UUID{s.member},
	}

	rec, env := s.do(http.MethodPost, "/api/v1/private/meetings", member, create)
	assert.Equal(t, http.StatusForbidden, rec.Code, "plain members cannot schedule")

	rec, env = s.do(http.MethodPost, "/api/v1/private/meetings", manager, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created meetingBody
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "scheduled", created.Status)
	assert.Equal(t, []uuid.UUID{s.member}, created.Participants)

	clash := map[string]any{
		"title":        "Clash",
		"start_at":     "2030-01-15T10:30:00Z",
		"end_at":       "2030-01-15T11:30:00Z",
		"participants": []uuid.UUID{s.member},
	}
	rec, env = s.do(http.MethodPost, "/api/v1/private/meetings", manager, clash)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errors.ErrTimeConflict, env.Code)

	backwards := map[string]any{
		"title":    "Backwards",
		"start_at": "2030-01-15T11:00:00Z",
		"end_at":   "2030-01-15T10:00:00Z",
	}
	rec, env = s.do(http.MethodPost, "/api/v1/private/meetings", manager, backwards)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrInvalidTimeRange, env.Code)

	path := "/api/v1/private/meetings/" + created.ID.String()

	rec, _ = s.do(http.MethodGet, path, member, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/private/meetings/not-a-uuid", member, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrInvalidInput, env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/private/meetings/"+uuid.NewString(), member, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrNotFound, env.Code)

	rec, env = s.do(http.MethodPatch, path, manager, map[string]any{
		"start_at": "2030-01-15T10:30:00Z",
		"end_at":   "2030-01-15T11:30:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodGet, "/api/v1/private/meetings", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []meetingBody
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	for i := 0; i < 2; i++ {
		rec, env = s.do(http.MethodDelete, path, manager, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var cancelled meetingBody
		require.NoError(t, json.Unmarshal(env.Data, &cancelled))
		assert.True(t, cancelled.IsCancelled)
	}

	rec, env = s.do(http.MethodPatch, path, manager, map[string]any{"title": "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errors.ErrMeetingCancelled, env.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/private/meetings?include_cancelled=true", member, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalendarRoutes(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(s.manager)

	rec, _ := s.do(http.MethodPost, "/api/v1/private/meetings", manager, map[string]any{
		"title":    "Standup",
		"start_at": "2030-02-03T09:00:00Z",
		"end_at":   "2030-02-03T09:15:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(http.MethodGet, "/api/v1/private/calendar/day?date=2030-02-03", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var day struct {
		Date   string `json:"date"`
		Events []struct {
			Title     string    `json:"title"`
			EventType string    `json:"event_type"`
			TeamID    uuid.UUID `json:"team_id"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &day))
	assert.Equal(t, "2030-02-03", day.Date)
	require.Len(t, day.Events, 1)
	assert.Equal(t, "meeting", day.Events[0].EventType)
	assert.Equal(t, s.teamID, day.Events[0].TeamID)

	rec, env = s.do(http.MethodGet, "/api/v1/private/calendar/month?year=2030&month=2", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var month struct {
		Days []json.RawMessage `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &month))
	assert.Len(t, month.Days, 28)

	rec, env = s.do(http.MethodGet, "/api/v1/private/calendar/month?year=2030&month=13", manager, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrInvalidDate, env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/private/calendar/day?date=2030-02-30", manager, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrInvalidDate, env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/private/calendar/day?date=2030-02-03", s.token(s.loner), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, errors.ErrForbidden, env.Code)
}
