package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"dashsync/internal/config"
	"dashsync/internal/models"
	"dashsync/internal/page"
)

func newTestApp(t *testing.T, statsURL string) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := logtest.NewNullLogger()
	cfg := config.Default()
	cfg.StatsURL = statsURL
	cfg.RateLimitPerMinute = 6000
	cfg.RateLimitBurst = 100
	a, err := newApp(context.Background(), cfg, log, clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	a.start()
	t.Cleanup(a.close)
	return a
}

func TestPublicEndpoints(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1")
	r := a.setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "running", health["scheduler"])
	assert.Equal(t, float64(0), health["clients"])
	assert.Equal(t, float64(0), health["pending_alerts"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="webhook-count"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/charts/deviceChart.svg", nil))
	require.Equal(t, http.StatusOK, w.Code, "device chart is drawn at startup")
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestWebhookFeedsStatsEndpoint(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1")
	r := a.setupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/wialon", bytes.NewBufferString(`{"timestamp":"2024-05-01T09:05:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/wialon", nil))
	require.Equal(t, http.StatusAccepted, w.Code, "empty body counts at the current time")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhook/wialon", bytes.NewBufferString(`{"timestamp":"soon"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard_stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hourly_data":[{"hour":9,"count":1},{"hour":10,"count":1}],"webhook_count":2}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/notifications", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code, "message is required")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewBufferString(`{"message":"Saved","kind":"success"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, a.queue.Pending())
}

func TestMutationsOutsideAPIAreRejected(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1")
	r := a.setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestWebsocketDrivesLifecycle(t *testing.T) {
	statsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hourly_data":[{"hour":"07","count":3}],"webhook_count":9}`))
	}))
	defer statsSrv.Close()

	a := newTestApp(t, statsSrv.URL)
	srv := httptest.NewServer(a.setupRouter())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var first struct {
		Type string        `json:"type"`
		Page page.Snapshot `json:"page"`
	}
	require.NoError(t, json.Unmarshal(msg, &first))
	assert.Equal(t, "snapshot", first.Type)
	assert.Len(t, first.Page.Charts, 2)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"visibilitychange","hidden":true}`)))
	assert.Eventually(t, func() bool {
		return a.dashboard.State() == models.SchedulerStopped
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"focus"}`)))
	assert.Eventually(t, func() bool {
		text, _ := a.page.Text(page.WebhookCountID)
		return a.dashboard.State() == models.SchedulerRunning && text == "9"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(3), a.dashboard.Activity.Series()[7])
}

func TestLoadConfigFromFlagsAndEnv(t *testing.T) {
	t.Setenv("DASHSYNC_POLL_INTERVAL", "45s")

	var got config.Config
	app := &cli.App{
		Flags: serveFlags(),
		Action: func(ctx *cli.Context) error {
			var err error
			got, err = loadConfig(ctx)
			return err
		},
	}
	err := app.Run([]string{"dashsync",
		"--port", "8080",
		"--device-label", "Android", "--device-label", "iOS",
		"--device-value", "3", "--device-value", "1",
		"--mount", "activityChart",
	})
	require.NoError(t, err)
	assert.Equal(t, 8080, got.Port)
	assert.Equal(t, 45*time.Second, got.PollInterval)
	assert.Equal(t, []string{"activityChart"}, got.Mounts)
	assert.Equal(t, models.DeviceShare{Labels: []string{"Android", "iOS"}, Values: []float64{3, 1}}, got.DeviceSeed())
	assert.Equal(t, "http://127.0.0.1:8080", got.ResolvedStatsURL())
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	app := &cli.App{
		Flags:  serveFlags(),
		Action: func(ctx *cli.Context) error { _, err := loadConfig(ctx); return err },
	}
	assert.Error(t, app.Run([]string{"dashsync", "--device-label", "Android"}))
	assert.Error(t, app.Run([]string{"dashsync", "--device-value", "x"}))
	assert.Error(t, app.Run([]string{"dashsync", "--poll-interval", "10ms"}))
	assert.Error(t, app.Run([]string{"dashsync", "--tls", "--tls-cert", "c.pem", "--tls-key", "k.pem"}))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	app := newCLI()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"dashsync", "version"}))
	assert.True(t, strings.HasPrefix(out.String(), "dashsync "))
}
