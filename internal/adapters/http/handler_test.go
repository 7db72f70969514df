package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
	"github.com/valentinmaxime/docker-seedbox/internal/core/service"
)

type fakeRuntime struct {
	states    map[string]domain.ContainerState
	actionErr error
	pingErr   error
	calls     []string
}

func (f *fakeRuntime) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRuntime) State(ctx context.Context, name string) (domain.ContainerState, error) {
	st, ok := f.states[name]
	if !ok {
		return domain.ContainerState{}, domain.ErrContainerNotFound
	}
	return st, nil
}

func (f *fakeRuntime) Start(ctx context.Context, name string) error {
	f.calls = append(f.calls, "start "+name)
	return f.actionErr
}

func (f *fakeRuntime) Stop(ctx context.Context, name string) error {
	f.calls = append(f.calls, "stop "+name)
	return f.actionErr
}

func (f *fakeRuntime) Restart(ctx context.Context, name string) error {
	f.calls = append(f.calls, "restart "+name)
	return f.actionErr
}

func (f *fakeRuntime) Logs(ctx context.Context, name string, tail string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("log line\n")), nil
}

type fakeMetrics struct {
	diskErr error
	memErr  error
	loadErr error
}

func (f *fakeMetrics) DiskUsage(path string) (domain.DiskUsage, error) {
	if f.diskErr != nil {
		return domain.DiskUsage{}, f.diskErr
	}
	return domain.DiskUsage{Path: path, Total: 1000, Used: 400, Free: 600, Percent: 40.0}, nil
}

func (f *fakeMetrics) Memory() (domain.MemoryUsage, error) {
	if f.memErr != nil {
		return domain.MemoryUsage{}, f.memErr
	}
	return domain.MemoryUsage{Total: 2048, Used: 1024, Free: 1024, Percent: 50.0}, nil
}

func (f *fakeMetrics) CPUPercent(window time.Duration) (float64, error) {
	return 12.5, nil
}

func (f *fakeMetrics) LoadAverages() (domain.LoadAverages, error) {
	if f.loadErr != nil {
		return domain.LoadAverages{}, f.loadErr
	}
	return domain.LoadAverages{Load1: 0.5, Load5: 0.4, Load15: 0.3}, nil
}

func testApp(rt *fakeRuntime, metrics *fakeMetrics) *fiber.App {
	reg := service.NewRegistry(
		map[string]string{"sonarr": "sonarr", "radarr": "radarr"},
		[]string{"sonarr"},
	)
	log := zerolog.Nop()
	h := NewHandler(
		service.NewAggregator(reg, rt, log),
		service.NewDispatcher(reg, rt, log),
		rt, metrics, "/hostfs", log,
	)
	app := fiber.New()
	h.Register(app.Group("/api"))
	return app
}

type errorEnvelope struct {
	OK    bool `json:"ok"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body io.Reader) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestStatusEndpoint(t *testing.T) {
	rt := &fakeRuntime{states: map[string]domain.ContainerState{
		"sonarr": {Status: "running", Health: "healthy"},
		"radarr": {Status: "running"},
	}}
	app := testApp(rt, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]struct {
		State string `json:"state"`
		Raw   *struct {
			Status string  `json:"status"`
			Health *string `json:"health"`
		} `json:"raw"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	// Only the whitelisted service appears; radarr is absent entirely.
	require.Len(t, out, 1)
	sonarr := out["sonarr"]
	assert.Equal(t, "active", sonarr.State)
	require.NotNil(t, sonarr.Raw)
	assert.Equal(t, "running", sonarr.Raw.Status)
	require.NotNil(t, sonarr.Raw.Health)
	assert.Equal(t, "healthy", *sonarr.Raw.Health)
}

func TestStatusEndpointAbsentContainer(t *testing.T) {
	app := testApp(&fakeRuntime{}, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/status", nil))
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, `{"state":"unknown"}`, string(out["sonarr"]))
}

func TestActionSuccess(t *testing.T) {
	rt := &fakeRuntime{states: map[string]domain.ContainerState{"sonarr": {Status: "exited"}}}
	app := testApp(rt, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/service/sonarr/start", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out["ok"])
	assert.Equal(t, []string{"start sonarr"}, rt.calls)
}

func TestActionErrorCases(t *testing.T) {
	cases := []struct {
		name       string
		path       string
		wantStatus int
		wantMsg    string
	}{
		{"invalid action", "/api/service/sonarr/pause", 400, "Invalid action (allowed: start, stop, restart)."},
		{"invalid action beats unknown key", "/api/service/ghost/pause", 400, "Invalid action (allowed: start, stop, restart)."},
		{"unknown service", "/api/service/ghost/start", 404, "Unknown service key: ghost"},
		{"forbidden", "/api/service/radarr/restart", 403, "Container 'radarr' is not allowed."},
		{"container absent", "/api/service/sonarr/start", 404, "Container 'sonarr' not found."},
	}

	rt := &fakeRuntime{states: map[string]domain.ContainerState{"radarr": {Status: "running"}}}
	app := testApp(rt, &fakeMetrics{})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("POST", tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			env := decodeEnvelope(t, resp.Body)
			assert.False(t, env.OK)
			assert.Equal(t, tc.wantStatus, env.Error.Code)
			assert.Equal(t, tc.wantMsg, env.Error.Message)
		})
	}
	assert.Empty(t, rt.calls)
}

func TestActionRuntimeFailure(t *testing.T) {
	rt := &fakeRuntime{
		states:    map[string]domain.ContainerState{"sonarr": {Status: "running"}},
		actionErr: &domain.RuntimeError{Op: "stop", Name: "sonarr", Err: errors.New("operation timed out")},
	}
	app := testApp(rt, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/service/sonarr/stop", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	assert.Equal(t, 502, env.Error.Code)
	assert.Equal(t, "Docker API error while 'stop' on 'sonarr': operation timed out", env.Error.Message)
}

func TestLogsEndpoint(t *testing.T) {
	rt := &fakeRuntime{states: map[string]domain.ContainerState{"sonarr": {Status: "running"}}}
	app := testApp(rt, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/service/sonarr/logs?tail=50", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "log line\n", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/service/radarr/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/service/ghost/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSysInfo(t *testing.T) {
	app := testApp(&fakeRuntime{}, &fakeMetrics{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sysinfo", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out struct {
		Disk struct {
			Path    string  `json:"path"`
			Percent float64 `json:"percent"`
		} `json:"disk"`
		RAM struct {
			Free uint64 `json:"free"`
		} `json:"ram"`
		CPU struct {
			Percent float64  `json:"percent"`
			Load1   *float64 `json:"load1"`
		} `json:"cpu"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "/hostfs", out.Disk.Path)
	assert.Equal(t, 40.0, out.Disk.Percent)
	assert.Equal(t, uint64(1024), out.RAM.Free)
	assert.Equal(t, 12.5, out.CPU.Percent)
	require.NotNil(t, out.CPU.Load1)
	assert.Equal(t, 0.5, *out.CPU.Load1)
}

func TestSysInfoLoadUnavailable(t *testing.T) {
	app := testApp(&fakeRuntime{}, &fakeMetrics{loadErr: errors.New("not supported")})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sysinfo", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out struct {
		CPU map[string]json.RawMessage `json:"cpu"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "null", string(out.CPU["load1"]))
	assert.Equal(t, "null", string(out.CPU["load15"]))
}

func TestSysInfoReadFailures(t *testing.T) {
	app := testApp(&fakeRuntime{}, &fakeMetrics{diskErr: errors.New("no such file or directory")})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/sysinfo", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	env := decodeEnvelope(t, resp.Body)
	assert.Contains(t, env.Error.Message, "Failed to read disk usage")

	app = testApp(&fakeRuntime{}, &fakeMetrics{diskErr: fs.ErrNotExist})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/sysinfo", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	env = decodeEnvelope(t, resp.Body)
	assert.Equal(t, "Host filesystem mount not found at /hostfs", env.Error.Message)

	app = testApp(&fakeRuntime{}, &fakeMetrics{memErr: errors.New("proc not mounted")})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/sysinfo", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	env = decodeEnvelope(t, resp.Body)
	assert.Contains(t, env.Error.Message, "Failed to read RAM/CPU stats")
}

func TestHealthEndpoint(t *testing.T) {
	app := testApp(&fakeRuntime{}, &fakeMetrics{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	app = testApp(&fakeRuntime{pingErr: errors.New("cannot connect to the docker daemon")}, &fakeMetrics{})
	resp, err = app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
}
