package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/application"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/internal/simulation/infrastructure/publisher"
	"github.com/wyfcoding/rentvsbuy/pkg/config"
	"github.com/wyfcoding/rentvsbuy/pkg/mq"
)

const testConfig = `
service_name = "rentvsbuy"

[logger]
level = "error"

[simulation]
max_paths = 1000

[simulation.defaults]
n_paths = 100
years = 2

[simulation.presets.tampa]
home_price = 400000
rent = 2000
home_sigma = 0.12

[simulation.presets.chicago]
home_price = 450000
rent = 2200
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"n_paths=2000", " show_real = true ", "mip_remove_ltv=none"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n_paths": "2000", "show_real": "true", "mip_remove_ltv": "none"}, got)

	got, err = parseSets(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseSets([]string{"rent"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=5"})
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	path := writeConfig(t)

	out, err := run(t, "--config", path, "compare", "--preset", "tampa", "--set", "seed=5", "--bands")
	require.NoError(t, err)

	var dto application.ComparisonDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, "tampa", dto.Preset)
	assert.Equal(t, int64(5), dto.Params.Seed)
	assert.Equal(t, 400000.0, dto.Params.HomePrice)
	assert.Equal(t, 24, dto.Summary.Months)
	require.NotNil(t, dto.Bands)
	assert.Len(t, dto.Bands.Buy.P90, 24)
}

func TestCompareCommand_Overlay(t *testing.T) {
	path := writeConfig(t)

	out, err := run(t, "--config", path, "compare", "--overlay", "--locales", "chicago", "--set", "monthly_savings=4500")
	require.NoError(t, err)

	var dto application.OverlayDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	require.NotNil(t, dto.Base)
	require.Len(t, dto.Locales, 1)
	assert.Equal(t, 4500.0, dto.Locales[0].Params.MonthlySavings)
	assert.Equal(t, 450000.0, dto.Locales[0].Params.HomePrice)
}

func TestCompareCommand_Errors(t *testing.T) {
	path := writeConfig(t)

	_, err := run(t, "--config", path, "compare", "--preset", "denver")
	assert.ErrorIs(t, err, application.ErrPresetNotFound)

	_, err = run(t, "--config", path, "compare", "--set", "years=-1")
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "compare")
	assert.Error(t, err)
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t), "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "chicago")
	assert.Contains(t, out, "400000")
}

func TestWatchCommand_RequiresKafka(t *testing.T) {
	_, err := run(t, "--config", writeConfig(t), "watch")
	assert.ErrorContains(t, err, "kafka.brokers")
}

func TestFormatEvent(t *testing.T) {
	line := formatEvent(publisher.Envelope{
		Type: domain.ComparisonCompletedEventType,
		Payload: domain.ComparisonCompletedEvent{
			Preset:             "tampa",
			Paths:              5000,
			Months:             360,
			ProbInvestBeatsBuy: "0.5821",
			MedianDelta:        "-1200.5",
			Timestamp:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	assert.Contains(t, line, "2026-03-01T00:00:00Z")
	assert.Contains(t, line, "P(invest>buy)=0.5821")
	assert.Contains(t, line, "delta=-1200.5")
}

type sliceSource []*mq.Message

func (s sliceSource) Consume(ctx context.Context, handler mq.Handler) error {
	for _, m := range s {
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func TestWatchEvents(t *testing.T) {
	src := sliceSource{
		{Offset: 1, Value: []byte(`{"type":"comparison.completed.other","payload":{"preset":"x"}}`)},
		{Offset: 2, Value: []byte("not json")},
		{Offset: 3, Value: []byte(`{"type":"` + domain.ComparisonCompletedEventType + `","payload":{"preset":"tampa","n_paths":500,"n_months":360}}`)},
	}
	var out strings.Builder
	err := watchEvents(context.Background(), src, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "tampa")
	assert.Contains(t, lines[0], "paths=500 months=360")
}

func newTestDependencies(t *testing.T) *dependencies {
	t.Helper()
	cfg, err := config.Load(writeConfig(t))
	require.NoError(t, err)
	deps, err := buildDependencies(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return deps
}

func TestRouter(t *testing.T) {
	router := newRouter(newTestDependencies(t))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/sys/health", http.StatusOK},
		{http.MethodGet, "/sys/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/presets", http.StatusOK},
		{http.MethodPost, "/api/v1/comparisons", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "rentvsbuy_comparisons_total")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	deps := newTestDependencies(t)
	deps.cfg.HTTP.Host = "127.0.0.1"
	deps.cfg.HTTP.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, deps) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
