package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/sse"
	"github.com/starford/evalview/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	p := testutil.TestDataset(t)
	cfg := NewDefaultConfig()
	cfg.Data.EvaluationsPath = p.Evaluations
	cfg.Data.PromptPath = p.Prompt
	cfg.Data.OutputsDir = p.Outputs
	cfg.Data.ReportPath = filepath.Join(p.Root, "report.csv")
	return cfg
}

func openTestDashboard(t *testing.T, cfg *Config) *Dashboard {
	t.Helper()
	dash, err := OpenDashboard(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("OpenDashboard: %v", err)
	}
	t.Cleanup(func() { dash.Close() })
	return dash
}

func TestOpenDashboard_SyncsIndex(t *testing.T) {
	dash := openTestDashboard(t, testConfig(t))
	rows, err := dash.DB.ListOutputs()
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("indexed rows = %d, want 3", len(rows))
	}
}

func TestOpenDashboard_MissingData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.EvaluationsPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := OpenDashboard(cfg, slog.New(slog.DiscardHandler))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.HasPrefix(err.Error(), "data file not found: ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNewHandler_Routes(t *testing.T) {
	cfg := testConfig(t)
	dash := openTestDashboard(t, cfg)
	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	h := NewHandler(cfg, dash, broker)

	cases := []struct {
		target string
		status int
		body   string
	}{
		{"/health/live", http.StatusOK, `"ok"`},
		{"/health/ready", http.StatusOK, `"ok"`},
		{"/api/data", http.StatusOK, `"columns"`},
		{"/api/charts/codeblocks", http.StatusOK, `"gamma"`},
		{"/api/outputs/0", http.StatusOK, `"output1.md"`},
		{"/api/outputs/99", http.StatusNotFound, "invalid file index"},
		{"/", http.StatusOK, "<!doctype html>"},
		{"/files/output2.md", http.StatusOK, "Beta answer"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.target, w.Code, tc.status)
		}
		if !strings.Contains(w.Body.String(), tc.body) {
			t.Errorf("%s: body missing %q", tc.target, tc.body)
		}
	}
}

func TestNewHandler_TokenMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "s3cret"}
	dash := openTestDashboard(t, cfg)
	h := NewHandler(cfg, dash, nil)

	for target, status := range map[string]int{
		"/health/live":           http.StatusOK,
		"/api/data":              http.StatusUnauthorized,
		"/":                      http.StatusUnauthorized,
		"/api/data?token=s3cret": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != status {
			t.Errorf("%s: status = %d, want %d", target, w.Code, status)
		}
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(t.Context()); err == nil {
		t.Error("expected error without config")
	}
}
