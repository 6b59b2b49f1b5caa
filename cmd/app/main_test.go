package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/report"
	"github.com/starford/evalview/internal/testutil"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_CONFIG_FILE", "")
	os.Unsetenv("APP_CONFIG_FILE")
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(t.Context(), append([]string{"evalview"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, p testutil.DatasetPaths) string {
	t.Helper()
	path := filepath.Join(p.Root, "config.yaml")
	testutil.WriteFile(t, path, fmt.Sprintf(`app:
  log_level: error
data:
  outputs_dir: %q
  evaluations_path: %q
  prompt_path: %q
  report_path: %q
dashboard:
  glamour_theme: notty
  word_wrap: 80
`, p.Outputs, p.Evaluations, p.Prompt, filepath.Join(p.Root, "report.csv")))
	return path
}

func TestExtract_PositionalArgs(t *testing.T) {
	p := testutil.TestDataset(t)
	dest := filepath.Join(t.TempDir(), "out", "report.csv")

	out, err := runApp(t, "extract", p.Outputs, dest)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "Report generated and saved to "+dest) {
		t.Errorf("output = %q", out)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rep, err := report.ParseCSV(f)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rep) != 3 || rep[0].Identifier != "output1" || rep[2].Identifier != "output10" {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestExtract_FallsBackToConfig(t *testing.T) {
	p := testutil.TestDataset(t)
	cfg := writeConfig(t, p)

	if _, err := runApp(t, "extract", "--config", cfg); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.Root, "report.csv")); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestExtract_FlagsOverrideConfig(t *testing.T) {
	p := testutil.TestDataset(t)
	cfg := writeConfig(t, p)
	dest := filepath.Join(t.TempDir(), "flag.csv")

	if _, err := runApp(t, "extract", "-c", cfg, "--output", dest); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("report not written to flag destination: %v", err)
	}
}

func TestExtract_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.csv")
	_, err := runApp(t, "extract", filepath.Join(t.TempDir(), "missing"), dest)
	if !errors.Is(err, apperr.ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination should not exist")
	}
}

func TestExtract_WrongArgCount(t *testing.T) {
	if _, err := runApp(t, "extract", "only-one"); err == nil {
		t.Error("expected error for a single positional argument")
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runApp(t, "extract", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestShowData(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	out, err := runApp(t, "show", "data", "--config", cfg)
	if err != nil {
		t.Fatalf("show data: %v", err)
	}
	for _, want := range []string{"model", "alpha", "beta", "gamma"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestShowCharts_SingleColumn(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	out, err := runApp(t, "show", "charts", "--config", cfg, "charcount")
	if err != nil {
		t.Fatalf("show charts: %v", err)
	}
	if strings.Index(out, "beta") > strings.Index(out, "gamma") {
		t.Errorf("bars not sorted descending:\n%s", out)
	}
}

func TestShowCharts_UnknownColumn(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	_, err := runApp(t, "show", "charts", "--config", cfg, "nope")
	if !errors.Is(err, apperr.ErrInvalidColumn) {
		t.Fatalf("err = %v, want ErrInvalidColumn", err)
	}
}

func TestShowOutput(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	out, err := runApp(t, "show", "output", "--config", cfg, "1")
	if err != nil {
		t.Fatalf("show output: %v", err)
	}
	if !strings.Contains(out, "output2.md") || !strings.Contains(out, "Beta answer") {
		t.Errorf("output = %q", out)
	}
}

func TestShowOutput_InvalidIndex(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	for _, arg := range []string{"7", "x"} {
		_, err := runApp(t, "show", "output", "--config", cfg, arg)
		if err == nil || err.Error() != "invalid file index" {
			t.Errorf("%s: err = %v, want invalid file index", arg, err)
		}
	}
}

func TestShowPrompt(t *testing.T) {
	cfg := writeConfig(t, testutil.TestDataset(t))
	out, err := runApp(t, "show", "prompt", "--config", cfg)
	if err != nil {
		t.Fatalf("show prompt: %v", err)
	}
	if !strings.Contains(out, "sorts a list") {
		t.Errorf("output = %q", out)
	}
}
