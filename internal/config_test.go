package internal

import (
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDataConfig_RequiresPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.OutputsDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty outputs dir should fail validation")
	}
}

func TestDashboardConfig_ChartColumns(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Dashboard.ChartColumns = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing chart columns should fail validation")
	}
	cfg.Dashboard.ChartColumns = []string{"charcount", ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("blank chart column should fail validation")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail validation")
	}
	if got := (&HTTPConfig{Port: 9090}).Address(); got != ":9090" {
		t.Errorf("address = %q", got)
	}
}
