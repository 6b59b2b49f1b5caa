package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Data      DataConfig        `yaml:"data"`
	Dashboard DashboardConfig   `yaml:"dashboard"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Dashboard.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the locations of the evaluation inputs and the extractor report.
type DataConfig struct {
	OutputsDir      string `yaml:"outputs_dir"`
	EvaluationsPath string `yaml:"evaluations_path"`
	PromptPath      string `yaml:"prompt_path"`
	ReportPath      string `yaml:"report_path"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputsDir, validation.Required),
		validation.Field(&c.EvaluationsPath, validation.Required),
		validation.Field(&c.PromptPath, validation.Required),
		validation.Field(&c.ReportPath, validation.Required),
	)
}

// DashboardConfig controls how the front-ends present the dataset.
type DashboardConfig struct {
	Title        string   `yaml:"title"`
	LabelColumn  string   `yaml:"label_column"`
	ChartColumns []string `yaml:"chart_columns"`
	GlamourTheme string   `yaml:"glamour_theme"`
	WordWrap     int      `yaml:"word_wrap"`
	UnsafeHTML   bool     `yaml:"unsafe_html"`
}

// Validate validates the dashboard configuration.
func (c *DashboardConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LabelColumn, validation.Required),
		validation.Field(&c.ChartColumns, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.WordWrap, validation.Min(0)),
	)
}

// SQLiteConfig holds the output index database location.
// An empty Path keeps the index in memory.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration for the dashboard API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with the layout used by the evaluation repo.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			OutputsDir:      "data/outputs",
			EvaluationsPath: "data/evaluations.csv",
			PromptPath:      "data/prompts/prompt.md",
			ReportPath:      "data/report.csv",
		},
		Dashboard: DashboardConfig{
			Title:        "Evaluation dashboard",
			LabelColumn:  "model",
			ChartColumns: []string{"charcount", "codepercent", "codeblocks"},
			GlamourTheme: "auto",
			WordWrap:     100,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
