package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/evalview/internal"
	pkgconfig "github.com/starford/evalview/pkg/config"
)

var version = "dev"

const defaultConfigPath = "config/config.yaml"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: defaultConfigPath,
		Value:       defaultConfigPath,
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

// loadConfig applies the config file on top of the defaults. A missing file is
// only an error when --config was given.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cmd.IsSet("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// stderrLogger is used by every command except serve, so stdout stays clean.
func stderrLogger(cfg *internal.Config) *slog.Logger {
	return internal.NewLogger(os.Stderr, cfg.App.LogLevel)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "evalview",
		Usage:   "Extract code metrics from model outputs and browse evaluation results",
		Version: version,
		Commands: []*cli.Command{
			extractCommand(),
			serveCommand(),
			showCommand(),
			mcpCommand(),
		},
	}
}

func main() {
	slog.SetDefault(internal.NewLogger(os.Stderr, slog.LevelInfo))

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
