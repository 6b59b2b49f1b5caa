package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/starford/evalview/internal"
	"github.com/starford/evalview/internal/extractor"
	"github.com/starford/evalview/internal/mcpserver"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve the dataset to MCP clients over stdio",
		Flags:  []cli.Flag{configFlag()},
		Action: runMCP,
	}
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	dash, err := internal.OpenDashboard(cfg, logger)
	if err != nil {
		return err
	}
	defer dash.Close()

	logger.Info("mcp server starting", slog.String("outputs", cfg.Data.OutputsDir))
	return mcpserver.New(dash.Service, extractor.New(logger), version).ServeStdio()
}
