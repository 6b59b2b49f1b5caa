package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/starford/evalview/internal/extractor"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Compute code metrics for every markdown output and write the CSV report",
		ArgsUsage: "[SOURCE DEST]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Directory of markdown outputs (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination CSV path (default from config)",
			},
		},
		Action: runExtract,
	}
}

func runExtract(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, dest := cfg.Data.OutputsDir, cfg.Data.ReportPath
	if v := cmd.String("source"); v != "" {
		source = v
	}
	if v := cmd.String("output"); v != "" {
		dest = v
	}

	args := cmd.Args()
	switch args.Len() {
	case 0:
	case 2:
		source, dest = args.Get(0), args.Get(1)
	default:
		return fmt.Errorf("extract: expected SOURCE and DEST, got %d argument(s)", args.Len())
	}

	rep, err := extractor.New(stderrLogger(cfg)).Extract(source, dest)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "Report generated and saved to %s (%d records)\n", dest, len(rep))
	return err
}
