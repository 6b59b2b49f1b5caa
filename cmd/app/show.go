package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/starford/evalview/internal"
	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/dashboard"
	"github.com/starford/evalview/internal/parser"
	"github.com/starford/evalview/internal/render"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print dashboard views to the terminal",
		Commands: []*cli.Command{
			{
				Name:   "data",
				Usage:  "Print the evaluations table",
				Flags:  []cli.Flag{configFlag()},
				Action: withTerminal(showData),
			},
			{
				Name:      "charts",
				Usage:     "Print bar charts for the configured columns, or for one column",
				ArgsUsage: "[COLUMN]",
				Flags:     []cli.Flag{configFlag()},
				Action:    withTerminal(showCharts),
			},
			{
				Name:      "output",
				Usage:     "Render one output by its index in the output list",
				ArgsUsage: "INDEX",
				Flags:     []cli.Flag{configFlag()},
				Action:    withTerminal(showOutput),
			},
			{
				Name:   "prompt",
				Usage:  "Render the prompt",
				Flags:  []cli.Flag{configFlag()},
				Action: withTerminal(showPrompt),
			},
		},
	}
}

type terminalView struct {
	svc  *dashboard.Service
	term *render.Terminal
	out  io.Writer
	args cli.Args
}

func withTerminal(fn func(v *terminalView) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dash, err := internal.OpenDashboard(cfg, stderrLogger(cfg))
		if err != nil {
			return err
		}
		defer dash.Close()

		return fn(&terminalView{
			svc: dash.Service,
			term: render.NewTerminal(render.TerminalOptions{
				Theme: cfg.Dashboard.GlamourTheme,
				Width: cfg.Dashboard.WordWrap,
			}),
			out:  cmd.Root().Writer,
			args: cmd.Args(),
		})
	}
}

func showData(v *terminalView) error {
	_, err := fmt.Fprintln(v.out, v.term.Table(v.svc.Data()))
	return err
}

func showCharts(v *terminalView) error {
	var series []dashboard.Series
	if v.args.Len() > 0 {
		s, err := v.svc.Chart(v.args.First())
		if err != nil {
			return err
		}
		series = append(series, *s)
	} else {
		all, err := v.svc.Charts()
		if err != nil {
			return err
		}
		series = all
	}

	for _, s := range series {
		if _, err := fmt.Fprintln(v.out, v.term.Bars(s.Column, s.Labels, s.Values)); err != nil {
			return err
		}
	}
	return nil
}

func showOutput(v *terminalView) error {
	if v.args.Len() != 1 {
		return fmt.Errorf("show output: expected INDEX")
	}
	i, err := strconv.Atoi(v.args.First())
	if err != nil {
		return apperr.ErrInvalidIndex
	}
	out, err := v.svc.Output(i)
	if err != nil {
		return err
	}

	rendered, err := v.term.Markdown(out.Content)
	if err != nil {
		return err
	}
	if out.Metrics != nil {
		m := out.Metrics
		if _, err := fmt.Fprintf(v.out, "%s  chars=%d code=%d (%s%%) blocks=%d\n",
			out.Name, m.CharacterCount, m.CodeCharacterCount,
			parser.FormatPercent(m.CodePercentage), m.CodeBlockCount); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(v.out, rendered)
	return err
}

func showPrompt(v *terminalView) error {
	p, err := v.svc.Prompt()
	if err != nil {
		return err
	}
	rendered, err := v.term.Markdown(p.Markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(v.out, rendered)
	return err
}
