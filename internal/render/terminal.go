package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/evalview/internal/report"
)

// Palette shared by terminal output.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBar     = lipgloss.Color("#3B82F6")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	barStyle    = lipgloss.NewStyle().Foreground(ColorBar)
)

const barGlyph = "█"

// TerminalOptions configures terminal rendering.
type TerminalOptions struct {
	// Theme is a glamour style name; "" or "auto" detects the terminal background.
	Theme string
	// Width is the word wrap and chart width (0 for no wrap).
	Width int
}

// Terminal renders dashboard content for a terminal.
type Terminal struct {
	opts TerminalOptions
}

// NewTerminal creates a terminal renderer.
func NewTerminal(opts TerminalOptions) *Terminal {
	return &Terminal{opts: opts}
}

// Markdown renders markdown content using glamour.
func (t *Terminal) Markdown(src string) (string, error) {
	var rendererOpts []glamour.TermRendererOption
	if t.opts.Theme == "" || t.opts.Theme == "auto" {
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(t.opts.Theme))
	}
	if t.opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(t.opts.Width))
	}

	r, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", fmt.Errorf("render: terminal renderer: %w", err)
	}
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return out, nil
}

// Table renders an evaluation table with a bordered header row.
func (t *Terminal) Table(tbl *report.Table) string {
	if tbl == nil || len(tbl.Columns) == 0 {
		return mutedStyle.Render("(no data)")
	}
	lt := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(tbl.Columns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range tbl.Rows {
		lt.Row(padRow(row, len(tbl.Columns))...)
	}
	return lt.String()
}

// Bars renders a horizontal bar chart. labels and values must have the same length.
func (t *Terminal) Bars(title string, labels []string, values []float64) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(values) == 0 {
		b.WriteString(mutedStyle.Render("(no data)"))
		return b.String()
	}

	labelWidth, valueWidth := 0, 0
	maxValue := 0.0
	formatted := make([]string, len(values))
	for i, v := range values {
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
		formatted[i] = FormatNumber(v)
		valueWidth = max(valueWidth, len(formatted[i]))
		maxValue = math.Max(maxValue, v)
	}

	barWidth := 40
	if t.opts.Width > 0 {
		barWidth = max(t.opts.Width-labelWidth-valueWidth-4, 10)
	}

	for i, v := range values {
		n := 0
		if maxValue > 0 && v > 0 {
			n = int(math.Round(v / maxValue * float64(barWidth)))
		}
		label := labels[i] + strings.Repeat(" ", labelWidth-lipgloss.Width(labels[i]))
		bar := barStyle.Render(strings.Repeat(barGlyph, n)) + strings.Repeat(" ", barWidth-n)
		fmt.Fprintf(&b, "%s │%s %*s\n", label, bar, valueWidth, formatted[i])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatNumber prints integers without decimals and everything else with two.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
