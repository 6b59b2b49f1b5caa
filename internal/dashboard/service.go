package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/extractor"
	"github.com/starford/evalview/internal/index"
	"github.com/starford/evalview/internal/models"
	"github.com/starford/evalview/internal/parser"
	"github.com/starford/evalview/internal/render"
	"github.com/starford/evalview/internal/report"
	"github.com/starford/evalview/internal/storage"
)

// DefaultLabelColumn names the evaluations column used for chart labels.
const DefaultLabelColumn = "model"

// DefaultChartColumns are charted when no columns are configured.
var DefaultChartColumns = []string{"charcount", "codepercent", "codeblocks"}

// Series is one chart: values of a numeric column, largest first.
type Series struct {
	Column string    `json:"column"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// OutputItem is a lightweight item in the outputs list.
type OutputItem struct {
	Index       int                      `json:"index"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Size        int64                    `json:"size"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Metrics     *models.EvaluationRecord `json:"metrics,omitempty"`
}

// OutputDetail is one output with its content.
type OutputDetail struct {
	OutputItem
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// PromptDetail is the prompt as markdown and HTML.
type PromptDetail struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// SearchHit is one output matching a search.
type SearchHit struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
}

// Options configures a Service.
type Options struct {
	LabelColumn  string
	ChartColumns []string
	HTML         *render.HTML
}

// Service answers dashboard queries over a Dataset.
type Service struct {
	ds           *Dataset
	store        storage.Provider
	db           index.OutputIndex
	html         *render.HTML
	labelColumn  string
	chartColumns []string
}

// NewService creates a dashboard service. store must be rooted at the
// dataset's outputs directory and db should be synced with it.
func NewService(ds *Dataset, store storage.Provider, db index.OutputIndex, opts Options) *Service {
	if opts.LabelColumn == "" {
		opts.LabelColumn = DefaultLabelColumn
	}
	if len(opts.ChartColumns) == 0 {
		opts.ChartColumns = DefaultChartColumns
	}
	if opts.HTML == nil {
		opts.HTML = render.NewHTML(render.HTMLOptions{})
	}
	return &Service{
		ds:           ds,
		store:        store,
		db:           db,
		html:         opts.HTML,
		labelColumn:  opts.LabelColumn,
		chartColumns: opts.ChartColumns,
	}
}

// Data returns the evaluations table.
func (s *Service) Data() *report.Table {
	return s.ds.Table
}

// ChartColumns returns the configured chart columns present in the table.
func (s *Service) ChartColumns() []string {
	out := []string{}
	for _, c := range s.chartColumns {
		if s.ds.Table.ColumnIndex(c) >= 0 {
			out = append(out, c)
		}
	}
	return out
}

// Chart returns the named column as a series sorted in descending order.
func (s *Service) Chart(column string) (*Series, error) {
	tbl := s.ds.Table
	values, ok := tbl.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidColumn, column)
	}
	labels, ok := tbl.Column(s.labelColumn)
	if !ok {
		labels, _ = tbl.Column(tbl.Columns[0])
	}

	type point struct {
		label string
		value float64
	}
	points := make([]point, 0, len(values))
	for i, raw := range values {
		v, ok, err := chartValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q row %d: not a number: %q", apperr.ErrInvalidColumn, column, i+1, raw)
		}
		if !ok {
			continue
		}
		points = append(points, point{label: labels[i], value: v})
	}
	slices.SortStableFunc(points, func(a, b point) int {
		return cmp.Compare(b.value, a.value)
	})

	series := &Series{
		Column: column,
		Labels: make([]string, len(points)),
		Values: make([]float64, len(points)),
	}
	for i, p := range points {
		series.Labels[i] = p.label
		series.Values[i] = p.value
	}
	return series, nil
}

// chartValue parses one chart cell. Blank, NaN and infinite cells are reported
// as missing (ok false) and left out of the series.
func chartValue(raw string) (v float64, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, nil
	}
	return v, true, nil
}

// Charts returns one series per configured chart column the table has.
func (s *Service) Charts() ([]Series, error) {
	out := []Series{}
	for _, c := range s.ChartColumns() {
		series, err := s.Chart(c)
		if err != nil {
			return nil, err
		}
		out = append(out, *series)
	}
	return out, nil
}

// Outputs lists the markdown outputs with their indexed metrics.
func (s *Service) Outputs() ([]OutputItem, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListOutputs()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]index.OutputRow, len(rows))
	for _, r := range rows {
		byName[r.Name] = r
	}

	items := make([]OutputItem, len(metas))
	for i, m := range metas {
		items[i] = OutputItem{
			Index:     i,
			Name:      m.Name,
			Size:      m.Size,
			UpdatedAt: m.UpdatedAt,
		}
		if r, ok := byName[m.Name]; ok {
			rec := r.Record()
			items[i].Description = r.Description
			items[i].Metrics = &rec
		}
	}
	return items, nil
}

// Output reads output i (0-based, in list order) from disk.
func (s *Service) Output(i int) (*OutputDetail, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(metas) {
		return nil, apperr.ErrInvalidIndex
	}
	m := metas[i]

	data, err := s.store.Read(m.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, m.Name)
		}
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrReadFailure, m.Name, err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrReadFailure, m.Name, err)
	}
	html, err := s.html.Render([]byte(res.Content))
	if err != nil {
		return nil, err
	}

	rec := extractor.Record(m.Identifier(), res)
	return &OutputDetail{
		OutputItem: OutputItem{
			Index:       i,
			Name:        m.Name,
			Description: res.Description,
			Size:        m.Size,
			UpdatedAt:   m.UpdatedAt,
			Metrics:     &rec,
		},
		Content: res.Content,
		HTML:    html,
	}, nil
}

// Prompt returns the prompt shown to every model.
func (s *Service) Prompt() (*PromptDetail, error) {
	html, err := s.html.Render([]byte(s.ds.Prompt))
	if err != nil {
		return nil, err
	}
	return &PromptDetail{Markdown: s.ds.Prompt, HTML: html}, nil
}

// Search finds outputs whose description or body matches q.
func (s *Service) Search(q string, limit int) ([]SearchHit, error) {
	hits := []SearchHit{}
	if strings.TrimSpace(q) == "" {
		return hits, nil
	}
	results, err := s.db.Search(q, limit)
	if err != nil {
		return nil, err
	}
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	positions := make(map[string]int, len(metas))
	for i, m := range metas {
		positions[m.Name] = i
	}
	for _, r := range results {
		pos, ok := positions[r.Name]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{
			Index:       pos,
			Name:        r.Name,
			Description: r.Description,
			Snippet:     r.Snippet,
		})
	}
	return hits, nil
}
