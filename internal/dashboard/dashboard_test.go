package dashboard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/storage"
	"github.com/starford/evalview/internal/testutil"
)

func newTestService(t *testing.T, opts Options) (*Service, testutil.DatasetPaths) {
	t.Helper()
	p := testutil.TestDataset(t)
	ds, err := LoadDataset(Paths{Evaluations: p.Evaluations, Prompt: p.Prompt, Outputs: p.Outputs})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	store, err := storage.NewFS(p.Outputs)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(ds, store, testutil.SyncedDB(t, store), opts), p
}

func newServiceWithEvaluations(t *testing.T, csv string) *Service {
	t.Helper()
	p := testutil.TestDataset(t)
	testutil.WriteFile(t, p.Evaluations, csv)
	ds, err := LoadDataset(Paths{Evaluations: p.Evaluations, Prompt: p.Prompt, Outputs: p.Outputs})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	store, err := storage.NewFS(p.Outputs)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(ds, store, testutil.SyncedDB(t, store), Options{})
}

func TestLoadDataset_MissingInputs(t *testing.T) {
	p := testutil.TestDataset(t)
	paths := Paths{Evaluations: p.Evaluations, Prompt: p.Prompt, Outputs: p.Outputs}

	cases := []struct {
		name   string
		mutate func(*Paths)
		want   string
	}{
		{"data", func(p *Paths) { p.Evaluations = filepath.Join(t.TempDir(), "none.csv") }, "data file not found: "},
		{"prompt", func(p *Paths) { p.Prompt = filepath.Join(t.TempDir(), "none.md") }, "prompt file not found: "},
		{"outputs", func(p *Paths) { p.Outputs = filepath.Join(t.TempDir(), "none") }, "outputs directory not found: "},
		{"outputs is file", func(p *Paths) { p.Outputs = p.Evaluations }, "outputs directory not found: "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pp := paths
			tc.mutate(&pp)
			_, err := LoadDataset(pp)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("error %v should wrap ErrNotFound", err)
			}
			if !strings.HasPrefix(err.Error(), tc.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tc.want)
			}
		})
	}
}

func TestData(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	tbl := svc.Data()
	if len(tbl.Columns) != 4 || len(tbl.Rows) != 3 {
		t.Fatalf("table = %d columns, %d rows", len(tbl.Columns), len(tbl.Rows))
	}
}

func TestChart_SortedDescending(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	s, err := svc.Chart("charcount")
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	wantLabels := []string{"beta", "alpha", "gamma"}
	wantValues := []float64{3400, 1200, 800}
	for i := range wantLabels {
		if s.Labels[i] != wantLabels[i] || s.Values[i] != wantValues[i] {
			t.Errorf("point %d = %s/%v, want %s/%v", i, s.Labels[i], s.Values[i], wantLabels[i], wantValues[i])
		}
	}
}

func TestChart_LabelFallsBackToFirstColumn(t *testing.T) {
	svc, _ := newTestService(t, Options{LabelColumn: "nope"})
	s, err := svc.Chart("codeblocks")
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if s.Labels[0] != "gamma" {
		t.Errorf("labels = %v", s.Labels)
	}
}

func TestChart_InvalidColumn(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	if _, err := svc.Chart("unknown"); !errors.Is(err, apperr.ErrInvalidColumn) {
		t.Errorf("err = %v, want ErrInvalidColumn", err)
	}
	if _, err := svc.Chart("model"); !errors.Is(err, apperr.ErrInvalidColumn) {
		t.Errorf("non-numeric column: err = %v, want ErrInvalidColumn", err)
	}
}

func TestChart_SkipsBlankAndNaNCells(t *testing.T) {
	svc := newServiceWithEvaluations(t, testutil.EvaluationsWithGaps)

	cases := []struct {
		column string
		labels []string
	}{
		{"charcount", []string{"alpha", "gamma"}},
		{"codeblocks", []string{"gamma", "alpha"}},
		{"codepercent", []string{"gamma", "alpha", "beta"}},
	}
	for _, tc := range cases {
		s, err := svc.Chart(tc.column)
		if err != nil {
			t.Fatalf("Chart(%s): %v", tc.column, err)
		}
		if strings.Join(s.Labels, ",") != strings.Join(tc.labels, ",") {
			t.Errorf("Chart(%s) labels = %v, want %v", tc.column, s.Labels, tc.labels)
		}
		if len(s.Values) != len(s.Labels) {
			t.Errorf("Chart(%s): %d values for %d labels", tc.column, len(s.Values), len(s.Labels))
		}
	}

	series, err := svc.Charts()
	if err != nil {
		t.Fatalf("Charts: %v", err)
	}
	if len(series) != 3 {
		t.Errorf("series = %d, want 3", len(series))
	}
}

func TestChart_InfinityIsSkipped(t *testing.T) {
	svc := newServiceWithEvaluations(t, "model,score\na,Inf\nb,-inf\nc,2\n")
	s, err := svc.Chart("score")
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if len(s.Labels) != 1 || s.Labels[0] != "c" {
		t.Errorf("labels = %v, want [c]", s.Labels)
	}
}

func TestCharts_SkipsMissingColumns(t *testing.T) {
	svc, _ := newTestService(t, Options{ChartColumns: []string{"codepercent", "missing", "charcount"}})
	series, err := svc.Charts()
	if err != nil {
		t.Fatalf("Charts: %v", err)
	}
	if len(series) != 2 || series[0].Column != "codepercent" || series[1].Column != "charcount" {
		t.Errorf("series = %+v", series)
	}
}

func TestOutputs_OrderAndMetrics(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	items, err := svc.Outputs()
	if err != nil {
		t.Fatalf("Outputs: %v", err)
	}
	want := []string{"output1.md", "output2.md", "output10.md"}
	if len(items) != len(want) {
		t.Fatalf("len = %d", len(items))
	}
	for i, name := range want {
		if items[i].Name != name || items[i].Index != i {
			t.Errorf("items[%d] = %s/%d", i, items[i].Name, items[i].Index)
		}
		if items[i].Metrics == nil {
			t.Fatalf("items[%d] has no metrics", i)
		}
	}
	if items[2].Metrics.CodeBlockCount != 2 || items[2].Description != "Gamma answer" {
		t.Errorf("output10 = %+v / %+v", items[2], items[2].Metrics)
	}
}

func TestOutput(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	out, err := svc.Output(0)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if out.Name != "output1.md" || out.Metrics.Identifier != "output1" {
		t.Errorf("output = %+v", out.OutputItem)
	}
	if !strings.Contains(out.HTML, "<h1") || !strings.Contains(out.Content, "print(1)") {
		t.Errorf("content/html not populated: %q", out.HTML)
	}
}

func TestOutput_InvalidIndex(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	for _, i := range []int{-1, 3, 100} {
		_, err := svc.Output(i)
		if !errors.Is(err, apperr.ErrInvalidIndex) {
			t.Errorf("Output(%d): err = %v, want ErrInvalidIndex", i, err)
		}
	}
	if apperr.ErrInvalidIndex.Error() != "invalid file index" {
		t.Errorf("message = %q", apperr.ErrInvalidIndex.Error())
	}
}

func TestOutput_ReadsFreshFromDisk(t *testing.T) {
	svc, p := newTestService(t, Options{})
	testutil.WriteFile(t, filepath.Join(p.Outputs, "output0.md"), "# Zero\n")
	out, err := svc.Output(0)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if out.Name != "output0.md" || out.Description != "Zero" {
		t.Errorf("output = %+v", out.OutputItem)
	}
}

func TestOutput_InvalidEncoding(t *testing.T) {
	svc, p := newTestService(t, Options{})
	if err := os.WriteFile(filepath.Join(p.Outputs, "output1.md"), []byte{0xff, 0xfe}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Output(0); !errors.Is(err, apperr.ErrReadFailure) {
		t.Errorf("err = %v, want ErrReadFailure", err)
	}
}

func TestPrompt(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	p, err := svc.Prompt()
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if p.Markdown != testutil.Prompt {
		t.Errorf("markdown = %q", p.Markdown)
	}
	if !strings.Contains(p.HTML, `<h1 id="task">Task</h1>`) {
		t.Errorf("html = %q", p.HTML)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	hits, err := svc.Search("prose", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "output2.md" || hits[0].Index != 1 {
		t.Errorf("hits = %+v", hits)
	}

	hits, err = svc.Search("   ", 10)
	if err != nil || len(hits) != 0 {
		t.Errorf("blank query: hits = %+v, err = %v", hits, err)
	}
}
