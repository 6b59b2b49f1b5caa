// Package dashboard holds the evaluation dataset shown by the web, terminal and
// MCP front-ends, and the read operations they share.
package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/report"
)

// MissingError reports a dataset input that does not exist.
type MissingError struct {
	What string
	Path string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// Unwrap lets callers match apperr.ErrNotFound.
func (e *MissingError) Unwrap() error {
	return apperr.ErrNotFound
}

// Paths locates the dataset inputs.
type Paths struct {
	Evaluations string
	Prompt      string
	Outputs     string
}

// Dataset is loaded once per process and passed to every front-end.
type Dataset struct {
	Paths  Paths
	Table  *report.Table
	Prompt string
}

// LoadDataset reads the evaluations table and the prompt, and checks that the
// outputs directory exists. Output files themselves are read on demand.
func LoadDataset(p Paths) (*Dataset, error) {
	f, err := os.Open(p.Evaluations)
	if err != nil {
		return nil, missing("data file", p.Evaluations, err)
	}
	defer f.Close()
	tbl, err := report.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Evaluations, err)
	}

	prompt, err := os.ReadFile(p.Prompt)
	if err != nil {
		return nil, missing("prompt file", p.Prompt, err)
	}

	info, err := os.Stat(p.Outputs)
	if err != nil {
		return nil, missing("outputs directory", p.Outputs, err)
	}
	if !info.IsDir() {
		return nil, &MissingError{What: "outputs directory", Path: p.Outputs}
	}

	return &Dataset{Paths: p, Table: tbl, Prompt: string(prompt)}, nil
}

func missing(what, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingError{What: what, Path: path}
	}
	return fmt.Errorf("load %s: %w", path, err)
}
