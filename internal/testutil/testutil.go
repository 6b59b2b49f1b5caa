// Package testutil provides shared test helpers for setting up outputs directories,
// datasets and databases.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/evalview/internal/index"
	"github.com/starford/evalview/internal/storage"
)

// Evaluations is a small evaluations table in the layout of the evaluation repo.
const Evaluations = "model,charcount,codepercent,codeblocks\n" +
	"alpha,1200,35.5,3\n" +
	"beta,3400,12.25,1\n" +
	"gamma,800,60,4\n"

// EvaluationsWithGaps has a blank charcount cell and a NaN codeblocks cell.
const EvaluationsWithGaps = "model,charcount,codepercent,codeblocks\n" +
	"alpha,1200,35.5,3\n" +
	"beta,,12.25,NaN\n" +
	"gamma,800,60,4\n"

// Prompt is the prompt used by TestDataset.
const Prompt = "# Task\n\nWrite a function that sorts a list.\n"

// Outputs are the markdown outputs written by TestDataset, keyed by file name.
var Outputs = map[string]string{
	"output1.md":  "# Alpha answer\nHere is code:\n```python\nprint(1)\n```\n",
	"output2.md":  "# Beta answer\nNo code at all, just prose about sorting.\n",
	"output10.md": "# Gamma answer\n```go\nsort.Ints(xs)\n```\n```go\nfmt.Println(xs)\n```\n",
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "evalview-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestOutputs creates a temporary outputs directory with a storage.Provider.
func TestOutputs(t *testing.T) (string, storage.Provider) {
	t.Helper()
	outputsDir := t.TempDir()
	store, err := storage.NewFS(outputsDir)
	if err != nil {
		t.Fatal(err)
	}
	return outputsDir, store
}

// DatasetPaths are the files written by TestDataset.
type DatasetPaths struct {
	Root        string
	Evaluations string
	Prompt      string
	Outputs     string
}

// TestDataset writes a complete data directory (evaluations.csv, prompts/prompt.md
// and outputs/) under a temporary root.
func TestDataset(t *testing.T) DatasetPaths {
	t.Helper()
	root := t.TempDir()
	p := DatasetPaths{
		Root:        root,
		Evaluations: filepath.Join(root, "evaluations.csv"),
		Prompt:      filepath.Join(root, "prompts", "prompt.md"),
		Outputs:     filepath.Join(root, "outputs"),
	}
	WriteFile(t, p.Evaluations, Evaluations)
	WriteFile(t, p.Prompt, Prompt)
	for name, content := range Outputs {
		WriteFile(t, filepath.Join(p.Outputs, name), content)
	}
	return p
}

// SyncedDB returns a database indexed from store.
func SyncedDB(t *testing.T, store storage.Provider) *index.DB {
	t.Helper()
	db := TestDB(t)
	if err := index.Sync(db, store, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}
	return db
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
