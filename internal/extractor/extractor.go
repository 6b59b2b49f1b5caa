// Package extractor computes per-document size and code-density statistics for a
// directory of markdown outputs and writes them as a CSV report.
package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/evalview/internal/apperr"
	"github.com/starford/evalview/internal/models"
	"github.com/starford/evalview/internal/parser"
	"github.com/starford/evalview/internal/report"
	"github.com/starford/evalview/internal/storage"
)

// Extractor turns a source directory into a report file.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor. A nil logger discards log output.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// Extract analyses every .md file directly under sourceDir and atomically replaces
// destPath with the CSV report. Nothing is written unless every file was analysed.
func (e *Extractor) Extract(sourceDir, destPath string) (report.Report, error) {
	rep, err := e.Analyze(sourceDir)
	if err != nil {
		return nil, err
	}
	if err := e.write(destPath, rep); err != nil {
		return nil, err
	}
	e.logger.Info("report written",
		slog.String("source", sourceDir),
		slog.String("destination", destPath),
		slog.Int("records", len(rep)))
	return rep, nil
}

// Analyze builds the report for sourceDir without writing anything.
func (e *Extractor) Analyze(sourceDir string) (report.Report, error) {
	store, err := storage.NewFS(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrSourceNotFound, sourceDir, err)
	}
	metas, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrSourceNotFound, sourceDir, err)
	}

	rep := make(report.Report, 0, len(metas))
	for _, m := range metas {
		rec, err := analyzeFile(store, m)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("analysed output",
			slog.String("file", m.Name),
			slog.Int("characters", rec.CharacterCount),
			slog.Int("code_blocks", rec.CodeBlockCount))
		rep = append(rep, rec)
	}
	return rep, nil
}

func analyzeFile(store storage.Provider, m models.OutputMetadata) (models.EvaluationRecord, error) {
	path := filepath.Join(store.Root(), m.Name)
	data, err := store.Read(m.Name)
	if err != nil {
		return models.EvaluationRecord{}, fmt.Errorf("%w: %s: %w", apperr.ErrReadFailure, path, err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		return models.EvaluationRecord{}, fmt.Errorf("%w: %s: %w", apperr.ErrReadFailure, path, err)
	}
	return Record(m.Identifier(), res), nil
}

// Record builds the evaluation record for a parsed document.
func Record(identifier string, res *parser.Result) models.EvaluationRecord {
	return models.EvaluationRecord{
		Identifier:         identifier,
		Description:        res.Description,
		CharacterCount:     res.CharacterCount,
		CodeCharacterCount: res.CodeCharacterCount,
		CodePercentage:     res.CodePercentage(),
		CodeBlockCount:     res.CodeBlockCount(),
	}
}

func (e *Extractor) write(destPath string, rep report.Report) error {
	data, err := report.Marshal(rep)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWriteFailure, destPath, err)
	}
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWriteFailure, destPath, err)
	}
	dest, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWriteFailure, destPath, err)
	}
	if err := dest.Write(filepath.Base(destPath), data); err != nil {
		return fmt.Errorf("%w: %s: %w", apperr.ErrWriteFailure, destPath, err)
	}
	return nil
}
