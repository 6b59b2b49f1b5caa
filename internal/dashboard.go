package internal

import (
	"fmt"
	"log/slog"

	"github.com/starford/evalview/internal/dashboard"
	"github.com/starford/evalview/internal/index"
	"github.com/starford/evalview/internal/render"
	"github.com/starford/evalview/internal/storage"
)

// Dashboard bundles what every front-end reads from: the dataset, the outputs
// directory and its index.
type Dashboard struct {
	Dataset *dashboard.Dataset
	Store   *storage.FS
	DB      *index.DB
	Service *dashboard.Service
}

// OpenDashboard loads the dataset, opens the index and syncs it with the outputs directory.
func OpenDashboard(cfg *Config, logger *slog.Logger) (*Dashboard, error) {
	ds, err := dashboard.LoadDataset(dashboard.Paths{
		Evaluations: cfg.Data.EvaluationsPath,
		Prompt:      cfg.Data.PromptPath,
		Outputs:     cfg.Data.OutputsDir,
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFS(cfg.Data.OutputsDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := dashboard.NewService(ds, store, db, dashboard.Options{
		LabelColumn:  cfg.Dashboard.LabelColumn,
		ChartColumns: cfg.Dashboard.ChartColumns,
		HTML:         render.NewHTML(render.HTMLOptions{Unsafe: cfg.Dashboard.UnsafeHTML}),
	})

	return &Dashboard{Dataset: ds, Store: store, DB: db, Service: svc}, nil
}

// Close releases the index.
func (d *Dashboard) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
