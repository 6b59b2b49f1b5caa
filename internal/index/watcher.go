package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/evalview/internal/storage"
)

// Change kinds passed to EventCallback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted"; name is the output file name.
type EventCallback func(kind string, name string)

// Watch starts an fsnotify watcher on the outputs directory and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// Only files directly inside root are tracked, matching storage.Provider.List.
// Rename events trigger a reconciliation pass that removes stale
// index entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	notify := func(kind, name string) {
		if cb != nil {
			cb(kind, name)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Dir(ev.Name) != root || !strings.HasSuffix(ev.Name, storage.Extension) {
				continue
			}
			name := filepath.Base(ev.Name)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(name)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("name", name), slog.String("error", readErr.Error()))
					continue
				}
				prev, csErr := db.GetChecksum(name)
				if csErr != nil {
					logger.Warn("watcher: checksum lookup failed", slog.String("name", name), slog.String("error", csErr.Error()))
					continue
				}
				// Editors often emit several writes with the same content.
				if prev == Checksum(data) {
					continue
				}
				if idxErr := indexFile(db, name, data, time.Now()); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("name", name), slog.String("error", idxErr.Error()))
					continue
				}
				kind := KindCreated
				if prev != "" {
					kind = KindUpdated
				}
				logger.Debug("watcher: indexed", slog.String("name", name), slog.String("op", kind))
				notify(kind, name)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteOutput(name); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("name", name), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("name", name))
				notify(KindDeleted, name)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify reports Rename on the old name only; the new name
				// arrives as a Create when it stays inside root.
				if delErr := db.DeleteOutput(name); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("name", name), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("name", name))
					notify(KindDeleted, name)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile removes index entries without a file on disk and indexes
// on-disk files whose checksum differs from the stored one.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Name] = struct{}{}
	}

	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if delErr := db.DeleteOutput(name); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("name", name))
				if cb != nil {
					cb(KindDeleted, name)
				}
			}
		}
	}

	for _, m := range metas {
		data, readErr := store.Read(m.Name)
		if readErr != nil {
			continue
		}
		prev, known := checksums[m.Name]
		if known && prev == Checksum(data) {
			continue
		}
		if idxErr := indexFile(db, m.Name, data, m.UpdatedAt); idxErr == nil {
			logger.Debug("reconcile: indexed", slog.String("name", m.Name))
			kind := KindCreated
			if known {
				kind = KindUpdated
			}
			if cb != nil {
				cb(kind, m.Name)
			}
		}
	}
}
