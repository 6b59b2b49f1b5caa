package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/starford/evalview/internal/parser"
	"github.com/starford/evalview/internal/storage"
)

// Checksum returns the hex-encoded SHA-256 of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Sync reads the outputs directory and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Name] = struct{}{}

		data, err := store.Read(m.Name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("name", m.Name), slog.String("error", err.Error()))
			continue
		}
		if checksums[m.Name] == Checksum(data) {
			continue
		}
		if err := indexFile(db, m.Name, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("name", m.Name), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("name", m.Name))
		}
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.DeleteOutput(name); err != nil {
				logger.Warn("sync: delete failed", slog.String("name", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("name", name))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it with its metrics into the DB.
func indexFile(db *DB, name string, data []byte, updatedAt time.Time) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	row := OutputRow{
		Name:               name,
		Ordinal:            storage.Ordinal(name),
		Description:        res.Description,
		Checksum:           Checksum(data),
		CharacterCount:     res.CharacterCount,
		CodeCharacterCount: res.CodeCharacterCount,
		CodePercentage:     res.CodePercentage(),
		CodeBlocks:         res.CodeBlockCount(),
		UpdatedAt:          updatedAt.UTC(),
	}
	return db.UpsertOutput(row, res.Content)
}
