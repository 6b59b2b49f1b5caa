// Package storage defines the file-system abstraction over a directory of markdown outputs.
package storage

import "github.com/starford/evalview/internal/models"

// Provider is the interface for output directory operations.
type Provider interface {
	// List returns metadata for every .md file directly under the root, in ordinal order.
	List() ([]models.OutputMetadata, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
	// Root returns the absolute root directory.
	Root() string
}
