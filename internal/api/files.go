package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/evalview/internal/storage"
)

// FileHandler serves raw markdown outputs.
type FileHandler struct {
	root string
}

// NewFileHandler creates a handler rooted at the outputs directory.
func NewFileHandler(root string) *FileHandler {
	return &FileHandler{root: root}
}

// safeName validates that name is a plain .md file name (no path separators,
// no traversal) and returns its absolute path under the outputs directory.
func (h *FileHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != name || cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid file name: %s", name)
	}
	if !strings.HasSuffix(cleaned, storage.Extension) {
		return "", fmt.Errorf("not a markdown output: %s", name)
	}
	abs := filepath.Join(h.root, cleaned)
	if !strings.HasPrefix(abs, h.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes outputs directory")
	}
	return abs, nil
}

// ServeFile handles GET /files/{name}.
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	info, statErr := os.Stat(abs)
	if statErr != nil || !info.Mode().IsRegular() {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	http.ServeFile(w, r, abs)
}
