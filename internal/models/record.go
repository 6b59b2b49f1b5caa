// Package models defines the domain types for evalview.
package models

import (
	"strings"
	"time"
)

// EvaluationRecord is one row of the extractor report, computed from one markdown output.
type EvaluationRecord struct {
	Identifier         string  `json:"file_name"`
	Description        string  `json:"description"`
	CharacterCount     int     `json:"character_count"`
	CodeCharacterCount int     `json:"code_character_count"`
	CodePercentage     float64 `json:"code_percentage"`
	CodeBlockCount     int     `json:"code_blocks"`
}

// OutputMetadata is a lightweight representation of a markdown output returned by list operations.
type OutputMetadata struct {
	Name      string    `json:"name"`
	Ordinal   int       `json:"ordinal"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identifier returns the file name without its .md extension. Leading dots do not
// start an extension, so ".md" and "..md" keep their full name.
func (m OutputMetadata) Identifier() string {
	stem := strings.TrimSuffix(m.Name, ".md")
	if strings.Trim(stem, ".") == "" {
		return m.Name
	}
	return stem
}
