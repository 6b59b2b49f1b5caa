// Package parser extracts the description and fenced code regions from markdown outputs.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// headingMarker is stripped once from the start of the description line.
const headingMarker = "#"

// fenceRe matches a triple-backtick region lazily across lines. The match is purely
// lexical: nested or escaped backticks inside a body are not recognised.
var fenceRe = regexp.MustCompile("(?s)```(.*?)```")

// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("parser: content is not valid UTF-8")

// Result holds the output of analysing a markdown document.
type Result struct {
	// Content is the document with line endings normalised to "\n".
	Content            string
	Description        string
	Fences             []string
	CharacterCount     int
	CodeCharacterCount int
}

// Parse analyses raw markdown bytes. Counts are in Unicode code points.
func Parse(data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	content := normalizeNewlines(string(data))
	fences := extractFences(content)

	code := 0
	for _, f := range fences {
		code += utf8.RuneCountInString(f)
	}

	return &Result{
		Content:            content,
		Description:        deriveDescription(content),
		Fences:             fences,
		CharacterCount:     utf8.RuneCountInString(content),
		CodeCharacterCount: code,
	}, nil
}

// CodeBlockCount returns the number of complete fence pairs.
func (r *Result) CodeBlockCount() int {
	return len(r.Fences)
}

// CodePercentage returns the share of code characters, rounded to two decimals.
func (r *Result) CodePercentage() float64 {
	if r.CharacterCount == 0 {
		return 0
	}
	return RoundPercent(float64(r.CodeCharacterCount) / float64(r.CharacterCount) * 100)
}

// RoundPercent rounds v to the two-decimal value FormatPercent would print, so that
// in-memory records and their CSV form never disagree.
func RoundPercent(v float64) float64 {
	rounded, err := strconv.ParseFloat(FormatPercent(v), 64)
	if err != nil {
		return v
	}
	return rounded
}

// FormatPercent renders v with exactly two digits after the point.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// normalizeNewlines converts "\r\n" and lone "\r" into "\n".
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// extractFences returns the bodies of all non-overlapping fenced regions, leftmost first.
// An unmatched trailing fence contributes nothing.
func extractFences(content string) []string {
	matches := fenceRe.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// deriveDescription returns the first non-blank line with one leading heading marker removed.
func deriveDescription(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, headingMarker) {
			trimmed = strings.TrimSpace(trimmed[len(headingMarker):])
		}
		return trimmed
	}
	return ""
}
