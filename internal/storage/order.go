package storage

import (
	"sort"
	"strconv"

	"github.com/starford/evalview/internal/models"
)

// Ordinal returns the first run of digits in name as an integer, or -1 when
// the name has none (or the number does not fit in an int).
func Ordinal(name string) int {
	start := -1
	for i := 0; i < len(name); i++ {
		isDigit := name[i] >= '0' && name[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			return parseOrdinal(name[start:i])
		}
	}
	if start >= 0 {
		return parseOrdinal(name[start:])
	}
	return -1
}

func parseOrdinal(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}

// Less reports whether a sorts before b: numbered names first by ordinal,
// then by name; names without a number last, by name.
func Less(a, b models.OutputMetadata) bool {
	aNum, bNum := a.Ordinal >= 0, b.Ordinal >= 0
	switch {
	case aNum && !bNum:
		return true
	case !aNum && bNum:
		return false
	case aNum && a.Ordinal != b.Ordinal:
		return a.Ordinal < b.Ordinal
	}
	return a.Name < b.Name
}

// SortOutputs sorts metas in place using Less.
func SortOutputs(metas []models.OutputMetadata) {
	sort.SliceStable(metas, func(i, j int) bool {
		return Less(metas[i], metas[j])
	})
}
