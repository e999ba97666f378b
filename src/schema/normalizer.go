package schema

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/username/anchorcomply/backend/src/models"
)

// DefaultFuzzyCutoff is the minimum similarity a column must score against a
// field's alias list to be auto-mapped.
const DefaultFuzzyCutoff = 0.6

// NormalizeLabel reduces a column label to lowercase alphanumerics so that
// "Bill No." and "bill_no" compare equal.
func NormalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity scores two normalized labels on [0,1] using Levenshtein distance
// scaled by the longer length. Equal strings score 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(distance)/float64(maxLen)
}

// Suggest proposes a FieldMapping for the table's headers against a target
// schema. Matching per field: exact normalized-alias match first, then the
// best fuzzy score clearing the cutoff, else unmapped. The caller may layer
// explicit user overrides on top; Suggest itself never applies them.
//
// When a later field claims a column an earlier field already took, the later
// field wins, the earlier binding is cleared, and a warning is recorded on the
// mapping. Silent reuse would otherwise produce two fields reading one column.
func Suggest(headers []string, sch models.DatasetSchema, cutoff float64) models.FieldMapping {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultFuzzyCutoff
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeLabel(h)
	}

	mapping := models.FieldMapping{Columns: make(map[string]string, len(sch.Fields))}
	owner := make(map[string]string) // source column -> canonical field

	for _, field := range sch.Fields {
		col := matchColumn(headers, normalized, field.Aliases, cutoff)
		if col == "" {
			mapping.Columns[field.Name] = ""
			continue
		}
		if prev, taken := owner[col]; taken {
			mapping.Columns[prev] = ""
			mapping.Warnings = append(mapping.Warnings,
				fmt.Sprintf("column %q reassigned from %q to %q; remap one of them explicitly", col, prev, field.Name))
		}
		owner[col] = field.Name
		mapping.Columns[field.Name] = col
	}
	return mapping
}

// matchColumn finds the source column for one canonical field.
func matchColumn(headers, normalized, aliases []string, cutoff float64) string {
	normAliases := make([]string, len(aliases))
	for i, a := range aliases {
		normAliases[i] = NormalizeLabel(a)
	}

	for i, h := range normalized {
		if h == "" {
			continue
		}
		for _, a := range normAliases {
			if h == a {
				return headers[i]
			}
		}
	}

	best, bestScore := "", 0.0
	for i, h := range normalized {
		if h == "" {
			continue
		}
		for _, a := range normAliases {
			if score := Similarity(h, a); score > bestScore {
				best, bestScore = headers[i], score
			}
		}
	}
	if bestScore >= cutoff {
		return best
	}
	return ""
}
