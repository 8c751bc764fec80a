// Package pipeline implements the staged legacy-CRM transformation: typed
// normalization, deal stage mapping, computed fields, site aggregation,
// association resolution, and reporting. Stages consume immutable inputs
// and produce new datasets; a failed stage yields an empty dataset for the
// stages downstream of it.
package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so "Négociation" and "Qualifiée"
// match their unaccented spellings in legacy extracts.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var titleCaser = cases.Title(language.French)

// fold lower-cases and removes diacritics for matching legacy French text.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// cleanString trims a raw extract value and collapses the legacy null
// spellings to the empty string.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "nan", "NaN", "NAN", "None", "none", "NULL", "null", "<nil>":
		return ""
	}
	return s
}

// titleCase normalizes a name to title case, legacy extracts mix
// upper-cased and lower-cased spellings of the same person or company.
func titleCase(s string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(s)))
}
