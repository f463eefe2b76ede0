package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var measureParts = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([A-Z]+)$`)

// NormalizeMeasure canonicalizes storage and size strings so that "256GB",
// "256 gb" and "256 GB" compare equal. Values that are not a number followed
// by a unit are only trimmed and upper-cased.
func NormalizeMeasure(s string) string {
	s = norm.NFKC.String(s)
	compact := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if m := measureParts.FindStringSubmatch(compact); m != nil {
		return m[1] + " " + m[2]
	}
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// CompactMeasure writes a storage or size value the way the form shows it,
// "256GB" rather than "256 gb". Other values come back trimmed.
func CompactMeasure(s string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(norm.NFKC.String(s)), ""))
	if measureParts.MatchString(compact) {
		return compact
	}
	return strings.TrimSpace(s)
}

// NormalizeColor folds case, turns underscores into spaces and collapses
// whitespace, so a color name and its color code can be compared.
func NormalizeColor(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "_", " ")
	return fold(strings.Join(strings.Fields(s), " "))
}

func normalizeModel(s string) string {
	return fold(strings.Join(strings.Fields(norm.NFKC.String(s)), " "))
}

// Casers keep state between calls, so each use gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
