package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName normalizes a person or team name for comparison: combining marks
// are removed, case is folded, and whitespace is collapsed to single spaces.
func FoldName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	folded := cases.Fold().String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}

// NameContains reports whether the folded form of candidate contains the
// folded form of target. Empty targets never match.
func NameContains(candidate, target string) bool {
	target = FoldName(target)
	if target == "" {
		return false
	}
	return strings.Contains(FoldName(candidate), target)
}

// DisplayName title-cases a folded or user-supplied name for headings.
func DisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(name)
}
