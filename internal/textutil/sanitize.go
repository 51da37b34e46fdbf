package textutil

import "strings"

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Accents are folded away, letters are lowercased, digits and hyphens/underscores
// are kept, everything else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = FoldName(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
