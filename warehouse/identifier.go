package warehouse

import (
	"regexp"
	"strings"
)

var plainIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// QuoteIdentifier makes an identifier safe for interpolation into a
// statement. Plain identifiers pass through unchanged; anything else is
// double-quoted with embedded quotes doubled. Identifiers never travel as
// raw user text.
func QuoteIdentifier(name string) string {
	if plainIdentifierPattern.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifiedName joins identifier parts into a dotted, individually quoted
// name. Empty parts are skipped; validation of required parts happens at
// the call sites where the missing flag can be named.
func QualifiedName(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		quoted = append(quoted, QuoteIdentifier(part))
	}
	return strings.Join(quoted, ".")
}

// EscapeLikeLiteral escapes a string for use inside a single-quoted LIKE
// pattern, neutralizing both quote and wildcard characters.
func EscapeLikeLiteral(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `''`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(value)
}
