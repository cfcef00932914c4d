// Package semanticview exports and deploys semantic view definitions, the
// SQL-only counterpart of the agent import path.
package semanticview

import (
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`(?m)^name:[ \t]*(.+)$`)

// ExtractName returns the view name from the first top-level "name:" line
// of a definition document. Deployment requires a name from the document or
// an explicit override; absence of both is fatal before any network call.
func ExtractName(document string) (string, bool) {
	match := namePattern.FindStringSubmatch(document)
	if match == nil {
		return "", false
	}

	name := strings.TrimSpace(match[1])
	if name == "" {
		return "", false
	}
	return name, true
}
