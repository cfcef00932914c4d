package semanticview

import (
	"fmt"
	"strings"

	"github.com/crmarques/cortexops/faults"
	"github.com/crmarques/cortexops/warehouse"
)

// RenderDeployScript produces a standalone worksheet script that recreates
// the view. The document is embedded dollar-quoted, so documents containing
// "$" cannot be rendered safely and are refused; direct deployment binds the
// document as a parameter and has no such restriction.
func RenderDeployScript(name, document, database, schema, role, sourceName string) (string, error) {
	if strings.Contains(document, "$$") {
		return "", faults.NewTypedError(
			faults.ParseError,
			fmt.Sprintf("definition of %q contains %q and cannot be embedded in a dollar-quoted script; deploy it directly instead", name, "$$"),
			nil,
		)
	}

	target := database + "." + schema

	var b strings.Builder
	b.WriteString("-- ============================================================\n")
	fmt.Fprintf(&b, "-- Semantic view deployment script for %s\n", name)
	if sourceName != "" {
		fmt.Fprintf(&b, "-- Source: %s\n", sourceName)
	}
	fmt.Fprintf(&b, "-- Target: %s\n", target)
	b.WriteString("-- ============================================================\n\n")

	if role != "" {
		fmt.Fprintf(&b, "USE ROLE %s;\n", warehouse.QuoteIdentifier(role))
	}
	fmt.Fprintf(&b, "USE DATABASE %s;\n", warehouse.QuoteIdentifier(database))
	fmt.Fprintf(&b, "USE SCHEMA %s;\n\n", warehouse.QuoteIdentifier(schema))

	fmt.Fprintf(&b, "CALL SYSTEM$CREATE_SEMANTIC_VIEW_FROM_YAML('%s', $$\n",
		strings.ReplaceAll(target, "'", "''"))
	b.WriteString(document)
	if !strings.HasSuffix(document, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("$$);\n\n")

	fmt.Fprintf(&b, "SHOW VIEWS LIKE '%s' IN SCHEMA %s;\n",
		warehouse.EscapeLikeLiteral(name),
		warehouse.QualifiedName(database, schema))

	return b.String(), nil
}
