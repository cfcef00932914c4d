package exporter

import (
	"context"
	"strings"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/debugctx"
	"github.com/crmarques/cortexops/warehouse"
)

// ListAgents enumerates every agent the current principal can see. The
// traversal is error-tolerant: a container or namespace that fails to
// enumerate is skipped as a gap, never a discovery failure. The result
// keeps traversal order and cannot revisit a scope, so no deduplication is
// needed.
func (e *Exporter) ListAgents(ctx context.Context) ([]agent.Coordinate, error) {
	databases, err := e.listNames(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, err
	}

	var coords []agent.Coordinate
	for _, database := range databases {
		schemas, ok := e.listSchemas(ctx, database)
		if !ok {
			continue
		}

		for _, schema := range schemas {
			rows, err := e.querier.Query(ctx, "SHOW AGENTS IN SCHEMA "+warehouse.QualifiedName(database, schema))
			if err != nil {
				debugctx.Printf(ctx, debugctx.GroupExport, "skipping schema %s.%s: %v", database, schema, err)
				continue
			}

			for _, row := range rows {
				coords = append(coords, agent.Coordinate{
					Database: stringValue(row, "database_name", database),
					Schema:   stringValue(row, "schema_name", schema),
					Name:     stringValue(row, "name", ""),
				})
			}
		}
	}

	return coords, nil
}

// ListSemanticViews enumerates semantic views with the same error-tolerant
// traversal. Filters narrow the traversal root instead of post-filtering,
// so an inaccessible unrelated database never slows a scoped export.
func (e *Exporter) ListSemanticViews(ctx context.Context, databaseFilter, schemaFilter string) ([]agent.Coordinate, error) {
	var databases []string
	if databaseFilter != "" {
		databases = []string{databaseFilter}
	} else {
		var err error
		databases, err = e.listNames(ctx, "SHOW DATABASES")
		if err != nil {
			return nil, err
		}
	}

	var coords []agent.Coordinate
	for _, database := range databases {
		var schemas []string
		if schemaFilter != "" {
			if err := e.querier.UseDatabase(ctx, database); err != nil {
				debugctx.Printf(ctx, debugctx.GroupExport, "skipping database %s: %v", database, err)
				continue
			}
			schemas = []string{schemaFilter}
		} else {
			var ok bool
			schemas, ok = e.listSchemas(ctx, database)
			if !ok {
				continue
			}
		}

		for _, schema := range schemas {
			rows, err := e.querier.Query(ctx, "SHOW VIEWS IN SCHEMA "+warehouse.QualifiedName(database, schema))
			if err != nil {
				debugctx.Printf(ctx, debugctx.GroupExport, "skipping schema %s.%s: %v", database, schema, err)
				continue
			}

			for _, row := range rows {
				if !isSemanticView(row) {
					continue
				}
				coords = append(coords, agent.Coordinate{
					Database: stringValue(row, "database_name", database),
					Schema:   stringValue(row, "schema_name", schema),
					Name:     stringValue(row, "name", ""),
				})
			}
		}
	}

	return coords, nil
}

func (e *Exporter) listSchemas(ctx context.Context, database string) ([]string, bool) {
	if err := e.querier.UseDatabase(ctx, database); err != nil {
		debugctx.Printf(ctx, debugctx.GroupExport, "skipping database %s: %v", database, err)
		return nil, false
	}

	schemas, err := e.listNames(ctx, "SHOW SCHEMAS")
	if err != nil {
		debugctx.Printf(ctx, debugctx.GroupExport, "skipping database %s: %v", database, err)
		return nil, false
	}
	return schemas, true
}

func (e *Exporter) listNames(ctx context.Context, statement string) ([]string, error) {
	rows, err := e.querier.Query(ctx, statement)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := stringValue(row, "name", ""); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func isSemanticView(row warehouse.Row) bool {
	if value, ok := row.Get("is_semantic"); ok && strings.EqualFold(asString(value), "Y") {
		return true
	}
	if value, ok := row.Get("kind"); ok && strings.EqualFold(asString(value), "SEMANTIC") {
		return true
	}
	return false
}

func stringValue(row warehouse.Row, name string, fallback string) string {
	if value, ok := row.Get(name); ok {
		if text := asString(value); text != "" {
			return text
		}
	}
	return fallback
}

func asString(value any) string {
	text, _ := value.(string)
	return text
}
