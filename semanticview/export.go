package semanticview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/debugctx"
	"github.com/crmarques/cortexops/exporter"
	"github.com/crmarques/cortexops/faults"
	"github.com/crmarques/cortexops/warehouse"
)

// ListFunc enumerates semantic view coordinates, optionally narrowed to a
// database or schema. The CLI wires in the discovery walker.
type ListFunc func(ctx context.Context, databaseFilter, schemaFilter string) ([]agent.Coordinate, error)

// Exporter reads semantic view definitions back out of the warehouse.
type Exporter struct {
	Querier warehouse.Querier
	List    ListFunc
	Statusf StatusFunc
}

// ExportAllOptions control a bulk semantic view export.
type ExportAllOptions struct {
	DatabaseFilter string
	SchemaFilter   string
	OutputDir      string
	Role           string
	IncludeSQL     bool
}

// ExportOne fetches the YAML definition of a single view and writes it to
// outputYAML. When outputSQL is non-empty a deployment script is written
// alongside it; a document that cannot be rendered fails the export.
func (e *Exporter) ExportOne(ctx context.Context, coord agent.Coordinate, outputYAML, outputSQL, role string) error {
	if err := e.Querier.UseDatabase(ctx, coord.Database); err != nil {
		return err
	}
	if err := e.Querier.UseSchema(ctx, coord.Schema); err != nil {
		return err
	}

	qualified := coord.Database + "." + coord.Schema + "." + coord.Name
	debugctx.Printf(ctx, debugctx.GroupExport, "reading semantic view %s", qualified)

	rows, err := e.Querier.Query(ctx, "SELECT SYSTEM$READ_YAML_FROM_SEMANTIC_VIEW(?)", qualified)
	if err != nil {
		return err
	}
	document := firstValue(rows)
	if strings.TrimSpace(document) == "" {
		return faults.NewTypedError(faults.NotFoundError,
			fmt.Sprintf("semantic view %s returned no definition", qualified), nil)
	}

	if err := writeFile(outputYAML, []byte(document)); err != nil {
		return err
	}
	e.statusf("exported semantic view %s to %s", qualified, outputYAML)

	if outputSQL != "" {
		script, err := RenderDeployScript(coord.Name, document, coord.Database, coord.Schema, role, filepath.Base(outputYAML))
		if err != nil {
			return err
		}
		if err := writeFile(outputSQL, []byte(script)); err != nil {
			return err
		}
		e.statusf("wrote deployment script to %s", outputSQL)
	}
	return nil
}

// ExportAll discovers semantic views and exports each one, isolating
// per-view failures so a broken view does not abort the sweep.
func (e *Exporter) ExportAll(ctx context.Context, opts ExportAllOptions) (exporter.Tally, error) {
	var tally exporter.Tally

	coords, err := e.List(ctx, opts.DatabaseFilter, opts.SchemaFilter)
	if err != nil {
		return tally, err
	}

	for _, coord := range coords {
		tally.Total++
		outputYAML := filepath.Join(opts.OutputDir, coord.FileStem()+".yaml")
		outputSQL := ""
		if opts.IncludeSQL {
			outputSQL = filepath.Join(opts.OutputDir, coord.FileStem()+".sql")
		}
		if err := e.ExportOne(ctx, coord, outputYAML, outputSQL, opts.Role); err != nil {
			tally.Failed++
			e.statusf("warning: export of %s failed: %v", coord.QualifiedName(), err)
			continue
		}
		tally.Succeeded++
	}
	return tally, nil
}

func (e *Exporter) statusf(format string, args ...any) {
	if e.Statusf != nil {
		e.Statusf(format, args...)
	}
}

func firstValue(rows []warehouse.Row) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	if s, ok := rows[0][0].Value.(string); ok {
		return s
	}
	return ""
}
