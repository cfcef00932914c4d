package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/faults"
)

// ExportOne retrieves one agent's describe reply and wraps it as an
// artifact. An empty reply means the agent does not exist and is fatal for
// the single-item path; bulk export isolates it per item instead.
func (e *Exporter) ExportOne(ctx context.Context, coord agent.Coordinate) (*agent.Artifact, error) {
	if err := e.querier.UseDatabase(ctx, coord.Database); err != nil {
		return nil, err
	}
	if err := e.querier.UseSchema(ctx, coord.Schema); err != nil {
		return nil, err
	}

	rows, err := e.querier.Query(ctx, "DESCRIBE AGENT "+coord.QualifiedName())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, faults.NewTypedError(faults.NotFoundError,
			fmt.Sprintf("agent %s.%s.%s not found", coord.Database, coord.Schema, coord.Name), nil)
	}

	e.statusf("retrieved %d properties", len(rows))

	body, found := agent.ParseCreateBody(rows, func(format string, args ...any) {
		e.statusf("warning: "+format, args...)
	})
	if !found {
		e.statusf("no declarative body found; artifact will carry raw properties only")
	}

	return &agent.Artifact{
		Metadata: agent.Metadata{
			Database:    coord.Database,
			Schema:      coord.Schema,
			AgentName:   coord.Name,
			ExportedBy:  e.querier.User(),
			ToolVersion: e.toolVersion,
		},
		DescribeResults: rows,
		CreateBody:      body,
	}, nil
}

// WriteArtifact serializes an artifact as deterministic indented JSON,
// creating parent directories as needed. A repeated export overwrites the
// prior artifact; the filesystem holds no history.
func WriteArtifact(artifact *agent.Artifact, path string) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to encode artifact", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return faults.NewTypedError(faults.InternalError, "failed to create output directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to write artifact", err)
	}
	return nil
}

type ExportAllOptions struct {
	DatabaseFilter string
	SchemaFilter   string
	OutputDir      string
}

// ExportAll discovers every visible agent, narrows by the optional
// case-insensitive filters, and exports each coordinate in a best-effort
// loop. A failed item is tallied and skipped; no artifact file is written
// for it.
func (e *Exporter) ExportAll(ctx context.Context, opts ExportAllOptions) (Tally, error) {
	e.statusf("discovering agents...")
	coords, err := e.ListAgents(ctx)
	if err != nil {
		return Tally{}, err
	}

	coords = filterCoordinates(coords, opts.DatabaseFilter, opts.SchemaFilter)
	if len(coords) == 0 {
		e.statusf("no agents found")
		if opts.DatabaseFilter != "" || opts.SchemaFilter != "" {
			e.statusf("filters applied: database=%s, schema=%s", opts.DatabaseFilter, opts.SchemaFilter)
		}
		return Tally{}, nil
	}

	e.statusf("found %d agent(s)", len(coords))
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Tally{}, faults.NewTypedError(faults.InternalError, "failed to create output directory", err)
	}

	tally := Tally{Total: len(coords)}
	for idx, coord := range coords {
		e.statusf("[%d/%d] exporting %s.%s.%s...", idx+1, len(coords), coord.Database, coord.Schema, coord.Name)

		artifact, err := e.ExportOne(ctx, coord)
		if err != nil {
			e.statusf("  error: %v", err)
			tally.Failed++
			continue
		}

		outputFile := filepath.Join(opts.OutputDir, coord.FileStem()+".json")
		if err := WriteArtifact(artifact, outputFile); err != nil {
			e.statusf("  error: %v", err)
			tally.Failed++
			continue
		}

		e.statusf("  exported to %s", outputFile)
		tally.Succeeded++
	}

	return tally, nil
}

func filterCoordinates(coords []agent.Coordinate, databaseFilter, schemaFilter string) []agent.Coordinate {
	if databaseFilter == "" && schemaFilter == "" {
		return coords
	}

	filtered := coords[:0:0]
	for _, coord := range coords {
		if databaseFilter != "" && !strings.EqualFold(coord.Database, databaseFilter) {
			continue
		}
		if schemaFilter != "" && !strings.EqualFold(coord.Schema, schemaFilter) {
			continue
		}
		filtered = append(filtered, coord)
	}
	return filtered
}
