// Package importer applies a previously exported or hand-authored
// declarative agent definition to the remote service, with an explicit
// create-then-fallback-to-update policy on conflict.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/faults"
	"github.com/crmarques/cortexops/warehouse"

	"github.com/Masterminds/semver/v3"
)

type StatusFunc func(format string, args ...any)

type Importer struct {
	// Connect builds the REST channel on demand so a dry run performs no
	// transport construction at all.
	Connect     func() (warehouse.AgentAPI, error)
	ToolVersion string
	Statusf     StatusFunc
	// Out receives machine-usable payloads (the dry-run body); progress
	// goes through Statusf instead.
	Out io.Writer
}

type Options struct {
	InputPath string
	Overrides agent.Coordinate
	Replace   bool
	DryRun    bool
}

// Import resolves the input document and creates or updates the remote
// agent. The returned result is the decoded API response, nil for dry runs.
func (i *Importer) Import(ctx context.Context, opts Options) (warehouse.Result, error) {
	statusf := i.Statusf
	if statusf == nil {
		statusf = func(string, ...any) {}
	}

	statusf("loading agent configuration from %s", opts.InputPath)
	document, err := loadDocument(opts.InputPath)
	if err != nil {
		return nil, err
	}

	resolved, err := agent.ResolveImport(document, opts.Overrides)
	if err != nil {
		return nil, err
	}
	i.checkProvenance(resolved.ArtifactToolVersion, statusf)

	coord := resolved.Coordinate
	statusf("agent: %s.%s.%s", coord.Database, coord.Schema, coord.Name)
	if opts.Replace {
		statusf("mode: create or update")
	} else {
		statusf("mode: create")
	}

	if opts.DryRun {
		statusf("[dry run] would create agent with body:")
		if i.Out != nil {
			encoded, err := json.MarshalIndent(resolved.Body, "", "  ")
			if err != nil {
				return nil, faults.NewTypedError(faults.InternalError, "failed to encode body", err)
			}
			fmt.Fprintln(i.Out, string(encoded))
		}
		return nil, nil
	}

	api, err := i.Connect()
	if err != nil {
		return nil, err
	}

	result, err := api.CreateAgent(ctx, coord.Database, coord.Schema, coord.Name, resolved.Body)
	if err == nil {
		statusf("agent created successfully")
		return result, nil
	}
	if !faults.IsCategory(err, faults.ConflictError) {
		return nil, err
	}
	if !opts.Replace {
		return nil, faults.NewTypedError(faults.ConflictError,
			"agent already exists; pass --replace to update it", err)
	}

	statusf("agent already exists, updating...")
	result, err = api.UpdateAgent(ctx, coord.Database, coord.Schema, coord.Name, resolved.Body)
	if err != nil {
		return nil, err
	}
	statusf("agent updated successfully")
	return result, nil
}

func (i *Importer) checkProvenance(artifactVersion string, statusf StatusFunc) {
	if artifactVersion == "" {
		return
	}
	current, err := semver.NewVersion(i.ToolVersion)
	if err != nil {
		return
	}
	produced, err := semver.NewVersion(artifactVersion)
	if err != nil {
		return
	}
	if produced.GreaterThan(current) {
		statusf("warning: artifact was exported by a newer tool (%s > %s)", artifactVersion, i.ToolVersion)
	}
}

func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.NewTypedError(faults.ConfigError, "failed to read input file "+path, err)
	}

	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, faults.NewTypedError(faults.ParseError, "input file is not a JSON object: "+path, err)
	}
	return document, nil
}
