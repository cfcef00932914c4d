package semanticview

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/crmarques/cortexops/debugctx"
	"github.com/crmarques/cortexops/faults"
	"github.com/crmarques/cortexops/warehouse"
)

// StatusFunc receives progress and warning lines destined for stderr.
type StatusFunc func(format string, args ...any)

// Deployer creates or replaces a semantic view from a definition document.
// Connect is invoked lazily so that dry runs never open a session.
type Deployer struct {
	Connect func(ctx context.Context) (warehouse.Querier, error)
	Statusf StatusFunc
	Out     io.Writer
}

// DeployOptions control a single deployment.
type DeployOptions struct {
	InputPath string
	Database  string
	Schema    string
	Role      string
	Name      string // overrides the name extracted from the document
	OutputSQL string // when set, the rendered script is persisted here
	DryRun    bool
}

// Deploy reads the definition, resolves the view name, and either prints the
// rendered script (dry run) or executes the creation call with the document
// bound as a statement parameter.
func (d *Deployer) Deploy(ctx context.Context, opts DeployOptions) error {
	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return faults.NewTypedError(faults.ConfigError,
			fmt.Sprintf("read semantic view definition %s", opts.InputPath), err)
	}
	document := string(raw)

	name := opts.Name
	if name == "" {
		extracted, ok := ExtractName(document)
		if !ok {
			return faults.NewTypedError(faults.ParseError,
				fmt.Sprintf("%s has no top-level name field; pass --name to override", opts.InputPath), nil)
		}
		name = extracted
	}

	var parsed any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		d.statusf("warning: %s is not well-formed YAML (%v); the warehouse may reject it", opts.InputPath, err)
	}

	if opts.OutputSQL != "" || opts.DryRun {
		script, err := RenderDeployScript(name, document, opts.Database, opts.Schema, opts.Role, filepath.Base(opts.InputPath))
		if err != nil {
			return err
		}
		if opts.OutputSQL != "" {
			if err := writeFile(opts.OutputSQL, []byte(script)); err != nil {
				return err
			}
			d.statusf("wrote deployment script to %s", opts.OutputSQL)
		}
		if opts.DryRun {
			fmt.Fprint(d.Out, script)
			return nil
		}
	}

	querier, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	defer querier.Close()

	if err := querier.UseDatabase(ctx, opts.Database); err != nil {
		return err
	}
	if err := querier.UseSchema(ctx, opts.Schema); err != nil {
		return err
	}

	target := opts.Database + "." + opts.Schema
	d.statusf("deploying semantic view %s to %s", name, target)
	debugctx.Printf(ctx, debugctx.GroupSQL, "CALL SYSTEM$CREATE_SEMANTIC_VIEW_FROM_YAML(<%d byte document>) target=%s", len(document), target)

	if _, err := querier.Query(ctx, "CALL SYSTEM$CREATE_SEMANTIC_VIEW_FROM_YAML(?, ?)", target, document); err != nil {
		return err
	}

	rows, err := querier.Query(ctx,
		fmt.Sprintf("SHOW VIEWS LIKE '%s' IN SCHEMA %s",
			warehouse.EscapeLikeLiteral(name),
			warehouse.QualifiedName(opts.Database, opts.Schema)))
	switch {
	case err != nil:
		d.statusf("warning: could not verify semantic view %s: %v", name, err)
	case len(rows) == 0:
		d.statusf("warning: semantic view %s was not found after deployment", name)
	default:
		d.statusf("verified semantic view %s in %s", name, target)
	}
	return nil
}

func (d *Deployer) statusf(format string, args ...any) {
	if d.Statusf != nil {
		d.Statusf(format, args...)
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return faults.NewTypedError(faults.InternalError,
				fmt.Sprintf("create directory %s", dir), err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return faults.NewTypedError(faults.InternalError,
			fmt.Sprintf("write %s", path), err)
	}
	return nil
}
