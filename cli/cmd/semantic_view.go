package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/exporter"
	"github.com/crmarques/cortexops/semanticview"
	"github.com/crmarques/cortexops/warehouse"
)

func newExportSemanticViewCommand() *cobra.Command {
	var (
		conn      connectionFlags
		database  string
		schema    string
		name      string
		output    string
		outputSQL string
	)

	cmd := &cobra.Command{
		Use:     "export-semantic-view",
		GroupID: groupUserFacing,
		Short:   "Export one semantic view definition as YAML",
		Example: `  cortexops export-semantic-view --database ANALYTICS --schema PUBLIC --name REVENUE_VIEW
  cortexops export-semantic-view --database ANALYTICS --schema PUBLIC --name REVENUE_VIEW --output-sql revenue.sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd,
				[2]string{"--database", database},
				[2]string{"--schema", schema},
				[2]string{"--name", name},
			); err != nil {
				return err
			}
			if output == "" {
				output = name + ".yaml"
			}

			ctx := commandContext(cmd)
			querier, settings, err := openSession(cmd, ctx, &conn)
			if err != nil {
				return err
			}
			defer querier.Close()

			exp := &semanticview.Exporter{
				Querier: querier,
				Statusf: statusPrinter(cmd),
			}
			coord := agent.Coordinate{Database: database, Schema: schema, Name: name}
			if err := exp.ExportOne(ctx, coord, output, outputSQL, settings.RoleOrDefault()); err != nil {
				return err
			}

			successf(cmd, "exported semantic view %s to %s", coord.QualifiedName(), output)
			return nil
		},
	}

	conn.registerSQL(cmd)
	cmd.Flags().StringVar(&database, "database", "", "Database holding the view")
	cmd.Flags().StringVar(&schema, "schema", "", "Schema holding the view")
	cmd.Flags().StringVar(&name, "name", "", "Semantic view name")
	cmd.Flags().StringVar(&output, "output", "", "YAML output path (default <name>.yaml)")
	cmd.Flags().StringVar(&outputSQL, "output-sql", "", "Also write a deployment script to this path")

	return cmd
}

func newExportAllSemanticViewsCommand() *cobra.Command {
	var (
		conn       connectionFlags
		database   string
		schema     string
		outputDir  string
		includeSQL bool
	)

	cmd := &cobra.Command{
		Use:     "export-all-semantic-views",
		GroupID: groupUserFacing,
		Short:   "Export every reachable semantic view definition into a directory",
		Example: `  cortexops export-all-semantic-views
  cortexops export-all-semantic-views --database ANALYTICS --include-sql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			querier, settings, err := openSession(cmd, ctx, &conn)
			if err != nil {
				return err
			}
			defer querier.Close()

			statusf := statusPrinter(cmd)
			discovery := exporter.New(querier, Version, statusf)
			exp := &semanticview.Exporter{
				Querier: querier,
				List: func(ctx context.Context, databaseFilter, schemaFilter string) ([]agent.Coordinate, error) {
					return discovery.ListSemanticViews(ctx, databaseFilter, schemaFilter)
				},
				Statusf: statusf,
			}

			tally, err := exp.ExportAll(ctx, semanticview.ExportAllOptions{
				DatabaseFilter: database,
				SchemaFilter:   schema,
				OutputDir:      outputDir,
				Role:           settings.RoleOrDefault(),
				IncludeSQL:     includeSQL,
			})
			if err != nil {
				return err
			}

			successf(cmd, "exported %d of %d semantic views to %s (%d failed)",
				tally.Succeeded, tally.Total, outputDir, tally.Failed)
			return nil
		},
	}

	conn.registerSQL(cmd)
	cmd.Flags().StringVar(&database, "database", "", "Only export views in this database")
	cmd.Flags().StringVar(&schema, "schema", "", "Only export views in this schema")
	cmd.Flags().StringVar(&outputDir, "output-dir", "semantic_views", "Directory for the definition files")
	cmd.Flags().BoolVar(&includeSQL, "include-sql", false, "Write a deployment script next to each definition")

	return cmd
}

func newDeploySemanticViewCommand() *cobra.Command {
	var (
		conn      connectionFlags
		input     string
		database  string
		schema    string
		name      string
		outputSQL string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:     "deploy-semantic-view",
		GroupID: groupUserFacing,
		Short:   "Create or replace a semantic view from a YAML definition",
		Example: `  cortexops deploy-semantic-view --input revenue.yaml --database ANALYTICS --schema PUBLIC
  cortexops deploy-semantic-view --input revenue.yaml --database ANALYTICS --schema PUBLIC --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd,
				[2]string{"--input", input},
				[2]string{"--database", database},
				[2]string{"--schema", schema},
			); err != nil {
				return err
			}

			ctx := commandContext(cmd)

			settings, err := conn.resolve(cmd)
			if err != nil {
				return err
			}

			deployer := &semanticview.Deployer{
				Connect: func(ctx context.Context) (warehouse.Querier, error) {
					return openSessionWith(cmd, ctx, &conn, settings)
				},
				Statusf: statusPrinter(cmd),
				Out:     cmd.OutOrStdout(),
			}

			err = deployer.Deploy(ctx, semanticview.DeployOptions{
				InputPath: input,
				Database:  database,
				Schema:    schema,
				Role:      settings.RoleOrDefault(),
				Name:      name,
				OutputSQL: outputSQL,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}
			if !dryRun {
				successf(cmd, "deployed semantic view from %s", input)
			}
			return nil
		},
	}

	conn.registerSQL(cmd)
	cmd.Flags().StringVar(&input, "input", "", "YAML definition to deploy")
	cmd.Flags().StringVar(&database, "database", "", "Target database")
	cmd.Flags().StringVar(&schema, "schema", "", "Target schema")
	cmd.Flags().StringVar(&name, "name", "", "View name, overrides the definition's name field")
	cmd.Flags().StringVar(&outputSQL, "output-sql", "", "Also write the rendered deployment script to this path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the deployment script without executing it")

	return cmd
}
