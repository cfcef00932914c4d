package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/exporter"
	"github.com/crmarques/cortexops/internal/providers/warehouse/snowsql"
	"github.com/crmarques/cortexops/warehouse"
)

func newExportCommand() *cobra.Command {
	var (
		conn     connectionFlags
		database string
		schema   string
		name     string
		output   string
	)

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: groupUserFacing,
		Short:   "Export one agent definition into a JSON artifact",
		Example: `  cortexops export --database ANALYTICS --schema PUBLIC --name SUPPORT_AGENT
  cortexops export --database ANALYTICS --schema PUBLIC --name SUPPORT_AGENT --output backup/support.agent.json`,
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
				output = name + ".agent.json"
			}

			ctx := commandContext(cmd)
			querier, _, err := openSession(cmd, ctx, &conn)
			if err != nil {
				return err
			}
			defer querier.Close()

			exp := exporter.New(querier, Version, statusPrinter(cmd))
			coord := agent.Coordinate{Database: database, Schema: schema, Name: name}

			artifact, err := exp.ExportOne(ctx, coord)
			if err != nil {
				return err
			}
			if err := exporter.WriteArtifact(artifact, output); err != nil {
				return err
			}

			successf(cmd, "exported agent %s to %s", coord.QualifiedName(), output)
			return nil
		},
	}

	conn.registerSQL(cmd)
	cmd.Flags().StringVar(&database, "database", "", "Database holding the agent")
	cmd.Flags().StringVar(&schema, "schema", "", "Schema holding the agent")
	cmd.Flags().StringVar(&name, "name", "", "Agent name")
	cmd.Flags().StringVar(&output, "output", "", "Artifact path (default <name>.agent.json)")

	return cmd
}

func newExportAllCommand() *cobra.Command {
	var (
		conn      connectionFlags
		database  string
		schema    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:     "export-all",
		GroupID: groupUserFacing,
		Short:   "Export every reachable agent definition into a directory",
		Example: `  cortexops export-all
  cortexops export-all --database ANALYTICS --output-dir backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			querier, _, err := openSession(cmd, ctx, &conn)
			if err != nil {
				return err
			}
			defer querier.Close()

			exp := exporter.New(querier, Version, statusPrinter(cmd))
			tally, err := exp.ExportAll(ctx, exporter.ExportAllOptions{
				DatabaseFilter: database,
				SchemaFilter:   schema,
				OutputDir:      outputDir,
			})
			if err != nil {
				return err
			}

			successf(cmd, "exported %d of %d agents to %s (%d failed)",
				tally.Succeeded, tally.Total, outputDir, tally.Failed)
			return nil
		},
	}

	conn.registerSQL(cmd)
	cmd.Flags().StringVar(&database, "database", "", "Only export agents in this database")
	cmd.Flags().StringVar(&schema, "schema", "", "Only export agents in this schema")
	cmd.Flags().StringVar(&outputDir, "output-dir", "exports", "Directory for the artifact files")

	return cmd
}

// openSession resolves connection settings and opens a SQL session.
func openSession(cmd *cobra.Command, ctx context.Context, conn *connectionFlags) (warehouse.Querier, config.Settings, error) {
	settings, err := conn.resolve(cmd)
	if err != nil {
		return nil, config.Settings{}, err
	}
	session, err := openSessionWith(cmd, ctx, conn, settings)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return session, settings, nil
}

// openSessionWith opens a SQL session from already-resolved settings,
// prompting for the password only at this point.
func openSessionWith(cmd *cobra.Command, ctx context.Context, conn *connectionFlags, settings config.Settings) (warehouse.Querier, error) {
	settings, err := conn.sessionSettings(cmd, settings)
	if err != nil {
		return nil, err
	}
	session, err := snowsql.Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	return session, nil
}
