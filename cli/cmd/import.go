package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/crmarques/cortexops/agent"
	"github.com/crmarques/cortexops/importer"
	"github.com/crmarques/cortexops/internal/providers/warehouse/rest"
	"github.com/crmarques/cortexops/warehouse"
)

func newImportCommand() *cobra.Command {
	var (
		conn     connectionFlags
		input    string
		database string
		schema   string
		name     string
		replace  bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:     "import",
		GroupID: groupUserFacing,
		Short:   "Create or replace an agent from an artifact or raw definition",
		Long: `Import reads an artifact produced by export, or a raw create body, and
creates the agent through the REST API. An existing agent is only replaced
when --replace is given.`,
		Example: `  cortexops import --input SUPPORT_AGENT.agent.json --pat-token $SNOWFLAKE_PAT_TOKEN
  cortexops import --input body.json --database ANALYTICS --schema PUBLIC --name COPY --replace
  cortexops import --input SUPPORT_AGENT.agent.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, [2]string{"--input", input}); err != nil {
				return err
			}

			ctx := commandContext(cmd)

			imp := &importer.Importer{
				Connect: func() (warehouse.AgentAPI, error) {
					settings, err := conn.resolve(cmd)
					if err != nil {
						return nil, err
					}
					gateway, err := rest.New(settings)
					if err != nil {
						return nil, err
					}
					return gateway, nil
				},
				ToolVersion: Version,
				Statusf:     statusPrinter(cmd),
				Out:         cmd.OutOrStdout(),
			}

			result, err := imp.Import(ctx, importer.Options{
				InputPath: input,
				Overrides: agent.Coordinate{Database: database, Schema: schema, Name: name},
				Replace:   replace,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			payload, err := json.MarshalIndent(result, "", "  ")
			if err == nil {
				infof(cmd, "%s", payload)
			}
			successf(cmd, "import of %s finished", input)
			return nil
		},
	}

	conn.registerREST(cmd)
	cmd.Flags().StringVar(&input, "input", "", "Artifact or raw create body to import")
	cmd.Flags().StringVar(&database, "database", "", "Target database, overrides the artifact metadata")
	cmd.Flags().StringVar(&schema, "schema", "", "Target schema, overrides the artifact metadata")
	cmd.Flags().StringVar(&name, "name", "", "Target agent name, overrides the artifact metadata")
	cmd.Flags().BoolVar(&replace, "replace", false, "Update the agent when it already exists")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print the request body without contacting the API")

	return cmd
}
