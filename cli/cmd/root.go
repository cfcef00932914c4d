// Package cmd implements the cortexops command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	noStatusOutput bool
)

var rootCmd = newRootCommand()

const (
	groupUtility    = "utility"
	groupUserFacing = "user"
)

func Execute() error {
	return rootCmd.Execute()
}

func NewRootCommand() *cobra.Command {
	return newRootCommand()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cortexops",
		Short: "Export, import, and deploy Cortex agents and semantic views",
		Long: `cortexops keeps declarative agent and semantic view definitions in sync
with a Snowflake account.

Use the CLI to:
  - export agent definitions into versionable JSON artifacts
  - import artifacts back through the REST API, creating or replacing agents
  - export semantic view YAML definitions and deploy them from files`,
		Example: `  # Export one agent into an artifact file
  cortexops export --database ANALYTICS --schema PUBLIC --name SUPPORT_AGENT

  # Recreate the agent elsewhere from the artifact
  cortexops import --input SUPPORT_AGENT.agent.json --pat-token $SNOWFLAKE_PAT_TOKEN --replace

  # Sweep every reachable semantic view into a directory
  cortexops export-all-semantic-views --output-dir semantic_views --include-sql`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetHelpCommandGroupID(groupUtility)
	cmd.SetCompletionCommandGroupID(groupUtility)

	configureUsage(cmd)

	cmd.PersistentFlags().BoolVar(&noStatusOutput, "no-status", false, "Suppress status messages and print only command output")
	cmd.PersistentFlags().String("debug", "", "Print grouped debug information (groups: network, sql, export, all)")
	cmd.PersistentFlags().Lookup("debug").NoOptDefVal = debugGroupAll

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err == nil {
			return nil
		}
		return usageError(cmd, err.Error())
	})

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return configureDebugSettings(cmd)
	}

	cmd.AddGroup(&cobra.Group{ID: groupUserFacing, Title: "Commands:"})
	cmd.AddGroup(&cobra.Group{ID: groupUtility, Title: "Utility Commands:"})

	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newExportAllCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newExportSemanticViewCommand())
	cmd.AddCommand(newExportAllSemanticViewsCommand())
	cmd.AddCommand(newDeploySemanticViewCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}
