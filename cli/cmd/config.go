package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crmarques/cortexops/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: groupUtility,
		Short:   "Manage the cortexops settings file",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented settings file template",
		Example: `  cortexops config init
  cortexops config init --config ./cortexops.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteTemplate(path)
			if err != nil {
				return err
			}
			successf(cmd, "wrote settings template to %s", written)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "Settings file to create (default ~/.cortexops/config.yaml)")

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective connection settings with secrets masked",
		Long: `Show merges command-line defaults, environment variables, and the settings
file the same way connecting commands do, then prints the result with
password, passphrase, and token values masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFile, err := config.Load(path)
			if err != nil {
				return err
			}
			effective := config.Resolve(config.Settings{}, fromFile)

			payload, err := config.MarshalIndent(config.Redacted(effective), 2)
			if err != nil {
				return err
			}
			infof(cmd, "%s", payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "Settings file to read (default ~/.cortexops/config.yaml)")

	return cmd
}
