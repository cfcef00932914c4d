package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/faults"
)

// connectionFlags is the flag block shared by every command that talks to
// the warehouse. Values left empty fall back to environment variables and
// then to the settings file.
type connectionFlags struct {
	account              string
	user                 string
	password             string
	askPassword          bool
	privateKeyPath       string
	privateKeyPassphrase string
	warehouse            string
	role                 string
	host                 string
	patToken             string
	configPath           string
}

func (c *connectionFlags) registerCommon(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.account, "account", "", "Account identifier (or SNOWFLAKE_ACCOUNT)")
	cmd.Flags().StringVar(&c.role, "role", "", "Role to assume (or SNOWFLAKE_ROLE; SQL sessions default to ACCOUNTADMIN)")
	cmd.Flags().StringVar(&c.configPath, "config", "", "Settings file (default ~/.cortexops/config.yaml)")
}

func (c *connectionFlags) registerSQL(cmd *cobra.Command) {
	c.registerCommon(cmd)
	cmd.Flags().StringVar(&c.user, "user", "", "User name (or SNOWFLAKE_USER)")
	cmd.Flags().StringVar(&c.password, "password", "", "Password (or SNOWFLAKE_PASSWORD)")
	cmd.Flags().BoolVar(&c.askPassword, "ask-password", false, "Prompt for the password instead of passing it on the command line")
	cmd.Flags().StringVar(&c.privateKeyPath, "private-key-path", "", "PKCS#8 private key for key-pair authentication (or SNOWFLAKE_PRIVATE_KEY_PATH)")
	cmd.Flags().StringVar(&c.privateKeyPassphrase, "private-key-passphrase", "", "Passphrase for an encrypted private key (or SNOWFLAKE_PRIVATE_KEY_PASSPHRASE)")
	cmd.Flags().StringVar(&c.warehouse, "warehouse", "", "Warehouse to use (or SNOWFLAKE_WAREHOUSE)")
}

func (c *connectionFlags) registerREST(cmd *cobra.Command) {
	c.registerCommon(cmd)
	cmd.Flags().StringVar(&c.host, "host", "", "API host, overrides the account-derived default (or SNOWFLAKE_HOST)")
	cmd.Flags().StringVar(&c.patToken, "pat-token", "", "Programmatic access token (or SNOWFLAKE_PAT_TOKEN)")
}

// resolve merges flags, environment, and the settings file into connection
// settings. It never prompts; sessionSettings handles --ask-password when a
// session is actually opened, so dry runs stay non-interactive.
func (c *connectionFlags) resolve(cmd *cobra.Command) (config.Settings, error) {
	explicit := config.Settings{
		Account:              c.account,
		User:                 c.user,
		Password:             c.password,
		PrivateKeyPath:       c.privateKeyPath,
		PrivateKeyPassphrase: c.privateKeyPassphrase,
		Warehouse:            c.warehouse,
		Role:                 c.role,
		Host:                 c.host,
		PATToken:             c.patToken,
	}

	fromFile, err := config.Load(c.configPath)
	if err != nil {
		return config.Settings{}, err
	}

	return config.Resolve(explicit, fromFile), nil
}

// sessionSettings fills the password from the interactive prompt when
// --ask-password was given and nothing else provided one.
func (c *connectionFlags) sessionSettings(cmd *cobra.Command, settings config.Settings) (config.Settings, error) {
	if c.askPassword && settings.Password == "" {
		prompted, err := promptPassword(cmd)
		if err != nil {
			return config.Settings{}, err
		}
		settings.Password = prompted
	}
	return settings, nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", faults.NewTypedError(faults.ConfigError,
			"--ask-password requires an interactive terminal", nil)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", faults.NewTypedError(faults.ConfigError, "read password", err)
	}
	return string(raw), nil
}
