package config

const (
	SettingsFileEnvVar  = "CORTEXOPS_CONFIG_FILE"
	DefaultSettingsPath = "~/.cortexops/config.yaml"

	AccountEnvVar              = "SNOWFLAKE_ACCOUNT"
	UserEnvVar                 = "SNOWFLAKE_USER"
	PasswordEnvVar             = "SNOWFLAKE_PASSWORD"
	PrivateKeyPathEnvVar       = "SNOWFLAKE_PRIVATE_KEY_PATH"
	PrivateKeyPassphraseEnvVar = "SNOWFLAKE_PRIVATE_KEY_PASSPHRASE"
	WarehouseEnvVar            = "SNOWFLAKE_WAREHOUSE"
	RoleEnvVar                 = "SNOWFLAKE_ROLE"
	HostEnvVar                 = "SNOWFLAKE_HOST"
	PATTokenEnvVar             = "SNOWFLAKE_PAT_TOKEN"

	DefaultRole      = "ACCOUNTADMIN"
	HostDomainSuffix = ".snowflakecomputing.com"
)

// Settings holds every connection parameter the tool understands. The zero
// value means "not set"; Resolve fills gaps from the environment and an
// optional settings file.
type Settings struct {
	Account              string `yaml:"account,omitempty"`
	User                 string `yaml:"user,omitempty"`
	Password             string `yaml:"password,omitempty"`
	PrivateKeyPath       string `yaml:"private-key-path,omitempty"`
	PrivateKeyPassphrase string `yaml:"private-key-passphrase,omitempty"`
	Warehouse            string `yaml:"warehouse,omitempty"`
	Role                 string `yaml:"role,omitempty"`
	Host                 string `yaml:"host,omitempty"`
	PATToken             string `yaml:"pat-token,omitempty"`
}

// RoleOrDefault returns the configured role, falling back to ACCOUNTADMIN.
// Only SQL sessions and rendered deploy scripts use this fallback; the REST
// channel omits its role header entirely when no role is configured.
func (s Settings) RoleOrDefault() string {
	if s.Role == "" {
		return DefaultRole
	}
	return s.Role
}
