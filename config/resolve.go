package config

import (
	"os"
	"strings"
)

// Resolve layers connection settings: explicit values win over process
// environment variables, which win over the settings file. An unset role
// stays unset; SQL sessions apply the ACCOUNTADMIN fallback via
// RoleOrDefault, while the REST channel sends no role header at all.
func Resolve(explicit Settings, file Settings) Settings {
	return Settings{
		Account:              pick(explicit.Account, AccountEnvVar, file.Account),
		User:                 pick(explicit.User, UserEnvVar, file.User),
		Password:             pick(explicit.Password, PasswordEnvVar, file.Password),
		PrivateKeyPath:       pick(explicit.PrivateKeyPath, PrivateKeyPathEnvVar, file.PrivateKeyPath),
		PrivateKeyPassphrase: pick(explicit.PrivateKeyPassphrase, PrivateKeyPassphraseEnvVar, file.PrivateKeyPassphrase),
		Warehouse:            pick(explicit.Warehouse, WarehouseEnvVar, file.Warehouse),
		Role:                 pick(explicit.Role, RoleEnvVar, file.Role),
		Host:                 pick(explicit.Host, HostEnvVar, file.Host),
		PATToken:             pick(explicit.PATToken, PATTokenEnvVar, file.PATToken),
	}
}

func pick(explicit string, envVar string, fromFile string) string {
	if value := strings.TrimSpace(explicit); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
		return value
	}
	return strings.TrimSpace(fromFile)
}
