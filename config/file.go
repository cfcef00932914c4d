package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/crmarques/cortexops/faults"

	"gopkg.in/yaml.v3"
)

// Load reads the settings file at explicitPath, or at the path named by
// CORTEXOPS_CONFIG_FILE, or at the default location. A missing file is not
// an error unless the caller asked for it explicitly.
func Load(explicitPath string) (Settings, error) {
	path, explicit, err := resolveSettingsPath(explicitPath)
	if err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Settings{}, nil
		}
		return Settings{}, faults.NewTypedError(faults.ConfigError, fmt.Sprintf("failed to read settings file %s", path), err)
	}

	return decodeSettings(path, data)
}

func decodeSettings(path string, data []byte) (Settings, error) {
	var settings Settings

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&settings); err != nil {
		if errors.Is(err, io.EOF) {
			return Settings{}, nil
		}
		return Settings{}, faults.NewTypedError(faults.ConfigError, fmt.Sprintf("invalid settings file %s", path), err)
	}

	return settings, nil
}

func resolveSettingsPath(explicitPath string) (string, bool, error) {
	path := strings.TrimSpace(explicitPath)
	explicit := path != ""
	if path == "" {
		path = strings.TrimSpace(os.Getenv(SettingsFileEnvVar))
		explicit = path != ""
	}
	if path == "" {
		path = DefaultSettingsPath
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", false, err
	}
	return filepath.Clean(expanded), explicit, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", faults.NewTypedError(faults.InternalError, "failed to resolve user home directory", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}

// WriteTemplate renders a commented starter settings file. Existing files
// are never overwritten.
func WriteTemplate(path string) (string, error) {
	resolved, _, err := resolveSettingsPath(path)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(resolved); err == nil {
		return "", faults.NewTypedError(faults.ConfigError, fmt.Sprintf("settings file already exists: %s", resolved), nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", faults.NewTypedError(faults.InternalError, "failed to inspect settings path", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", faults.NewTypedError(faults.InternalError, "failed to create settings directory", err)
	}
	if err := os.WriteFile(resolved, []byte(settingsTemplate), 0o600); err != nil {
		return "", faults.NewTypedError(faults.InternalError, "failed to write settings file", err)
	}
	return resolved, nil
}

const settingsTemplate = `# cortexops connection settings.
# Every field can also come from its SNOWFLAKE_* environment variable or a
# command-line flag; flags win over the environment, which wins over this file.

account: myorg-myaccount
user: myuser

# Key-pair authentication (recommended). Leave password unset when using a key.
private-key-path: ~/.ssh/snowflake_key.p8
# private-key-passphrase: ""

# password: ""

warehouse: MY_WH
# role: ACCOUNTADMIN

# REST API (import): host is derived from the account when unset.
# host: myorg-myaccount.snowflakecomputing.com
# pat-token: ""
`

// Redacted renders settings for display with secret material masked.
func Redacted(s Settings) Settings {
	masked := s
	if masked.Password != "" {
		masked.Password = "****"
	}
	if masked.PrivateKeyPassphrase != "" {
		masked.PrivateKeyPassphrase = "****"
	}
	if masked.PATToken != "" {
		masked.PATToken = "****"
	}
	return masked
}

// MarshalIndent encodes settings as YAML with the given indent, for the
// config show command.
func MarshalIndent(s Settings, indent int) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(s); err != nil {
		_ = encoder.Close()
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
