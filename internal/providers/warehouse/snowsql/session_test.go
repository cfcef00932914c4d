package snowsql

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/faults"

	"github.com/snowflakedb/gosnowflake"
	"github.com/youmark/pkcs8"
)

func writeKeyFile(t *testing.T, der []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "key.p8")
	encoded := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildDriverConfigMissingIdentity(t *testing.T) {
	t.Parallel()

	_, err := buildDriverConfig(config.Settings{Password: "pw"})
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("expected config error, got %v", err)
	}
	message := err.Error()
	if !strings.Contains(message, "--account") || !strings.Contains(message, config.UserEnvVar) {
		t.Fatalf("error must name the missing flags and env vars: %q", message)
	}
}

func TestBuildDriverConfigMissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := buildDriverConfig(config.Settings{Account: "acct", User: "alice"})
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("expected config error, got %v", err)
	}
	message := err.Error()
	if !strings.Contains(message, "--private-key-path") || !strings.Contains(message, "--password") {
		t.Fatalf("error must name both credential options: %q", message)
	}
}

func TestBuildDriverConfigPassword(t *testing.T) {
	t.Parallel()

	driverConfig, err := buildDriverConfig(config.Settings{
		Account:   "acct",
		User:      "alice",
		Password:  "pw",
		Warehouse: "WH",
		Role:      "SYSADMIN",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if driverConfig.Password != "pw" || driverConfig.Authenticator == gosnowflake.AuthTypeJwt {
		t.Fatalf("password auth must not switch to JWT")
	}
	if driverConfig.Warehouse != "WH" || driverConfig.Role != "SYSADMIN" {
		t.Fatalf("session parameters must carry through: %+v", driverConfig)
	}
}

func TestBuildDriverConfigDefaultsRole(t *testing.T) {
	t.Parallel()

	driverConfig, err := buildDriverConfig(config.Settings{
		Account:  "acct",
		User:     "alice",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if driverConfig.Role != config.DefaultRole {
		t.Fatalf("SQL sessions must fall back to %s, got %q", config.DefaultRole, driverConfig.Role)
	}
}

func TestBuildDriverConfigPrivateKey(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	path := writeKeyFile(t, der)

	driverConfig, err := buildDriverConfig(config.Settings{
		Account:        "acct",
		User:           "alice",
		PrivateKeyPath: path,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if driverConfig.Authenticator != gosnowflake.AuthTypeJwt {
		t.Fatalf("key-pair auth must use the JWT authenticator")
	}
	if driverConfig.PrivateKey == nil || driverConfig.PrivateKey.N.Cmp(key.N) != 0 {
		t.Fatalf("loaded key does not match the source key")
	}
}

func TestLoadPrivateKeyEncrypted(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	der, err := pkcs8.MarshalPrivateKey(key, []byte("passphrase"), nil)
	if err != nil {
		t.Fatal(err)
	}
	path := writeKeyFile(t, der)

	loaded, err := loadPrivateKey(path, "passphrase")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Fatalf("decrypted key does not match the source key")
	}

	if _, err := loadPrivateKey(path, "wrong"); !faults.IsCategory(err, faults.AuthError) {
		t.Fatalf("wrong passphrase must be an auth error, got %v", err)
	}
}

func TestLoadPrivateKeyRejectsNonRSA(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	path := writeKeyFile(t, der)

	if _, err := loadPrivateKey(path, ""); !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("non-RSA key must be rejected, got %v", err)
	}
}

func TestLoadPrivateKeyMissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadPrivateKey(filepath.Join(t.TempDir(), "absent.p8"), "")
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("missing key file must be a config error, got %v", err)
	}
}
