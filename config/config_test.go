package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/cortexops/faults"
)

func TestResolvePrecedence(t *testing.T) {
	t.Setenv(AccountEnvVar, "env-account")
	t.Setenv(UserEnvVar, "env-user")
	t.Setenv(RoleEnvVar, "")

	fileSettings := Settings{
		Account:   "file-account",
		User:      "file-user",
		Warehouse: "file-wh",
	}

	resolved := Resolve(Settings{Account: "flag-account"}, fileSettings)

	if resolved.Account != "flag-account" {
		t.Fatalf("flag must win over env and file, got %q", resolved.Account)
	}
	if resolved.User != "env-user" {
		t.Fatalf("env must win over file, got %q", resolved.User)
	}
	if resolved.Warehouse != "file-wh" {
		t.Fatalf("file must fill remaining gaps, got %q", resolved.Warehouse)
	}
	if resolved.Role != "" {
		t.Fatalf("an unset role must stay unset, got %q", resolved.Role)
	}
}

func TestRoleOrDefault(t *testing.T) {
	t.Setenv(RoleEnvVar, "")

	resolved := Resolve(Settings{}, Settings{})
	if resolved.Role != "" {
		t.Fatalf("Resolve must not invent a role, got %q", resolved.Role)
	}
	if got := resolved.RoleOrDefault(); got != DefaultRole {
		t.Fatalf("RoleOrDefault() = %q, want %s", got, DefaultRole)
	}
	if got := (Settings{Role: "SYSADMIN"}).RoleOrDefault(); got != "SYSADMIN" {
		t.Fatalf("explicit role must pass through, got %q", got)
	}
}

func TestResolveTrimsWhitespace(t *testing.T) {
	t.Setenv(PasswordEnvVar, "  secret  ")

	resolved := Resolve(Settings{}, Settings{})
	if resolved.Password != "secret" {
		t.Fatalf("expected trimmed env value, got %q", resolved.Password)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Setenv(SettingsFileEnvVar, "")
	t.Setenv("HOME", t.TempDir())

	settings, err := Load("")
	if err != nil {
		t.Fatalf("missing default settings file must not fail: %v", err)
	}
	if settings != (Settings{}) {
		t.Fatalf("expected zero settings, got %+v", settings)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("explicitly named missing file must be a config error, got %v", err)
	}
}

func TestLoadStrictDecode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("account: a\nuserr: typo\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("unknown settings key must be rejected, got %v", err)
	}
}

func TestLoadReadsSettings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "account: myorg-acct\nuser: alice\npat-token: tok\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if settings.Account != "myorg-acct" || settings.User != "alice" || settings.PATToken != "tok" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	written, err := WriteTemplate(path)
	if err != nil {
		t.Fatalf("template write failed: %v", err)
	}
	if written != path {
		t.Fatalf("unexpected resolved path %q", written)
	}

	if _, err := WriteTemplate(path); !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("template must decode strictly: %v", err)
	}
	if settings.Account == "" {
		t.Fatalf("template must seed an account placeholder")
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	masked := Redacted(Settings{Account: "a", Password: "pw", PATToken: "tok"})
	if masked.Password != "****" || masked.PATToken != "****" {
		t.Fatalf("secret fields must be masked: %+v", masked)
	}
	if masked.Account != "a" {
		t.Fatalf("non-secret fields must pass through")
	}

	data, err := MarshalIndent(masked, 2)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "tok") {
		t.Fatalf("token leaked into rendered settings: %s", data)
	}
}
