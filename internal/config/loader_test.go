package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var managedVariables = []string{
	"EMPMANAGER_CONFIG",
	"EMPMANAGER_ENV_FILE",
	"EMPMANAGER_LOG_LEVEL",
	"EMPMANAGER_LOG_FORMAT",
	"EMPMANAGER_STORE",
	"EMPMANAGER_SQLITE_DSN",
	"EMPMANAGER_SEED",
	"EMPMANAGER_WORKDAY_START",
	"EMPMANAGER_TIMEZONE",
	"EMPMANAGER_DEMO_ACCOUNTS",
	"EMPMANAGER_QUICK_CHECKIN_LIMIT",
}

// isolate clears every managed variable for the duration of the test and
// runs it from an empty directory so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range managedVariables {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoader_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.StoreBackend != StoreMemory || !cfg.Seed || !cfg.DemoAccounts {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.WorkdayStartMinutes != 9*60 {
		t.Fatalf("expected 09:00 workday start, got %d", cfg.WorkdayStartMinutes)
	}
	if cfg.QuickCheckInLimit != 6 {
		t.Fatalf("expected quick check-in limit 6, got %d", cfg.QuickCheckInLimit)
	}
	if cfg.SQLiteDSN != ":memory:" {
		t.Fatalf("expected a private in-memory database, got %q", cfg.SQLiteDSN)
	}
	if cfg.Location == nil {
		t.Fatalf("expected a resolved location")
	}
}

func TestLoader_Layers(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "empmanager.yaml")
	yamlBody := "log_level: debug\nstore: sqlite\nworkday_start: \"08:30\"\ntimezone: UTC\nquick_check_in_limit: 4\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	envBody := "EMPMANAGER_LOG_FORMAT=json\nEMPMANAGER_QUICK_CHECKIN_LIMIT=2\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(envBody), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("EMPMANAGER_QUICK_CHECKIN_LIMIT", "3")
	t.Setenv("EMPMANAGER_SEED", "false")

	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.StoreBackend != StoreSQLite {
		t.Fatalf("yaml layer not applied: %+v", cfg)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("dotenv layer not applied, format %q", cfg.LogFormat)
	}
	if cfg.QuickCheckInLimit != 3 {
		t.Fatalf("environment must win over dotenv, got %d", cfg.QuickCheckInLimit)
	}
	if cfg.Seed {
		t.Fatalf("expected seeding disabled from environment")
	}
	if cfg.WorkdayStartMinutes != 8*60+30 || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected workday: %d %s", cfg.WorkdayStartMinutes, cfg.Location)
	}
}

func TestLoader_ConfigPathFromEnvironment(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(yamlPath, []byte("demo_accounts: false\n"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("EMPMANAGER_CONFIG", yamlPath)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DemoAccounts {
		t.Fatalf("expected demo accounts disabled by %s", yamlPath)
	}
}

func TestLoader_ReportsEveryInvalidValue(t *testing.T) {
	isolate(t)
	t.Setenv("EMPMANAGER_SEED", "maybe")
	t.Setenv("EMPMANAGER_WORKDAY_START", "9am")
	t.Setenv("EMPMANAGER_TIMEZONE", "Mars/Olympus")
	t.Setenv("EMPMANAGER_LOG_FORMAT", "xml")

	_, err := Load("")
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"EMPMANAGER_SEED", "workday_start", "timezone", "log_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLoader_RejectsFileDatabase(t *testing.T) {
	isolate(t)
	t.Setenv("EMPMANAGER_STORE", "sqlite")
	t.Setenv("EMPMANAGER_SQLITE_DSN", "file:empmanager.db?_pragma=journal_mode=memory")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "sqlite_dsn") {
		t.Fatalf("expected sqlite_dsn to be rejected, got %v", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
