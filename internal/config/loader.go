package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/example/empmanager/internal/logging"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/persistence/sqlite"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config captures the settings of one EmpManager process.
type Config struct {
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	StoreBackend      string `yaml:"store"`
	SQLiteDSN         string `yaml:"sqlite_dsn"`
	Seed              bool   `yaml:"seed"`
	WorkdayStart      string `yaml:"workday_start"`
	Timezone          string `yaml:"timezone"`
	DemoAccounts      bool   `yaml:"demo_accounts"`
	QuickCheckInLimit int    `yaml:"quick_check_in_limit"`

	// Resolved from WorkdayStart and Timezone by Load.
	WorkdayStartMinutes int            `yaml:"-"`
	Location            *time.Location `yaml:"-"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:            "info",
		LogFormat:           "text",
		StoreBackend:        StoreMemory,
		SQLiteDSN:           ":memory:",
		Seed:                true,
		WorkdayStart:        "09:00",
		Timezone:            "Local",
		DemoAccounts:        true,
		QuickCheckInLimit:   6,
		WorkdayStartMinutes: 9 * 60,
		Location:            time.Local,
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path (or EMPMANAGER_CONFIG), then a dotenv file (EMPMANAGER_ENV_FILE, or
// .env when present) that never overrides the real environment, then
// EMPMANAGER_* variables. Every invalid value is reported in one error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("EMPMANAGER_CONFIG"))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := loadDotenv(); err != nil {
		return Config{}, err
	}

	invalid := applyEnvironment(&cfg)
	invalid = append(invalid, cfg.resolve()...)

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func loadDotenv() error {
	if file := strings.TrimSpace(os.Getenv("EMPMANAGER_ENV_FILE")); file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat .env: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}

func applyEnvironment(cfg *Config) []string {
	invalid := make([]string, 0, 2)

	if v := env("EMPMANAGER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("EMPMANAGER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := env("EMPMANAGER_STORE"); v != "" {
		cfg.StoreBackend = v
	}
	if v := env("EMPMANAGER_SQLITE_DSN"); v != "" {
		cfg.SQLiteDSN = v
	}
	if v := env("EMPMANAGER_WORKDAY_START"); v != "" {
		cfg.WorkdayStart = v
	}
	if v := env("EMPMANAGER_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}

	if v := env("EMPMANAGER_SEED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "EMPMANAGER_SEED")
		} else {
			cfg.Seed = b
		}
	}
	if v := env("EMPMANAGER_DEMO_ACCOUNTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "EMPMANAGER_DEMO_ACCOUNTS")
		} else {
			cfg.DemoAccounts = b
		}
	}
	if v := env("EMPMANAGER_QUICK_CHECKIN_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, "EMPMANAGER_QUICK_CHECKIN_LIMIT")
		} else {
			cfg.QuickCheckInLimit = n
		}
	}

	return invalid
}

// resolve validates the textual settings and fills the derived fields.
func (c *Config) resolve() []string {
	var invalid []string

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid = append(invalid, "log_level")
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "text" && c.LogFormat != "json" {
		invalid = append(invalid, "log_format")
	}

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case StoreMemory:
	case StoreSQLite:
		if !sqlite.IsInMemoryDSN(c.SQLiteDSN) {
			invalid = append(invalid, "sqlite_dsn (must be an in-memory database)")
		}
	default:
		invalid = append(invalid, "store")
	}

	if minutes, err := persistence.ParseClock(c.WorkdayStart); err != nil {
		invalid = append(invalid, "workday_start")
	} else {
		c.WorkdayStartMinutes = minutes
	}

	if loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone)); err != nil {
		invalid = append(invalid, "timezone")
	} else {
		c.Location = loc
	}

	if c.QuickCheckInLimit < 0 {
		invalid = append(invalid, "quick_check_in_limit")
	}

	return invalid
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
