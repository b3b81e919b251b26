package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application settings outside of the LLM provider, which is
// configured by llm.ConfigFromEnv.
type Config struct {
	Addr        string   `yaml:"addr"`
	DBDriver    string   `yaml:"db_driver"` // "sqlite" or "postgres"
	DBPath      string   `yaml:"db"`
	KV          string   `yaml:"kv"` // "sql", "redis", "file", "memory"
	RedisAddr   string   `yaml:"redis_addr"`
	FileDir     string   `yaml:"file_dir"`
	Namespace   string   `yaml:"namespace"`
	JWTSecret   string   `yaml:"jwt_secret"`
	TokenTTL    Duration `yaml:"token_ttl"`
	ParentPIN   string   `yaml:"parent_pin"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogMode     string   `yaml:"log_mode"`
	Timezone    string   `yaml:"timezone"`

	// EventRetentionDays bounds how long LLM request events are kept.
	EventRetentionDays int `yaml:"event_retention_days"`

	// SessionIdle is how long an unused session machine stays in memory.
	SessionIdle Duration `yaml:"session_idle"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		DBDriver:           "sqlite",
		KV:                 "sql",
		Namespace:          "sensei-progress",
		TokenTTL:           Duration{365 * 24 * time.Hour},
		ParentPIN:          "2468",
		CORSOrigins:        []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		LogMode:            "dev",
		Timezone:           "Local",
		EventRetentionDays: 30,
		SessionIdle:        Duration{30 * time.Minute},
	}
}

// Load builds a Config from defaults, a .env file in the working directory
// (if any), the YAML file at path (if non-empty), and finally SENSEI_*
// environment variables.
func Load(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "SENSEI_ADDR")
	setString(&cfg.DBDriver, "SENSEI_DB_DRIVER")
	setString(&cfg.DBPath, "SENSEI_DB")
	setString(&cfg.KV, "SENSEI_KV")
	setString(&cfg.RedisAddr, "SENSEI_REDIS_ADDR")
	setString(&cfg.FileDir, "SENSEI_FILE_DIR")
	setString(&cfg.Namespace, "SENSEI_NAMESPACE")
	setString(&cfg.JWTSecret, "SENSEI_JWT_SECRET")
	setString(&cfg.ParentPIN, "SENSEI_PARENT_PIN")
	setString(&cfg.LogMode, "SENSEI_LOG_MODE")
	setString(&cfg.Timezone, "SENSEI_TIMEZONE")

	if v := os.Getenv("SENSEI_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	if v := os.Getenv("SENSEI_EVENT_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EventRetentionDays = n
		}
	}
	if v := os.Getenv("SENSEI_SESSION_IDLE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionIdle = Duration{d}
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db driver: %q", c.DBDriver)
	}
	switch c.KV {
	case "sql", "memory", "file":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("SENSEI_REDIS_ADDR is required for the redis progress backend")
		}
	default:
		return fmt.Errorf("unknown progress backend: %q", c.KV)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. The user-local calendar day drives the
// daily XP/session reset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SENSEI_DB environment variable
// 2. $XDG_DATA_HOME/sensei/sensei.db
// 3. ~/.local/share/sensei/sensei.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SENSEI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sensei", "sensei.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
