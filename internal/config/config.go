package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"usage-report/internal/model"
)

// PathEnv names the environment variable that points at the YAML config file.
const PathEnv = "CONFIG_FILE"

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config is the on-disk configuration shape (YAML).
// Every field has a default, so running without a file is valid.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Report  ReportConfig  `yaml:"report"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// Env is "development" or "production"; production puts gin in release mode.
	Env         string `yaml:"env"`
	StaticDir   string `yaml:"static_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type StorageConfig struct {
	Driver     string        `yaml:"driver"` // "memory" or "sqlite"
	SQLitePath string        `yaml:"sqlite_path"`
	TTL        time.Duration `yaml:"ttl"` // memory driver only; 0 keeps artifacts until shutdown
}

// ReportConfig holds defaults for the CLI and the chart geometry.
type ReportConfig struct {
	Motor  model.Motor  `yaml:"motor"`
	Tariff model.Tariff `yaml:"tariff"`

	// IncludeEndDay makes the end date cover the whole day instead of stopping at its midnight.
	IncludeEndDay bool `yaml:"include_end_day"`

	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	DPI          int     `yaml:"dpi"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port or URL
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	ClientID    string `yaml:"client_id,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Env:         "development",
			StaticDir:   "./web/dist",
			MaxUploadMB: 32,
		},
		Storage: StorageConfig{
			Driver:     StorageMemory,
			SQLitePath: "data/reports.db",
			TTL:        24 * time.Hour,
		},
		Report: ReportConfig{
			WidthInches:  10,
			HeightInches: 6,
			DPI:          100,
		},
	}
}

// Load reads defaults, then the YAML file at path (if any), then environment overrides,
// and validates the result. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked merges the YAML file onto the defaults without env overrides or validation.
// An empty path falls back to $CONFIG_FILE; if that is empty too, defaults are returned.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid API_PORT: %s", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("STORAGE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STORAGE_TTL: %s", v)
		}
		c.Storage.TTL = ttl
	}
	if v := os.Getenv("REPORT_INCLUDE_END_DAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REPORT_INCLUDE_END_DAY: %s", v)
		}
		c.Report.IncludeEndDay = b
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
		c.MQTT.Enabled = true
	}
	if v := os.Getenv("MQTT_TOPIC_PREFIX"); v != "" {
		c.MQTT.TopicPrefix = v
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		c.MQTT.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New("server.max_upload_mb must be > 0")
	}
	switch c.Storage.Driver {
	case StorageMemory:
		if c.Storage.TTL < 0 {
			return errors.New("storage.ttl must be >= 0")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported storage.driver: %q", c.Storage.Driver)
	}
	if err := c.Report.Motor.Validate(); err != nil {
		return fmt.Errorf("report.motor invalid: %w", err)
	}
	if err := c.Report.Tariff.Validate(); err != nil {
		return fmt.Errorf("report.tariff invalid: %w", err)
	}
	if c.Report.WidthInches <= 0 || c.Report.HeightInches <= 0 {
		return errors.New("report.width_inches and report.height_inches must be > 0")
	}
	if c.Report.DPI <= 0 {
		return errors.New("report.dpi must be > 0")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}

// Production reports whether the server runs in release mode.
func (s ServerConfig) Production() bool {
	return strings.EqualFold(s.Env, "production")
}

// ListenAddr returns the host:port string for the HTTP server.
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// MaxUploadBytes is the request body limit for CSV uploads.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
