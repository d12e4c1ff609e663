package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Import    ImportConfig    `mapstructure:"import"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// APIConfig points at the catalog service the dashboard drives.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DashboardConfig struct {
	PageSize int           `mapstructure:"page_size"`
	ToastTTL time.Duration `mapstructure:"toast_ttl"`
}

type ImportConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	HideDelay     time.Duration `mapstructure:"hide_delay"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	MaxPollErrors int           `mapstructure:"max_poll_errors"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

var defaults = map[string]any{
	"server.host":             "127.0.0.1",
	"server.port":             8080,
	"server.read_timeout":     "15s",
	"server.write_timeout":    "60s",
	"server.idle_timeout":     "120s",
	"server.max_upload_bytes": 64 << 20,
	"api.base_url":            "http://localhost:8000",
	"api.timeout":             "30s",
	"dashboard.page_size":     20,
	"dashboard.toast_ttl":     "2500ms",
	"import.poll_interval":    "800ms",
	"import.hide_delay":       "1s",
	"import.poll_timeout":     "10m",
	"import.max_poll_errors":  5,
	"logging.level":           "info",
	"logging.format":          "json",
	"logging.output":          "stdout",
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at path, applies environment overrides
// (api.base_url -> API_BASE_URL) and fills anything unset with defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.Dashboard.PageSize < 1 {
		return errors.New("dashboard.page_size must be positive")
	}
	if c.Import.PollInterval <= 0 {
		return errors.New("import.poll_interval must be positive")
	}
	return nil
}
