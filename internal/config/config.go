// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/deeemdeeem/tt-report-automation/internal/history"
	"github.com/deeemdeeem/tt-report-automation/internal/layout"
)

// Config holds the application configuration.
type Config struct {
	Template  string `mapstructure:"template"`
	Worksheet string `mapstructure:"worksheet"`
	Layout    string `mapstructure:"layout"`
	Output    struct {
		Dir   string `mapstructure:"dir"`
		Color bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Server struct {
		Addr        string `mapstructure:"addr"`
		MaxUploadMB int64  `mapstructure:"max_upload_mb"`
	} `mapstructure:"server"`
	Watch struct {
		DebounceMS int `mapstructure:"debounce_ms"`
	} `mapstructure:"watch"`
	Batch struct {
		Concurrency int `mapstructure:"concurrency"`
	} `mapstructure:"batch"`
	History bool `mapstructure:"history"`
}

var explicitFile string

// UseFile makes Load read path instead of ~/.ttreport/config.yaml.
func UseFile(path string) {
	explicitFile = path
}

// Load reads the configuration from ~/.ttreport/config.yaml (or the file set
// with UseFile) and TTREPORT_* environment variables.
func Load() (*Config, error) {
	if explicitFile != "" {
		viper.SetConfigFile(explicitFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	setDefaults()

	// Environment variable overrides: TTREPORT_SERVER_ADDR -> server.addr
	viper.SetEnvPrefix("TTREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("template", "TT_report.pptx")
	viper.SetDefault("worksheet", "TT_worksheet.xlsm")
	viper.SetDefault("layout", "")
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.color", true)
	viper.SetDefault("server.addr", ":5000")
	viper.SetDefault("server.max_upload_mb", 32)
	viper.SetDefault("watch.debounce_ms", 500)
	viper.SetDefault("batch.concurrency", 4)
	viper.SetDefault("history", true)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ttreport"
	}
	return filepath.Join(home, ".ttreport")
}

// LoadLayout returns the layout file named by override, else the configured
// one, else the built-in layout.
func (c *Config) LoadLayout(override string) (*layout.Layout, error) {
	path := c.Layout
	if override != "" {
		path = override
	}
	return layout.Load(path)
}

// HistoryStore returns the build history store, or nil when history is off.
func (c *Config) HistoryStore() *history.Store {
	if !c.History {
		return nil
	}
	return history.DefaultStore()
}

// Pick returns flag when it is set, otherwise fallback.
func Pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
