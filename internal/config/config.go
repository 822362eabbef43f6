// Package config loads layered configuration: defaults, an optional YAML
// file, CANOPY_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Keys.
const (
	KeyDB              = "db"
	KeyTemplatesDir    = "templates_dir"
	KeyCatalog         = "catalog"
	KeyStrictStructure = "strict_structure"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
)

// Config is the resolved configuration.
type Config struct {
	DB              string `mapstructure:"db"`
	TemplatesDir    string `mapstructure:"templates_dir"`
	Catalog         string `mapstructure:"catalog"`
	StrictStructure bool   `mapstructure:"strict_structure"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "canopy")
	v.SetDefault(KeyDB, filepath.Join(dataDir, "canopy.db"))
	v.SetDefault(KeyTemplatesDir, filepath.Join(dataDir, "templates"))
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyStrictStructure, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix("CANOPY")
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) into v and decodes the result. An
// explicit cfgFile must exist; the default location is optional.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "canopy"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DB == "" {
		return nil, errors.New("config: db path is empty")
	}
	return &cfg, nil
}
