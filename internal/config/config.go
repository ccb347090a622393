// Package config loads docqa settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultTheme      = "default"
	DefaultIndentUnit = 20

	envPrefix = "DOCQA"
)

// Config holds the resolved settings.
type Config struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	CompanyID  string        `mapstructure:"company_id"`
	Theme      string        `mapstructure:"theme"`
	IndentUnit int           `mapstructure:"indent_unit"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Verbose    bool          `mapstructure:"verbose"`
}

// New returns a viper instance with defaults and environment bindings.
// API_BASE_URL is honoured alongside DOCQA_API_BASE_URL so an existing .env
// for the web client keeps working.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("company_id", "")
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("indent_unit", DefaultIndentUnit)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_base_url", envPrefix+"_API_BASE_URL", "API_BASE_URL")
	return v
}

// BindFlags binds the flags whose names match config keys (with dashes for
// underscores) to v.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		switch key {
		case "api_base_url", "company_id", "theme", "indent_unit", "timeout", "verbose":
			if err := v.BindPFlag(key, f); err != nil {
				errs = append(errs, fmt.Errorf("bind %s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Load reads the config file, if any, and unmarshals v. An explicit path
// must exist; otherwise config.yaml is looked up in the user config
// directory and the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	cfg.CompanyID = strings.TrimSpace(cfg.CompanyID)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.IndentUnit < 0 {
		return nil, fmt.Errorf("config: indent_unit must be >= 0")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("config: timeout must be >= 0")
	}
	return &cfg, nil
}

// Dir returns the docqa configuration directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docqa"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa"), nil
}
