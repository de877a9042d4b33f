package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultDBPath   = "./logattrs.db"
	defaultHTTPAddr = "127.0.0.1:8080"
)

// appConfig is internal runtime configuration, layered from defaults,
// an optional config file, and LOGATTRS_* environment variables.
type appConfig struct {
	DBPath         string `mapstructure:"db-path"`
	AttributesFile string `mapstructure:"attributes-file"`
	Logfile        string `mapstructure:"logfile"`
	HTTPAddr       string `mapstructure:"http-addr"`
	Debug          bool   `mapstructure:"debug"`
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("LOGATTRS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("attributes-file", "")
	v.SetDefault("logfile", "")
	v.SetDefault("http-addr", defaultHTTPAddr)
	v.SetDefault("debug", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/logattrs")
	}

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return cfg, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
		// a missing default config is fine, a broken one is not
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
