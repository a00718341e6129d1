package cli

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings are the CLI-level options resolved from flags, GBIF_* environment
// variables, and an optional config file, in that precedence order.
type Settings struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	LogLevel       string `mapstructure:"log_level"`
	Pretty         bool   `mapstructure:"pretty"`
}

// LoadSettings reads settings from the given config file (optional) and the
// environment. An empty path means no config file; a named file that cannot
// be read is an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("base_url", "https://api.gbif.org")
	v.SetDefault("user_agent", "gbif-records/0.2.0 (github.com/savantlab/gbif-records)")
	v.SetDefault("timeout_seconds", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty", false)

	v.SetEnvPrefix("GBIF")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return settings, nil
}
