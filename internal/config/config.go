// Package config holds CLI-level toggles - color, verbosity, watch
// debounce - read through viper with environment variable overrides. It has
// no output-format setting. Nothing in the interpreter core
// (lexer/parser/relation/eval) depends on this package; only cmd/datalog
// wires it in.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the set of CLI toggles that shape how a run is presented, but
// never what it computes.
type Config struct {
	Verbose       bool          `mapstructure:"verbose"`
	Color         bool          `mapstructure:"color"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// Load reads configuration from a "datalog.yaml"/"datalog.yml" file in the
// current directory if present, layered under defaults and environment
// variable overrides (DATALOG_VERBOSE, DATALOG_COLOR, DATALOG_WATCH_DEBOUNCE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("verbose", false)
	v.SetDefault("color", true)
	v.SetDefault("watch_debounce", 100*time.Millisecond)

	v.SetConfigName("datalog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("datalog")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
