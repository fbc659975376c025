// Package config loads project-level defaults from an optional ruchy.toml
// or ruchy.yaml in the working directory (or an explicit --config path),
// layered under the CLI flags via viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config is the project configuration surface the CLI consumes. Every
// field has a default so a project without a config file behaves the same
// as one with an empty one.
type Config struct {
	// Edition is the Rust edition passed to the host compiler.
	Edition string `mapstructure:"edition"`
	// OutputDir is loaded from output_dir; no command reads it, and -o
	// paths are used as given.
	OutputDir string `mapstructure:"output_dir"`
	// CachePath is the incremental-cache location.
	CachePath string `mapstructure:"cache_path"`

	Lint struct {
		// MaxWarnings caps lint output before the run is cut short; 0
		// means unlimited.
		MaxWarnings int `mapstructure:"max_warnings"`
	} `mapstructure:"lint"`

	Fuzz struct {
		Iterations int `mapstructure:"iterations"`
	} `mapstructure:"fuzz"`

	PropertyTests struct {
		Cases int `mapstructure:"cases"`
	} `mapstructure:"property_tests"`
}

// Load reads configuration from cfgFile if given, otherwise from
// ruchy.{toml,yaml,yml} in the current directory. A missing file is not an
// error; defaults apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("edition", "2021")
	v.SetDefault("output_dir", ".")
	v.SetDefault("cache_path", ".ruchy/cache.json")
	v.SetDefault("lint.max_warnings", 0)
	v.SetDefault("fuzz.iterations", 100)
	v.SetDefault("property_tests.cases", 100)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ruchy")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing discovered file means defaults apply; an explicitly
		// named file that is missing or malformed is the user's error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
