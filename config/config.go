// Package config loads the engine's settings (manifest path, default
// batch size, log level, log file path) from environment variables
// prefixed TOYDB_ and an optional .env file, using
// github.com/spf13/viper. Grounded directly on
// KartikBazzad-bunbase/pkg/config/config.Load(prefix, target): the same
// "viper.New, read .env if present, manually scan os.Environ for the
// prefix since AutomaticEnv needs known keys, then Unmarshal" shape,
// adapted to toydb's own settings instead of bunbase's DB/auth settings.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full set of settings toydb reads at startup.
type Config struct {
	ManifestPath string `mapstructure:"manifest_path"`
	BatchSize    int64  `mapstructure:"batch_size"`
	LogLevel     string `mapstructure:"log_level"`
	LogFile      string `mapstructure:"log_file"`
}

// Default returns the settings used when no environment variable or .env
// entry overrides them.
func Default() Config {
	return Config{
		ManifestPath: "tdb_manifest.json",
		BatchSize:    8192,
		LogLevel:     "info",
		LogFile:      "latest.log",
	}
}

// Load populates target (starting from Default()) with settings
// from an optional .env file and TOYDB_-prefixed environment variables.
func Load(target *Config) error {
	*target = Default()

	v := viper.New()
	v.SetConfigFile(".env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// a malformed .env is non-fatal here; Unmarshal below simply
			// won't see any values from it.
		}
	}

	const prefix = "TOYDB_"
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key, value := pair[0], pair[1]
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		propKey := strings.TrimPrefix(key, prefix)
		propKey = strings.ToLower(propKey)
		v.Set(propKey, value)
	}

	return v.Unmarshal(target)
}
