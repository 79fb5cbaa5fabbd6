package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/steamharvest/steamharvest/pkg/client"
)

// configName is the config file name without extension.
const configName = ".steamharvest"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix, so collect.batch_size
// becomes STEAMHARVEST_COLLECT_BATCH_SIZE.
const envPrefix = "STEAMHARVEST"

// Load reads configuration from file, environment and defaults. A
// non-empty path names the config file explicitly; otherwise
// .steamharvest.yaml is searched in the working directory and $HOME. A
// missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)

	v.SetDefault("collect.batch_size", DefaultBatchSize)
	v.SetDefault("collect.end", 0)
	v.SetDefault("collect.pause", 0)
	v.SetDefault("collect.continue_on_error", false)
	v.SetDefault("collect.progress", DefaultProgress)

	v.SetDefault("client.user_agent", client.DefaultUserAgent)
	v.SetDefault("client.timeout", DefaultClientTimeout)
	v.SetDefault("client.max_attempts", DefaultMaxAttempts)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", DefaultCacheAddr)
	v.SetDefault("cache.db", DefaultCacheDB)
	v.SetDefault("cache.ttl", DefaultCacheTTL)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.pretty", DefaultLogPretty)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", DefaultMetricsAddr)
}
