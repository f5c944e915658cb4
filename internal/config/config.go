// Package config loads engine configuration from YAML files and
// MATCHGATE_-prefixed environment variables via viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig sizes the engine's pre-allocated resources and carries the
// optional placement knobs (-1 disables pinning/binding).
type EngineConfig struct {
	ArenaSize   int  `mapstructure:"arena_size"`
	RingSize    int  `mapstructure:"ring_size"`
	SymbolsHint int  `mapstructure:"symbols_hint"`
	CPUCore     int  `mapstructure:"cpu_core"`
	NUMANode    int  `mapstructure:"numa_node"`
	HugePages   bool `mapstructure:"huge_pages"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the given config files (missing ones are skipped), applies
// environment overrides and fills defaults.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("MATCHGATE")

	v.SetDefault("engine.arena_size", 1<<20)
	v.SetDefault("engine.ring_size", 1<<16)
	v.SetDefault("engine.symbols_hint", 256)
	v.SetDefault("engine.cpu_core", -1)
	v.SetDefault("engine.numa_node", -1)
	v.SetDefault("engine.huge_pages", false)
	v.SetDefault("logging.level", "info")

	if len(paths) == 0 {
		paths = []string{"./matchgate.yaml", "./configs/matchgate.yaml"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
