// Package config loads pool settings from a configuration file and the
// environment, so services can size their pools from deployment config
// instead of hardcoded constants.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Classic thread-pool sizing defaults.
const (
	DefaultMinWorkers = 5
	DefaultMaxWorkers = 20
	DefaultName       = "threadpool"
)

// Pool holds the loadable pool settings.
type Pool struct {
	MinWorkers int
	MaxWorkers int
	Name       string
}

// Load reads pool settings from the file at path (any format viper
// understands; the extension decides) with environment overrides under the
// TEAMPOOL_ prefix, e.g. TEAMPOOL_POOL_MAX_WORKERS=64. An empty path loads
// defaults and environment only.
//
// Recognized keys:
//
//	pool.min_workers
//	pool.max_workers
//	pool.name
func Load(path string) (*Pool, error) {
	v := viper.New()
	v.SetDefault("pool.min_workers", DefaultMinWorkers)
	v.SetDefault("pool.max_workers", DefaultMaxWorkers)
	v.SetDefault("pool.name", DefaultName)

	v.SetEnvPrefix("TEAMPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read pool config: %w", err)
		}
	}

	cfg := &Pool{
		MinWorkers: v.GetInt("pool.min_workers"),
		MaxWorkers: v.GetInt("pool.max_workers"),
		Name:       v.GetString("pool.name"),
	}
	if cfg.MinWorkers < 0 || cfg.MinWorkers > cfg.MaxWorkers {
		return nil, fmt.Errorf("pool config: invalid worker bounds min=%d max=%d",
			cfg.MinWorkers, cfg.MaxWorkers)
	}
	return cfg, nil
}
