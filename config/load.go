package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IMGSCALE_DEBUG or
// IMGSCALE_THRESHOLDS_QUALITY_BALANCED.
const EnvPrefix = "IMGSCALE"

// Load reads the configuration once.  path is an optional YAML, JSON or TOML
// file; "" skips the file.  Environment variables take precedence over the
// file, and unset keys keep their defaults.  The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for key, def := range defaultKeys() {
		v.SetDefault(key, def)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// Defaults go in first so an explicit zero, such as job_timeout: 0 for
	// no timeout, survives the unmarshal.
	var c Config
	if err := defaults.Set(&c); err != nil {
		return Config{}, fmt.Errorf("config: defaults: %w", err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func defaultKeys() map[string]any {
	d := Default()
	return map[string]any{
		"thresholds.quality_balanced": d.Thresholds.QualityBalanced,
		"thresholds.balanced_speed":   d.Thresholds.BalancedSpeed,
		"debug":                       d.Debug,
		"backend":                     d.Backend,
		"worker_count":                d.WorkerCount,
		"queue_size":                  d.QueueSize,
		"job_timeout":                 d.JobTimeout,
		"default_quality":             d.DefaultQuality,
		"log_level":                   d.LogLevel,
	}
}
