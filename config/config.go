package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Thresholds are the primary-dimension cut-offs used by automatic method
// selection.  A target at or below QualityBalanced is scaled for quality, at
// or below BalancedSpeed for balance, and anything larger for speed.
type Thresholds struct {
	QualityBalanced int `mapstructure:"quality_balanced" default:"800" validate:"gt=0"`
	BalancedSpeed   int `mapstructure:"balanced_speed" default:"1600" validate:"gt=0"`
}

// DefaultThresholds returns the 800/1600 cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{QualityBalanced: 800, BalancedSpeed: 1600}
}

// LegacyThresholds returns the 700/1600 cut-offs used by the earlier
// generation of the scaler.
func LegacyThresholds() Thresholds {
	return Thresholds{QualityBalanced: 700, BalancedSpeed: 1600}
}

// Config is the top-level configuration struct.  Start from Default() and
// override only what you need; the zero value is not valid.
type Config struct {
	Thresholds Thresholds `mapstructure:"thresholds"`

	// Debug enables trace logging of every resize stage.
	Debug bool `mapstructure:"debug"`

	// Backend names the rasterizer used for every pass.
	Backend string `mapstructure:"backend" default:"xdraw" validate:"required"`

	// Worker pool controls.
	WorkerCount int           `mapstructure:"worker_count" validate:"gte=0"` // 0: runtime.NumCPU()
	QueueSize   int           `mapstructure:"queue_size" default:"256" validate:"gt=0"`
	JobTimeout  time.Duration `mapstructure:"job_timeout" default:"30s" validate:"gte=0"`

	// Default encode quality applied when a caller does not override it.
	DefaultQuality int `mapstructure:"default_quality" default:"85" validate:"min=1,max=100"`

	// Logging.
	LogLevel string `mapstructure:"log_level" default:"info" validate:"oneof=debug info warn error"`
}

// Default returns a Config populated with production defaults.
func Default() Config {
	var c Config
	// Only fails on a malformed default tag.
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config: default tags: %v", err))
	}
	return c
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Thresholds.QualityBalanced >= c.Thresholds.BalancedSpeed {
		return errors.New("config: Thresholds.QualityBalanced must be less than BalancedSpeed")
	}
	return nil
}
