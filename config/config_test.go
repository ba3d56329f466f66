package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-scaler/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, config.DefaultThresholds(), c.Thresholds)
	assert.Equal(t, "xdraw", c.Backend)
	assert.Equal(t, 256, c.QueueSize)
	assert.Equal(t, 30*time.Second, c.JobTimeout)
	assert.Equal(t, 85, c.DefaultQuality)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.Debug)
	require.NoError(t, config.Validate(c))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"quality zero", func(c *config.Config) { c.DefaultQuality = 0 }},
		{"quality above 100", func(c *config.Config) { c.DefaultQuality = 101 }},
		{"negative workers", func(c *config.Config) { c.WorkerCount = -1 }},
		{"empty backend", func(c *config.Config) { c.Backend = "" }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }},
		{"zero threshold", func(c *config.Config) { c.Thresholds.QualityBalanced = 0 }},
		{"inverted thresholds", func(c *config.Config) { c.Thresholds = config.Thresholds{QualityBalanced: 1600, BalancedSpeed: 800} }},
		{"equal thresholds", func(c *config.Config) { c.Thresholds = config.Thresholds{QualityBalanced: 900, BalancedSpeed: 900} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := config.Default()
			tc.mutate(&c)
			err := config.Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config:")
		})
	}

	c := config.Default()
	c.Thresholds = config.LegacyThresholds()
	assert.NoError(t, config.Validate(c))
}

func TestLoad_DefaultsOnly(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMGSCALE_THRESHOLDS_QUALITY_BALANCED", "700")
	t.Setenv("IMGSCALE_DEBUG", "true")
	t.Setenv("IMGSCALE_BACKEND", "gift")
	t.Setenv("IMGSCALE_JOB_TIMEOUT", "45s")

	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.LegacyThresholds(), c.Thresholds)
	assert.True(t, c.Debug)
	assert.Equal(t, "gift", c.Backend)
	assert.Equal(t, 45*time.Second, c.JobTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: imaging
log_level: debug
thresholds:
  quality_balanced: 500
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "imaging", c.Backend)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 500, c.Thresholds.QualityBalanced)
	assert.Equal(t, 1600, c.Thresholds.BalancedSpeed)

	t.Setenv("IMGSCALE_BACKEND", "nfnt")
	c, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nfnt", c.Backend, "env wins over file")
}

func TestLoad_ExplicitZeroTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte("job_timeout: 0\n"), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Zero(t, c.JobTimeout)
	assert.Equal(t, 256, c.QueueSize, "unset keys keep their defaults")

	t.Setenv("IMGSCALE_JOB_TIMEOUT", "0s")
	c, err = config.Load("")
	require.NoError(t, err)
	assert.Zero(t, c.JobTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("IMGSCALE_THRESHOLDS_QUALITY_BALANCED", "2000")
	_, err := config.Load("")
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
