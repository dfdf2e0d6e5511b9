package cascade

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/cascade/config/engine.yaml"
	content := `
max_retries: 5
retry_base_delay: 250ms
per_stage_timeout: 30s
enable_parallel_targeting: false
default_target_count: 4
registry:
  max_entries: 500
  terminal_ttl: 15m
`
	fs := afs.New()
	assert.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)))

	config, err := LoadConfig(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, config.RetryBaseDelay.Std())
	assert.Equal(t, 30*time.Second, config.StageTimeout.Std())
	assert.False(t, config.EnableParallelTargeting)
	assert.Equal(t, 4, config.DefaultTargetCount)
	assert.Equal(t, 500, config.Registry.MaxEntries)
	assert.Equal(t, 15*time.Minute, config.Registry.TerminalTTL.Std())
	// unset fields keep their defaults
	assert.Equal(t, 5*time.Second, config.RetryBackoffCap.Std())
}

func TestLoadConfig_Invalid(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	URL := "mem://localhost/cascade/config/bad.yaml"
	assert.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader("max_retries: 0\n")))
	_, err := LoadConfig(ctx, URL)
	assert.Error(t, err)

	URL = "mem://localhost/cascade/config/garbled.yaml"
	assert.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader("max_retries: [\n")))
	_, err = LoadConfig(ctx, URL)
	assert.Error(t, err)

	_, err = LoadConfig(ctx, "mem://localhost/cascade/config/missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())

	config.MaxRetries = 0
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.RetryBaseDelay = Duration(-time.Second)
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Registry.MaxEntries = -1
	assert.Error(t, config.Validate())
}
