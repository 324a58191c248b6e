package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestRootCmd creates a cobra.Command with the same persistent flags as the
// real root command so that Load can bind them during tests.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")

	return cmd
}

// writeTempConfig writes a YAML string to a temporary file and returns the path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// ---------------------------------------------------------------------------
// Default
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Zero(t, cfg.Tick)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, FormatText, cfg.Format)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidate_ValidValues(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		cfg := Default()
		cfg.LogLevel = lvl
		assert.NoError(t, cfg.Validate(), "level=%s", lvl)
	}

	for _, format := range []string{"text", "json", "yaml"} {
		cfg := Default()
		cfg.Format = format
		assert.NoError(t, cfg.Validate(), "format=%s", format)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	assert.ErrorContains(t, cfg.Validate(), "invalid log format")
}

func TestValidate_InvalidOutputFormat(t *testing.T) {
	cfg := Default()
	cfg.Format = "csv"
	assert.ErrorContains(t, cfg.Validate(), "invalid output format")
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := Default()
	cfg.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "invalid timeout")
}

func TestValidate_TickExceedsTimeout(t *testing.T) {
	cfg := Default()
	cfg.Timeout = 100 * time.Millisecond
	cfg.Tick = 200 * time.Millisecond
	assert.ErrorContains(t, cfg.Validate(), "exceeds timeout")
}

func TestValidate_NegativeTick(t *testing.T) {
	cfg := Default()
	cfg.Tick = -time.Millisecond
	assert.ErrorContains(t, cfg.Validate(), "must not be negative")
}

// ---------------------------------------------------------------------------
// EffectiveLogLevel
// ---------------------------------------------------------------------------

func TestEffectiveLogLevel_Normal(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestEffectiveLogLevel_QuietOverride(t *testing.T) {
	cfg := &Config{LogLevel: "debug", Quiet: true}
	assert.Equal(t, "error", cfg.EffectiveLogLevel())
}

// ---------------------------------------------------------------------------
// Load — defaults only
// ---------------------------------------------------------------------------

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, FormatText, cfg.Format)
}

// ---------------------------------------------------------------------------
// Load — environment variables
// ---------------------------------------------------------------------------

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("FSDEBOUNCE_LOG_LEVEL", "debug")
	t.Setenv("FSDEBOUNCE_TIMEOUT", "2s")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

// ---------------------------------------------------------------------------
// Load — config file
// ---------------------------------------------------------------------------

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, `
log-level: warn
timeout: 750ms
recursive: false
format: json
exclude:
  - "*.log"
  - "node_modules"
`)

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, cfg.LogLevel)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.False(t, cfg.Recursive)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, []string{"*.log", "node_modules"}, cfg.Exclude)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_ConfigFileMissing(t *testing.T) {
	_, err := Load(nil, "/nonexistent/fsdebounce.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_ConfigFileMalformed(t *testing.T) {
	p := writeTempConfig(t, "log-level: [broken")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_ConfigFileInvalidValue(t *testing.T) {
	p := writeTempConfig(t, "log-level: loud")

	_, err := Load(nil, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

// ---------------------------------------------------------------------------
// Load — flags
// ---------------------------------------------------------------------------

func TestLoad_FlagOverridesEnvAndFile(t *testing.T) {
	t.Setenv("FSDEBOUNCE_LOG_LEVEL", "warn")

	p := writeTempConfig(t, "log-level: error")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "debug"))

	cfg, err := Load(cmd, p)
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

func TestContext_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = LogLevelDebug

	ctx := NewContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestContext_Fallback(t *testing.T) {
	cfg := FromContext(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
}
