// Package config resolves the bridge configuration once per process with
// Viper and validates it before anything is started.
package config

import (
	"net"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

// Configuration is the resolved configuration: defaults, then config file,
// then BRIDGE_* environment variables, then explicitly set flags.
type Configuration struct {
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Adapter AdapterConfig `json:"adapter" mapstructure:"adapter"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// FileUsed is the config file that was read, empty when none was found.
	FileUsed string `json:"-" mapstructure:"-"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`

	// ReadTimeoutSeconds bounds reading a request, body included.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writes. Zero disables it, since a
	// completion can legitimately take as long as the adapter timeout.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds is how long in-flight completions get to drain.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// AdapterConfig selects and configures the backing CLI.
type AdapterConfig struct {
	// Kind is the adapter identifier (claude-code, gemini-cli, codex).
	Kind string `json:"kind" mapstructure:"kind"`

	// RuntimeDir is the working directory for spawned CLI processes.
	RuntimeDir string `json:"runtime_dir" mapstructure:"runtime_dir"`

	// TimeoutMS bounds each CLI execution, in milliseconds.
	TimeoutMS int `json:"timeout_ms" mapstructure:"timeout_ms"`

	// Debug enables prompt and raw output diagnostics.
	Debug bool `json:"debug" mapstructure:"debug"`

	// Model is passed to the CLI's model flag when non-empty.
	Model string `json:"model" mapstructure:"model"`

	// MaxOutputBytes caps captured CLI stdout.
	MaxOutputBytes int `json:"max_output_bytes" mapstructure:"max_output_bytes"`

	// KillGraceMS is the wait between SIGTERM and a hard kill, in milliseconds.
	KillGraceMS int `json:"kill_grace_ms" mapstructure:"kill_grace_ms"`

	// Binary overrides the CLI executable, for installs outside PATH.
	Binary string `json:"binary" mapstructure:"binary"`
}

// LoggingConfig controls the slog handler and optional file rotation.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // json, text

	// OutputPath is a log file rotated by size; empty logs to stdout.
	OutputPath string `json:"output_path" mapstructure:"output_path"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `json:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `json:"max_age_days" mapstructure:"max_age_days"`

	// MaxValueBytes truncates long string attributes such as raw CLI output
	// in debug records. Zero logs them in full.
	MaxValueBytes int `json:"max_value_bytes" mapstructure:"max_value_bytes"`

	// Compress gzips rotated files.
	Compress bool `json:"compress" mapstructure:"compress"`
}

// The process-wide configuration. Tests call ResetConfig between loads.
var (
	configOnce     sync.Once
	configInstance *Configuration
	configErr      error
)

// GetConfig loads configuration from the default search paths and the
// environment on first use and returns the same instance afterwards.
func GetConfig() (*Configuration, error) {
	return GetConfigWithFlags("", nil)
}

// GetConfigWithFlags is GetConfig with an explicit config file and a flag
// set. Flags the user actually set override every other source. Only the
// first call's arguments are used.
func GetConfigWithFlags(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig(configPath, flags)
	})
	return configInstance, configErr
}

// ResetConfig drops the cached configuration so the next call reloads it.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// Validate checks every section and reports all unusable values at once.
func (c *Configuration) Validate() error {
	verr := &ValidationError{}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		verr.add("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	for _, t := range []struct {
		key  string
		secs int
	}{
		{"server.read_timeout_seconds", c.Server.ReadTimeoutSeconds},
		{"server.write_timeout_seconds", c.Server.WriteTimeoutSeconds},
		{"server.shutdown_timeout_seconds", c.Server.ShutdownTimeoutSeconds},
	} {
		if t.secs < 0 {
			verr.add(t.key, t.secs, "cannot be negative")
		}
	}

	if !domain.AdapterKind(c.Adapter.Kind).IsValid() {
		verr.add("adapter.kind", c.Adapter.Kind, "is not a known adapter", adapterKindNames()...)
	}
	if c.Adapter.TimeoutMS <= 0 {
		verr.add("adapter.timeout_ms", c.Adapter.TimeoutMS, "must be greater than 0")
	}
	if c.Adapter.MaxOutputBytes < 0 {
		verr.add("adapter.max_output_bytes", c.Adapter.MaxOutputBytes, "cannot be negative")
	}
	if c.Adapter.RuntimeDir != "" {
		if info, err := os.Stat(c.Adapter.RuntimeDir); err != nil || !info.IsDir() {
			verr.add("adapter.runtime_dir", c.Adapter.RuntimeDir, "is not an existing directory")
		}
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		verr.add("logging.level", c.Logging.Level, "is invalid", logLevels...)
	}
	if c.Logging.MaxValueBytes < 0 {
		verr.add("logging.max_value_bytes", c.Logging.MaxValueBytes, "cannot be negative")
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		verr.add("logging.format", c.Logging.Format, "is invalid", "json", "text")
	}

	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

// AdapterSettings converts the adapter section into an adapter.Config.
func (c *Configuration) AdapterSettings() adapter.Config {
	return adapter.Config{
		Kind:           domain.AdapterKind(c.Adapter.Kind),
		RuntimeDir:     c.Adapter.RuntimeDir,
		Timeout:        time.Duration(c.Adapter.TimeoutMS) * time.Millisecond,
		Debug:          c.Adapter.Debug,
		Model:          c.Adapter.Model,
		MaxOutputBytes: c.Adapter.MaxOutputBytes,
		KillGrace:      time.Duration(c.Adapter.KillGraceMS) * time.Millisecond,
	}
}

// Address returns the host:port the server listens on.
func (c *Configuration) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// adapterKindNames lists the registered adapter kinds for error messages.
func adapterKindNames() []string {
	kinds := adapter.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

var logLevels = []string{"debug", "info", "warn", "error"}

func isValidLogLevel(level string) bool {
	return slices.Contains(logLevels, level)
}
