package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/security"
)

const envPrefix = "BRIDGE"

// searchPaths are tried in order for config.yaml when no file is given.
var searchPaths = []string{".", "./configs", "/etc/hpn-cli-bridge", "$HOME/.hpn-cli-bridge"}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"host":        "server.host",
	"port":        "server.port",
	"adapter":     "adapter.kind",
	"model":       "adapter.model",
	"timeout-ms":  "adapter.timeout_ms",
	"runtime-dir": "adapter.runtime_dir",
	"debug":       "adapter.debug",
	"log-level":   "logging.level",
}

// defaults holds every key's fallback value. BRIDGE_<SECTION>_<KEY> env
// lookups only work for keys viper knows about, so every key is listed.
var defaults = map[string]any{
	"server.host":                     "0.0.0.0",
	"server.port":                     8000,
	"server.read_timeout_seconds":     30,
	"server.write_timeout_seconds":    0,
	"server.shutdown_timeout_seconds": 15,

	"adapter.kind":             string(domain.DefaultAdapterKind),
	"adapter.runtime_dir":      ".",
	"adapter.timeout_ms":       int(adapter.DefaultTimeout.Milliseconds()),
	"adapter.debug":            false,
	"adapter.model":            "",
	"adapter.max_output_bytes": adapter.MinOutputBytes,
	"adapter.kill_grace_ms":    int(adapter.DefaultKillGrace.Milliseconds()),
	"adapter.binary":           "",

	"logging.level":        "info",
	"logging.format":       "json",
	"logging.output_path":  "",
	"logging.max_size_mb":  100,
	"logging.max_backups":  3,
	"logging.max_age_days": 28,
	"logging.compress":     false,

	"logging.max_value_bytes": security.DefaultMaxValueLength,
}

// loadConfig resolves configuration. Highest priority first:
// explicitly set flags, BRIDGE_* env vars, the config file, defaults.
func loadConfig(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	v := newViper(configPath)

	if err := bindFlags(v, flags); err != nil {
		return nil, &ConfigError{Op: "bind_flags", Err: err}
	}

	// A missing file is fine while searching. An explicit path must exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, &ConfigError{Op: "read", Err: err}
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Op: "unmarshal", Err: err}
	}
	cfg.FileUsed = v.ConfigFileUsed()
	cfg.Adapter.Kind = strings.ToLower(strings.TrimSpace(cfg.Adapter.Kind))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags binds the known flags present in flags to their configuration keys.
// Viper only prefers a bound flag over env and file values once it has changed.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}
