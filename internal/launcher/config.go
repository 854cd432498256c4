package launcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the fixed names the launcher checks and exports. The defaults
// describe a Hummingbot source checkout.
type Config struct {
	Entrypoint      string `mapstructure:"entrypoint"`
	EnvVar          string `mapstructure:"env_var"`
	ExpectedEnv     string `mapstructure:"expected_env"`
	BinDir          string `mapstructure:"bin_dir"`
	ModulePathVar   string `mapstructure:"module_path_var"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// EnvPrefix prefixes environment overrides, e.g. HBLAUNCH_EXPECTED_ENV.
const EnvPrefix = "HBLAUNCH"

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Entrypoint:    "bin/hummingbot_quickstart.py",
		EnvVar:        "CONDA_DEFAULT_ENV",
		ExpectedEnv:   "hummingbot",
		BinDir:        "bin",
		ModulePathVar: "PYTHONPATH",
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// LoadConfig reads launcher settings from an optional YAML file and HBLAUNCH_*
// environment variables on top of DefaultConfig. An empty path skips the file.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	def := DefaultConfig()
	v.SetDefault("entrypoint", def.Entrypoint)
	v.SetDefault("env_var", def.EnvVar)
	v.SetDefault("expected_env", def.ExpectedEnv)
	v.SetDefault("bin_dir", def.BinDir)
	v.SetDefault("module_path_var", def.ModulePathVar)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("metrics_textfile", def.MetricsTextfile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read launcher config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode launcher config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would make every launch fail.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Entrypoint) == "" {
		return errors.New("launcher config: entrypoint must not be empty")
	}
	if strings.TrimSpace(c.EnvVar) == "" {
		return errors.New("launcher config: env_var must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("launcher config: log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
