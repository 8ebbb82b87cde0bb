package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/pricefeed/internal/retry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	JSONLog  bool   `mapstructure:"json_log"`

	// Proxies
	Proxies       []string `mapstructure:"proxies" validate:"required,min=1,dive,proxy_url"`
	PerProxyRPS   float64  `mapstructure:"per_proxy_rps" validate:"min=0"`
	PerProxyBurst int      `mapstructure:"per_proxy_burst" validate:"min=1"`

	// Fetching
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=50"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
	MinBackoff  time.Duration `mapstructure:"min_backoff" validate:"min=0,max=1m"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff" validate:"gtefield=MinBackoff,max=1m"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
	Headers     []string      `mapstructure:"headers" validate:"dive,header_line"`

	// Batch
	Concurrency int `mapstructure:"concurrency" validate:"min=0,max=200"`
}

// Retry returns the per-target retry budget
func (c *Config) Retry() retry.Config {
	return retry.Config{
		MaxAttempts: c.MaxAttempts,
		Timeout:     c.Timeout,
		MinBackoff:  c.MinBackoff,
		MaxBackoff:  c.MaxBackoff,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json_log", DefaultJSONLog)
	v.SetDefault("proxies", []string{})
	v.SetDefault("per_proxy_rps", DefaultPerProxyRPS)
	v.SetDefault("per_proxy_burst", DefaultPerProxyBurst)
	v.SetDefault("max_attempts", DefaultMaxAttempts)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("min_backoff", DefaultMinBackoff)
	v.SetDefault("max_backoff", DefaultMaxBackoff)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("headers", []string{})
	v.SetDefault("concurrency", DefaultConcurrency)
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var configPath string
	if cmd != nil {
		flags := cmd.Flags()
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		configPath, _ = flags.GetString("config")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pricefeed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pricefeed")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Lists from env or flags may be comma or space separated
	cfg.Proxies = splitList(cfg.Proxies)

	if cmd != nil {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.LogLevel = "debug"
		} else if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
