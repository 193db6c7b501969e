package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	errInvalidPort    = errors.New("config: invalid server.port")
	errInvalidBackend = errors.New("config: encoder.backend must be skip2 or boombuler")
	errInvalidSession = errors.New("config: session.idle_ttl and session.sweep_interval must be positive")
	errInvalidLimit   = errors.New("config: rate_limit.generate_per_minute must be positive")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Encoder   EncoderConfig   `mapstructure:"encoder"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Download  DownloadConfig  `mapstructure:"download"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type EncoderConfig struct {
	Backend  string        `mapstructure:"backend"`   // skip2, boombuler
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 disables the cache
	Timeout  time.Duration `mapstructure:"timeout"`   // 0 waits forever
}

type RateLimitConfig struct {
	GeneratePerMinute int `mapstructure:"generate_per_minute"`
}

type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("session.cookie_name", "qrlink_session")
	v.SetDefault("session.idle_ttl", 30*time.Minute)
	v.SetDefault("session.sweep_interval", 5*time.Minute)

	v.SetDefault("encoder.backend", "skip2")
	v.SetDefault("encoder.cache_ttl", 10*time.Minute)
	v.SetDefault("encoder.timeout", time.Duration(0))

	v.SetDefault("rate_limit.generate_per_minute", 60)

	v.SetDefault("download.dir", ".")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
}

// Load reads the optional YAML file at path, overlays QRLINK_* environment
// variables and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("qrlink")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, c.Server.Port)
	}

	switch c.Encoder.Backend {
	case "skip2", "boombuler":
	default:
		return fmt.Errorf("%w: got %q", errInvalidBackend, c.Encoder.Backend)
	}

	if c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		return errInvalidSession
	}

	if c.RateLimit.GeneratePerMinute < 1 {
		return fmt.Errorf("%w: got %d", errInvalidLimit, c.RateLimit.GeneratePerMinute)
	}

	return nil
}

// Addr is the listen address for the page host.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
