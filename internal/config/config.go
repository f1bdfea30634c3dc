package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	envPrefix          = "CYCLEKIT"
	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	TZ       string         `mapstructure:"tz"`
	Language string         `mapstructure:"language"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Store    StoreConfig    `mapstructure:"store"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
}

type DispatchConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
	Batch   int    `mapstructure:"batch"`
}

// StoreConfig.Atomic runs each cycle operation inside one transaction.
type StoreConfig struct {
	Atomic bool `mapstructure:"atomic"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.path", filepath.Join("data", "cyclekit.db"))
	v.SetDefault("http.port", 8080)
	v.SetDefault("tz", "UTC")
	v.SetDefault("language", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.secret", "")
	v.SetDefault("dispatch.enabled", true)
	v.SetDefault("dispatch.spec", "*/5 * * * *")
	v.SetDefault("dispatch.batch", 100)
	v.SetDefault("store.atomic", true)
	return v
}

// Load reads CYCLEKIT_* variables, after merging envFile (when it exists)
// into the process environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := newViper().Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) normalize() {
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.TZ = strings.TrimSpace(cfg.TZ)
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Auth.Secret = strings.TrimSpace(cfg.Auth.Secret)
	cfg.Dispatch.Spec = strings.TrimSpace(cfg.Dispatch.Spec)
}

func (cfg *Config) Validate() error {
	if cfg.DB.Path == "" {
		return errors.New("db.path must not be empty")
	}
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if _, err := time.LoadLocation(cfg.TZ); err != nil {
		return fmt.Errorf("invalid tz %q: %w", cfg.TZ, err)
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	if err := validateSecretKey(cfg.Auth.Secret); err != nil {
		return err
	}
	if cfg.Dispatch.Batch < 1 {
		return fmt.Errorf("dispatch.batch must be positive, got %d", cfg.Dispatch.Batch)
	}
	if _, err := cron.ParseStandard(cfg.Dispatch.Spec); err != nil {
		return fmt.Errorf("invalid dispatch.spec %q: %w", cfg.Dispatch.Spec, err)
	}
	return nil
}

// Location resolves TZ. Validate guarantees it loads.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg *Config) AuthEnabled() bool {
	return cfg.Auth.Secret != ""
}

func (cfg *Config) Address() string {
	return fmt.Sprintf(":%d", cfg.HTTP.Port)
}

// An empty secret disables auth; anything else must look like a real key.
func validateSecretKey(secret string) error {
	if secret == "" {
		return nil
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return errors.New("auth.secret uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("auth.secret must be at least %d characters", minSecretKeyLength)
	}
	return nil
}
