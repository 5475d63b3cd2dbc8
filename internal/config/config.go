package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds login settings. An empty JWTSecret means the persisted
// signing key from the secrets store is used.
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SeedUser     string        `mapstructure:"seed_user"`
	SeedPassword string        `mapstructure:"seed_password"`
}

// LogConfig holds zap settings. File is where the shell writes logs since it
// owns the terminal; an empty File discards them.
type LogConfig struct {
	Level       string
	File        string
	Development bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Heading string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "manttest")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(dataDir(), "manttest.db"))
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.timeout", "5s")
	v.SetDefault("auth.seed_user", "admin")
	v.SetDefault("auth.seed_password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir(), "manttest.log"))
	v.SetDefault("log.development", false)
	v.SetDefault("ui.heading", "MantTest")
}

// Load reads configuration from file and env. Env var overrides use prefix MANTTEST_.
// An explicit path wins over MANTTEST_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := path
	if cfgPath == "" {
		cfgPath = os.Getenv("MANTTEST_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "manttest"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MANTTEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case cfgPath != "" && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path resolves the file Load reads when given path.
func Path(path string) string {
	if path == "" {
		path = os.Getenv("MANTTEST_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "manttest", "config.toml")
	}
	return path
}

// Save writes the provided config to disk, creating the config directory if needed.
// The seed password is written as configured; prefer env vars for anything sensitive.
func Save(path string, cfg Config) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("auth.jwt_secret", cfg.Auth.JWTSecret)
	v.Set("auth.token_ttl", cfg.Auth.TokenTTL.String())
	v.Set("auth.timeout", cfg.Auth.Timeout.String())
	v.Set("auth.seed_user", cfg.Auth.SeedUser)
	v.Set("auth.seed_password", cfg.Auth.SeedPassword)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.development", cfg.Log.Development)
	v.Set("ui.heading", cfg.UI.Heading)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
