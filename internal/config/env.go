package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrSecretKeyMissing = errors.New("SECRET_KEY not set")
	ErrTMDBAuthMissing  = errors.New("TMDB_API_BEARER or TMDB_API_KEY not set")
)

type Config struct {
	Port     int            `yaml:"port"`
	Secret   string         `yaml:"secret_key"`
	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Google   GoogleConfig   `yaml:"google"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type TMDBConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Bearer   string        `yaml:"api_bearer"`
	APIKey   string        `yaml:"api_key"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether Google login has credentials to work with.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	CookieName   string        `yaml:"cookie_name"`
	CookieSecure *bool         `yaml:"cookie_secure"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Defaults() Config {
	return Config{
		Port: 5000,
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		TMDB: TMDBConfig{
			BaseURL:  "https://api.themoviedb.org/3",
			Language: "pt-BR",
			Timeout:  10 * time.Second,
		},
		Google: GoogleConfig{
			RedirectURL: "http://127.0.0.1:5000/login/google/callback",
		},
		Session: SessionConfig{
			TTL:        7 * 24 * time.Hour,
			CookieName: "filmes_session",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found")
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE and finally the process environment.
func Load() (*Config, error) {
	LoadEnv()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = inferDriver(cfg.Database.URL)
	}
	if cfg.Database.URL == "" && cfg.Database.Driver == "sqlite3" {
		cfg.Database.URL = "./filmes.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretKeyMissing
	}
	if c.TMDB.Bearer == "" && c.TMDB.APIKey == "" {
		return ErrTMDBAuthMissing
	}
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL not set")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func inferDriver(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

func applyEnv(cfg *Config) error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("PORT", &cfg.Port))
	envString("SECRET_KEY", &cfg.Secret)

	envString("DB_DRIVER", &cfg.Database.Driver)
	envString("DATABASE_URL", &cfg.Database.URL)
	collect(envInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns))
	collect(envInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns))
	collect(envDuration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime))

	envString("TMDB_BASE_URL", &cfg.TMDB.BaseURL)
	envString("TMDB_API_BEARER", &cfg.TMDB.Bearer)
	envString("TMDB_API_KEY", &cfg.TMDB.APIKey)
	envString("TMDB_LANGUAGE", &cfg.TMDB.Language)
	collect(envDuration("TMDB_TIMEOUT", &cfg.TMDB.Timeout))

	envString("GOOGLE_CLIENT_ID", &cfg.Google.ClientID)
	envString("GOOGLE_CLIENT_SECRET", &cfg.Google.ClientSecret)
	envString("GOOGLE_REDIRECT_URL", &cfg.Google.RedirectURL)

	collect(envDuration("SESSION_TTL", &cfg.Session.TTL))
	envString("SESSION_COOKIE_NAME", &cfg.Session.CookieName)
	if v, ok := lookup("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			collect(fmt.Errorf("COOKIE_SECURE: %w", err))
		} else {
			cfg.Session.CookieSecure = &b
		}
	}

	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)
	envString("LOG_FILE", &cfg.Log.File)
	collect(envInt("LOG_MAX_SIZE_MB", &cfg.Log.MaxSize))
	collect(envInt("LOG_MAX_BACKUPS", &cfg.Log.MaxBackups))
	collect(envInt("LOG_MAX_AGE_DAYS", &cfg.Log.MaxAge))
	collect(envBool("LOG_COMPRESS", &cfg.Log.Compress))

	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func envString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
