package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/admin-console/internal/repository/postgres"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Bell      BellConfig      `mapstructure:"bell"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Release         bool          `mapstructure:"release"`
}

// APIConfig points at the admin REST API the console drives.
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type SessionConfig struct {
	// Backend is memory, redis or file.
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type CookieConfig struct {
	HashKey    string `mapstructure:"hash_key"`
	BlockKey   string `mapstructure:"block_key"`
	Domain     string `mapstructure:"domain"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Secure     bool   `mapstructure:"secure"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// DatabaseConfig is the optional audit store. An empty host disables it.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) Postgres() postgres.Config {
	return postgres.Config{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Name:     d.Name,
		SSLMode:  d.SSLMode,
	}
}

type AuditConfig struct {
	RetentionDays   int           `mapstructure:"retention_days"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type BellConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TLS            bool     `mapstructure:"tls"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// envOverrides are the CONSOLE_* variables applied over the file. Pointers
// distinguish unset from zero.
type envOverrides struct {
	Port           *int      `envconfig:"PORT"`
	Release        *bool     `envconfig:"RELEASE"`
	APIBaseURL     *string   `envconfig:"API_BASE_URL"`
	SessionBackend *string   `envconfig:"SESSION_BACKEND"`
	SessionDir     *string   `envconfig:"SESSION_DIR"`
	CookieHashKey  *string   `envconfig:"COOKIE_HASH_KEY"`
	CookieBlockKey *string   `envconfig:"COOKIE_BLOCK_KEY"`
	CookieSecure   *bool     `envconfig:"COOKIE_SECURE"`
	RedisURL       *string   `envconfig:"REDIS_URL"`
	DBHost         *string   `envconfig:"DB_HOST"`
	DBPort         *int      `envconfig:"DB_PORT"`
	DBUser         *string   `envconfig:"DB_USER"`
	DBPassword     *string   `envconfig:"DB_PASSWORD"`
	DBName         *string   `envconfig:"DB_NAME"`
	DBSSLMode      *string   `envconfig:"DB_SSLMODE"`
	LogLevel       *string   `envconfig:"LOG_LEVEL"`
	LogConsole     *bool     `envconfig:"LOG_CONSOLE"`
	AllowedOrigins *[]string `envconfig:"ALLOWED_ORIGINS"`
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONSOLE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.breaker_failures", 5)
	v.SetDefault("api.breaker_timeout", 30*time.Second)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.dir", "./data/sessions")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.idle_ttl", 30*time.Minute)
	v.SetDefault("session.prefix", "console")
	v.SetDefault("cookie.max_age_days", 7)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("audit.retention_days", 90)
	v.SetDefault("audit.cleanup_interval", 24*time.Hour)
	v.SetDefault("bell.interval", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("security.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "admin_console")
}

// LoadConfig reads .env (when present), then config.yml, then CONSOLE_*
// overrides. A missing config file is not an error.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return load(v)
}

// LoadFile reads one explicit config file and the environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	env.apply(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (e envOverrides) apply(c *Config) {
	setInt(&c.Server.Port, e.Port)
	setBool(&c.Server.Release, e.Release)
	setString(&c.API.BaseURL, e.APIBaseURL)
	setString(&c.Session.Backend, e.SessionBackend)
	setString(&c.Session.Dir, e.SessionDir)
	setString(&c.Cookie.HashKey, e.CookieHashKey)
	setString(&c.Cookie.BlockKey, e.CookieBlockKey)
	setBool(&c.Cookie.Secure, e.CookieSecure)
	setString(&c.Redis.URL, e.RedisURL)
	setString(&c.Database.Host, e.DBHost)
	setInt(&c.Database.Port, e.DBPort)
	setString(&c.Database.User, e.DBUser)
	setString(&c.Database.Password, e.DBPassword)
	setString(&c.Database.Name, e.DBName)
	setString(&c.Database.SSLMode, e.DBSSLMode)
	setString(&c.Log.Level, e.LogLevel)
	setBool(&c.Log.Console, e.LogConsole)
	if e.AllowedOrigins != nil {
		c.Security.AllowedOrigins = *e.AllowedOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Validate rejects configurations the console cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Session.Backend {
	case "memory", "file":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("session backend redis needs redis.url")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
