package config

import (
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	// InMemoryDatabaseURL is used when DATABASE_URL is not set.
	InMemoryDatabaseURL = "sqlite::memory:"
)

type Config struct {
	AppPort         string        `env:"APP_PORT" env-default:"3030"`
	AppMode         string        `env:"APP_MODE" env-default:"debug"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the client address is always the
	// TCP peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`

	Database DatabaseConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL       time.Duration `env:"CACHE_TTL" env-default:"10m"`
	VoteRateLimit  int           `env:"VOTE_RATE_LIMIT" env-default:"0"`
	VoteRateWindow time.Duration `env:"VOTE_RATE_WINDOW" env-default:"1m"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = InMemoryDatabaseURL
	}
	cfg.TrustedProxies = compact(cfg.TrustedProxies)
	return &cfg, nil
}

// compact trims entries and drops empty ones, so TRUSTED_PROXIES="" or a
// trailing comma trusts nothing extra.
func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Dialect picks the gorm dialect from the database URL.
func (d DatabaseConfig) Dialect() string {
	url := strings.ToLower(d.URL)
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// IsInMemory reports whether the store disappears with the process.
func (d DatabaseConfig) IsInMemory() bool {
	if d.Dialect() != DialectSQLite {
		return false
	}
	return strings.Contains(d.URL, ":memory:") || strings.Contains(d.URL, "mode=memory")
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) IsProduction() bool {
	return c.AppMode == "release"
}
