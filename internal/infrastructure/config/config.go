package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
	Login    LoginRateConfig
}

// UpstreamConfig locates the thesis API the portal fronts.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:3000"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

// SessionConfig selects and tunes the session backend.
// Backend is "cookie" (slots live in the browser) or "redis".
type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND, default=cookie"`
	TTL          time.Duration `env:"SESSION_TTL,     default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE,   default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoginRateConfig bounds login attempts per client IP (requests per
// minute plus burst headroom).
type LoginRateConfig struct {
	PerMinute float64 `env:"LOGIN_RATE,  default=10"`
	Burst     int     `env:"LOGIN_BURST, default=5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
