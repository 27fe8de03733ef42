package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (NORTHWIND_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (NORTHWIND_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Auth        AuthConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// AuthConfig holds the single API credential pair accepted by the login
// endpoint. Login is disabled entirely when either field is empty.
type AuthConfig struct {
	Username string `usage:"API login username (NORTHWIND_AUTH_USERNAME)" flag:"auth-username"`
	Password string `usage:"API login password (NORTHWIND_AUTH_PASSWORD)" flag:"auth-password"`
}

// JWTConfig controls token issuance and verification.
type JWTConfig struct {
	Key      string        `usage:"HMAC signing key for access tokens (NORTHWIND_JWT_KEY)" flag:"jwt-key"`
	Issuer   string        `default:"" usage:"Issuer claim stamped on issued tokens" flag:"jwt-issuer"`
	Audience string        `default:"" usage:"Audience claim stamped on issued tokens" flag:"jwt-audience"`
	TTL      time.Duration `default:"1h" usage:"Access token lifetime" flag:"jwt-ttl"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform-provided defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "NORTHWIND",
		Files:     []string{"config.yaml", "/etc/northwind/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set NORTHWIND_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWT.Key == "" {
		return nil, errors.New("JWT signing key is required: set NORTHWIND_JWT_KEY")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's NORTHWIND_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
