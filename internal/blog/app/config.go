package app

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment surface of the service.
type Config struct {
	JWTSecret    string        `env:"BLOG_JWT_SECRET"`
	JWTAlgorithm string        `env:"BLOG_JWT_ALGORITHM" envDefault:"HS256"`
	AccessTTL    time.Duration `env:"BLOG_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL   time.Duration `env:"BLOG_REFRESH_TOKEN_TTL" envDefault:"168h"`
	CookieSecure bool          `env:"BLOG_COOKIE_SECURE" envDefault:"false"`

	FrontendOrigins []string `env:"BLOG_FRONTEND_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	DatabaseURL string `env:"BLOG_DATABASE_URL"`

	S3Endpoint      string `env:"BLOG_S3_ENDPOINT" envDefault:"http://localhost:9000"`
	S3AccessKey     string `env:"BLOG_S3_ACCESS_KEY" envDefault:"minioadmin"`
	S3SecretKey     string `env:"BLOG_S3_SECRET_KEY" envDefault:"minioadmin"`
	S3Bucket        string `env:"BLOG_S3_BUCKET" envDefault:"blog-media"`
	S3Region        string `env:"BLOG_S3_REGION" envDefault:"auto"`
	S3PublicBaseURL string `env:"BLOG_S3_PUBLIC_BASE_URL"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment and validates the
// fields the service cannot run without.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields. The signing secret has no usable default;
// a generated fallback would invalidate every session on restart.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("BLOG_JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("BLOG_DATABASE_URL is required")
	}
	return nil
}
