package config

import (
	"fmt"
	"log"
	"strings"

	"go-portfolio-backend/pkg/email"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	GinMode        string   `env:"GIN_MODE" envDefault:"debug"`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Outbound mail transport
	Email email.Config
	// Operator mailbox; both sender and recipient of relayed messages.
	// Falls back to EMAIL_USER.
	ContactEmailTo string `env:"CONTACT_EMAIL_TO"`
	// Sets the visitor address as Reply-To. Off keeps the relay-to-self message untouched.
	ContactReplyToVisitor bool `env:"CONTACT_REPLY_TO_VISITOR" envDefault:"false"`

	// Redis backs the rate limiter; empty means in-memory counters
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Rate limiting (requests per minute per IP)
	RateLimitContactPerMinute int `env:"RATE_LIMIT_CONTACT_PER_MINUTE" envDefault:"5"`
	RateLimitGlobalPerMinute  int `env:"RATE_LIMIT_GLOBAL_PER_MINUTE" envDefault:"100"`
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production injects the environment directly
	_ = godotenv.Load()

	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.ContactEmailTo == "" {
		cfg.ContactEmailTo = cfg.Email.Username
	}

	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO and EMAIL_USER are empty. Contact form will be unavailable.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Origins lists the browser origins allowed to call the API.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
