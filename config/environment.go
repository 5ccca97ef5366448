package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environment is the process configuration, read from the environment
// (and a local .env file outside production).
type Environment struct {
	AppEnv  string `env:"APP_ENV" env-default:"development"`
	Port    string `env:"PORT" env-default:"8080"`
	LogMode string `env:"LOG_MODE" env-default:"dev"`

	// APIBaseURL is the study backend every screen talks to.
	APIBaseURL string `env:"STUDYDESK_API_URL" env-default:"http://localhost:8000"`

	AuthURL       string `env:"AUTH_URL" env-required:"true"`
	AuthAnonKey   string `env:"AUTH_ANON_KEY"`
	AuthJWTSecret string `env:"AUTH_JWT_SECRET" env-required:"true"`
	AuthJWTIssuer string `env:"AUTH_JWT_ISSUER"`
	AuthAudience  string `env:"AUTH_JWT_AUDIENCE" env-default:"authenticated"`

	DBDriver     string `env:"DB_DRIVER" env-default:"postgres"`
	DBURL        string `env:"DB_URL"`
	SubjectStore string `env:"SUBJECT_STORE" env-default:"db"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

func (e Environment) IsDevelopment() bool {
	return !strings.EqualFold(e.AppEnv, "production")
}

// Issuer returns the expected token issuer, defaulting to the GoTrue
// convention of <auth url>/auth/v1.
func (e Environment) Issuer() string {
	if e.AuthJWTIssuer != "" {
		return e.AuthJWTIssuer
	}
	return strings.TrimRight(e.AuthURL, "/") + "/auth/v1"
}

// Load reads the environment. Outside production a .env file is loaded
// first when present.
func Load() (*Environment, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: .env file could not be loaded: %v", err)
		}
	}

	var env Environment
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &env, nil
}

func (e Environment) Validate() error {
	switch e.DBDriver {
	case "postgres":
		if e.DBURL == "" {
			return fmt.Errorf("DB_URL is required for the postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", e.DBDriver)
	}
	switch e.SubjectStore {
	case "db", "api":
	default:
		return fmt.Errorf("unknown SUBJECT_STORE %q", e.SubjectStore)
	}
	if len(e.AuthJWTSecret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 16 characters")
	}
	return nil
}
