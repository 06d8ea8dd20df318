package main

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed down; nothing else touches os.Getenv.
type Config struct {
	Port           string   `env:"PORT" envDefault:"3000"`
	MongoURI       string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DBName         string   `env:"DB_NAME" envDefault:"mytodo"`
	TokenSecret    string   `env:"ACCESS_TOKEN_SECRET"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	CookieDomain   string   `env:"COOKIE_DOMAIN"`
	CookieSecure   bool     `env:"COOKIE_SECURE" envDefault:"true"`
}

// LoadConfig reads .env if present and parses the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // ignore error if no .env

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.TokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is not set")
	}
	return cfg, nil
}
