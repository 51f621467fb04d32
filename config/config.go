package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	PublicBaseURL string
	Stripe        StripeConfig
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
}

// Load reads the configuration from the environment. A .env file is
// loaded when present so local development works without exporting
// everything by hand.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DB_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Timeout:       10 * time.Second,
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}
	if raw := os.Getenv("STRIPE_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STRIPE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Stripe.Timeout = time.Duration(seconds) * time.Second
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	if cfg.Stripe.WebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is not set")
	}

	return cfg, nil
}
