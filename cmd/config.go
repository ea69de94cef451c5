package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port string
	Env  string

	// UnitPriceCents is the per-participant price in centavos.
	UnitPriceCents int64

	MercadoPagoAccessToken string
	PublicBaseURL          string
	WebhookSecret          string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddress  string
	// TrackingAddress gets a tagged copy of every confirmation email.
	TrackingAddress string

	DynamoTableName string
}

func LoadConfig() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg := &Config{
		Host:                   getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                   getEnvOrDefault("PORT", "8080"),
		Env:                    getEnvOrDefault("ENV", "local"),
		MercadoPagoAccessToken: os.Getenv("MP_ACCESS_TOKEN"),
		PublicBaseURL:          strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		SMTPHost:               getEnvOrDefault("SMTP_HOST", "smtpout.secureserver.net"),
		SMTPUser:               os.Getenv("SMTP_USER"),
		SMTPPassword:           os.Getenv("SMTP_PASSWORD"),
		FromAddress:            getEnvOrDefault("EMAIL_FROM", "Igreja SV <contato@igrejasv.com>"),
		TrackingAddress:        os.Getenv("TRACKING_EMAIL"),
		DynamoTableName:        getEnvOrDefault("DYNAMO_TABLE", "IsvRun"),
	}

	price, err := strconv.ParseInt(getEnvOrDefault("PRICE", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: PRICE must be a whole number of reais: %w", err)
	}
	cfg.UnitPriceCents = price * 100

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("config: SMTP_PORT must be a number: %w", err)
	}
	cfg.SMTPPort = smtpPort

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.UnitPriceCents <= 0 {
		return fmt.Errorf("config: PRICE must be positive")
	}

	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		return fmt.Errorf("config: PUBLIC_BASE_URL is not a valid URL: %w", err)
	}

	if c.Env != "local" {
		if strings.TrimSpace(c.MercadoPagoAccessToken) == "" {
			return fmt.Errorf("config: MP_ACCESS_TOKEN is required outside of local")
		}
		if strings.TrimSpace(c.SMTPUser) == "" || strings.TrimSpace(c.SMTPPassword) == "" {
			return fmt.Errorf("config: SMTP_USER and SMTP_PASSWORD are required outside of local")
		}
	}

	return nil
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}
