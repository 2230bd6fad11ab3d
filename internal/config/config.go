package config

import (
	"os"
	"strings"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string

	// OTP delivery webhook (Apps Script style: POST {email, otp, secret}).
	OTPWebhookURL string
	OTPSecret     string

	// Institutional email domains allowed to register.
	AllowedEmailDomains []string
}

func Load() *Config {
	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "bbdolx"),
		DBPassword:          getEnv("DB_PASSWORD", "bbdolx_dev_password"),
		DBName:              getEnv("DB_NAME", "bbdolx"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		OTPWebhookURL:       getEnv("OTP_WEBHOOK_URL", ""),
		OTPSecret:           getEnv("OTP_WEBHOOK_SECRET", ""),
		AllowedEmailDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "bbdnitm.ac.in,bbdniit.ac.in,bbdu.org")),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
