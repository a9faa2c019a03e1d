package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first if present; it never overrides
// variables already set in the real environment.
//
// Secrets (database DSN, JWT secret, S3 and OAuth credentials) are expected
// to arrive this way in deployments, keeping them out of JSON files and
// process listings.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	overlay(&cfg.EndpointAddr, "ADDRESS")
	overlay(&cfg.DatabaseDSN, "DATABASE_DSN")
	overlay(&cfg.SecretKey, "SECRET_KEY")
	overlay(&cfg.S3RootUser, "S3_ROOT_USER")
	overlay(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	overlay(&cfg.S3Bucket, "S3_BUCKET")
	overlay(&cfg.S3Region, "S3_REGION")
	overlay(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	overlay(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	overlay(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	overlay(&cfg.GoogleRedirectBaseURL, "GOOGLE_REDIRECT_BASE_URL")
	overlay(&cfg.GenerateEndpoint, "GENERATE_ENDPOINT")
	overlay(&cfg.GenerateAPIKey, "GENERATE_API_KEY")
}

func overlay(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
