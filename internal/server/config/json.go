package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/studymate-app/studymate/internal/flagx"
	"github.com/studymate-app/studymate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// rely on timex.Duration so JSON can specify them either as strings like
// "15m" or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	GoogleClientID               string         `json:"google_client_id"`
	GoogleClientSecret           string         `json:"google_client_secret"`
	GoogleRedirectBaseURL        string         `json:"google_redirect_base_url"`
	GenerateEndpoint             string         `json:"generate_endpoint"`
	GenerateAPIKey               string         `json:"generate_api_key"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c/-config flags. Empty JSON fields leave the current value in place.
// Read or unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlayString(&cfg.EndpointAddr, jc.EndpointAddr)
	overlayString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlayString(&cfg.SecretKey, jc.SecretKey)
	overlayString(&cfg.S3RootUser, jc.S3RootUser)
	overlayString(&cfg.S3RootPassword, jc.S3RootPassword)
	overlayString(&cfg.S3Bucket, jc.S3Bucket)
	overlayString(&cfg.S3Region, jc.S3Region)
	overlayString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlayString(&cfg.GoogleClientID, jc.GoogleClientID)
	overlayString(&cfg.GoogleClientSecret, jc.GoogleClientSecret)
	overlayString(&cfg.GoogleRedirectBaseURL, jc.GoogleRedirectBaseURL)
	overlayString(&cfg.GenerateEndpoint, jc.GenerateEndpoint)
	overlayString(&cfg.GenerateAPIKey, jc.GenerateAPIKey)

	if jc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	}
	if jc.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = time.Duration(jc.RefreshTokenValidityDuration.Duration)
	}
}

func overlayString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
