package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the StudyMate CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP endpoint.
//   - PrefsDSN: sqlite DSN for the local preference store.
//   - RequestTimeout: per-request HTTP timeout.
//   - DevMode: log diagnostic detail during auth and profile resolution.
//
// Units: RequestTimeout is a time.Duration (e.g., 12*time.Second).
type Config struct {
	ServerEndpointAddr string
	PrefsDSN           string
	RequestTimeout     time.Duration
	DevMode            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.PrefsDSN = defaultPrefsDSN()
	c.RequestTimeout = 12 * time.Second
	c.DevMode = false
}

func defaultPrefsDSN() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "studymate_prefs.db"
	}
	return filepath.Join(dir, "studymate", "prefs.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
