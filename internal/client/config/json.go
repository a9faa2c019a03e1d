package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/studymate-app/studymate/internal/flagx"
	"github.com/studymate-app/studymate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "12s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	PrefsDSN           string         `json:"prefs_dsn"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	DevMode            bool           `json:"dev_mode"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c/-config flags via flagx.JsonConfigFlags();
// if no path is given, nothing is loaded. Read or unmarshal errors panic
// (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.PrefsDSN = jc.PrefsDSN
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.DevMode = jc.DevMode
}
