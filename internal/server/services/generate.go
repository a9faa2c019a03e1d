package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studymate-app/studymate/internal/common"
	sc "github.com/studymate-app/studymate/internal/server/config"
)

const generateFunctionName = "generate-study-content"

// generateHTTPClient is a seam for tests. Generation calls can take a while,
// so the timeout is generous compared to the ordinary request timeout.
var generateHTTPClient = &http.Client{Timeout: 60 * time.Second}

// FunctionService dispatches named server-side functions. The only function
// today is study-content generation, which proxies the upstream AI endpoint.
type FunctionService struct {
	config *sc.Config
}

func NewFunctionService(config *sc.Config) *FunctionService {
	return &FunctionService{config: config}
}

// Invoke runs the named function with a raw JSON payload and returns the raw
// JSON result. Unknown function names yield common.ErrorNotFound.
func (s *FunctionService) Invoke(ctx context.Context, name string, payload json.RawMessage) (json.RawMessage, error) {
	if name != generateFunctionName {
		return nil, fmt.Errorf("%w: unknown function %q", common.ErrorNotFound, name)
	}
	return s.generate(ctx, payload)
}

func (s *FunctionService) generate(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.GenerateEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.GenerateAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.GenerateAPIKey)
	}

	resp, err := generateHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("generate endpoint returned %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("generate endpoint returned invalid JSON")
	}
	return body, nil
}
