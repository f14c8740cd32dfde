package parser

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/apifold/openapi-bridge/internal/logger"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// LoadSpecSource reads the raw OpenAPI document from a local path or an
// http(s) URL.
func LoadSpecSource(source string) ([]byte, error) {
	if parsed, err := url.Parse(source); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return fetchSpec(source)
	}

	logger.Info("Loading OpenAPI spec from file", zap.String("path", source))
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return data, nil
}

func fetchSpec(source string) ([]byte, error) {
	logger.Info("Fetching OpenAPI spec", zap.String("url", source))

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spec: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec response: %w", err)
	}
	return data, nil
}
