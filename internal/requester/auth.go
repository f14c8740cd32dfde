package requester

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/logger"
	"go.uber.org/zap"
)

// ErrMissingCredential indicates the selected auth type lacks a required field.
// It is surfaced at construction time, before the server starts serving.
var ErrMissingCredential = errors.New("missing credential")

// Authenticator applies the per-endpoint request augmentation
type Authenticator interface {
	Apply(req *http.Request) error
}

// EndpointAuthenticator holds the request augmentation derived once from the
// endpoint configuration: static headers, a query-string injection, or basic
// credentials. Exactly one auth variant contributes; custom headers are merged
// on top and are never overwritten by the variant. Immutable after
// construction and safe for concurrent use.
type EndpointAuthenticator struct {
	headers map[string]string

	// query injection for the api-key-in-query case; merged into the final
	// query string at apply time because per-call parameters are not known
	// until then
	queryParam string
	queryValue string

	basic *config.BasicAuth
}

// NewEndpointAuthenticator validates the auth configuration eagerly and
// computes the augmentation to apply to every outgoing request.
func NewEndpointAuthenticator(serviceConfig *config.EndpointConfig) (*EndpointAuthenticator, error) {
	a := &EndpointAuthenticator{
		headers: make(map[string]string),
	}

	switch serviceConfig.AuthType {
	case config.AuthTypeNone, "":
		// no augmentation
	case config.AuthTypeAPIKey:
		if serviceConfig.APIKey.Key == "" {
			return nil, fmt.Errorf("%w: api key is required for api_key authentication", ErrMissingCredential)
		}
		switch serviceConfig.APIKey.Location {
		case config.APIKeyInHeader:
			header := serviceConfig.APIKey.Header
			if header == "" {
				header = "X-API-Key"
			}
			a.headers[header] = serviceConfig.APIKey.Key
		case config.APIKeyInQuery:
			if serviceConfig.APIKey.ParamName == "" {
				return nil, fmt.Errorf("%w: param name is required for api_key authentication in query", ErrMissingCredential)
			}
			a.queryParam = serviceConfig.APIKey.ParamName
			a.queryValue = serviceConfig.APIKey.Key
		default:
			return nil, fmt.Errorf("api key location must be either %q or %q, got %q",
				config.APIKeyInHeader, config.APIKeyInQuery, serviceConfig.APIKey.Location)
		}
	case config.AuthTypeBearer:
		if serviceConfig.Bearer.Token == "" {
			return nil, fmt.Errorf("%w: token is required for bearer authentication", ErrMissingCredential)
		}
		a.headers["Authorization"] = "Bearer " + serviceConfig.Bearer.Token
	case config.AuthTypeBasic:
		if serviceConfig.Basic.Username == "" || serviceConfig.Basic.Password == "" {
			return nil, fmt.Errorf("%w: username and password are required for basic authentication", ErrMissingCredential)
		}
		basic := serviceConfig.Basic
		a.basic = &basic
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", serviceConfig.AuthType)
	}

	// Custom headers are merged after the auth contribution and win on clash
	custom, warnings := ParseHeaderLines(serviceConfig.Headers)
	for _, warning := range warnings {
		logger.Warn("Skipping malformed custom header", zap.String("header", warning))
	}
	for name, value := range custom {
		a.headers[name] = value
	}

	return a, nil
}

// ParseHeaderLines parses raw "Name: Value" strings into a header map. A line
// without a colon is returned as a warning and skipped, not treated as fatal.
func ParseHeaderLines(lines []string) (map[string]string, []string) {
	headers := make(map[string]string, len(lines))
	var warnings []string
	for _, line := range lines {
		name, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(name) == "" {
			warnings = append(warnings, line)
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, warnings
}

// Apply mutates the outgoing request with the configured augmentation.
func (a *EndpointAuthenticator) Apply(req *http.Request) error {
	if a.basic != nil {
		req.SetBasicAuth(a.basic.Username, a.basic.Password)
	}

	if a.queryParam != "" {
		// Overwrite any pre-existing value so exactly one parameter is sent
		q := req.URL.Query()
		q.Set(a.queryParam, a.queryValue)
		req.URL.RawQuery = q.Encode()
	}

	for name, value := range a.headers {
		req.Header.Set(name, value)
	}

	return nil
}
