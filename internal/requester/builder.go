package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/apifold/openapi-bridge/internal/config"

	"go.uber.org/fx"
)

// HTTPRequestBuilderParams holds the parameters for creating an HTTPRequestBuilder
type HTTPRequestBuilderParams struct {
	fx.In
	EndpointConfig *config.EndpointConfig
	Authenticator  Authenticator
	RouteConfig    *RouteConfig
}

// HTTPRequestBuilder materializes tool arguments into HTTP requests for one route
type HTTPRequestBuilder struct {
	serviceCfg  *config.EndpointConfig
	auth        Authenticator
	routeConfig *RouteConfig
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(params HTTPRequestBuilderParams) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		serviceCfg:  params.EndpointConfig,
		auth:        params.Authenticator,
		routeConfig: params.RouteConfig,
	}
}

// BuildRequest builds a request for the route from the tool call parameters
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, params map[string]interface{}) (*Request, error) {
	if b.routeConfig == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	// Build URL with path parameters substituted
	targetURL := b.buildURL(b.routeConfig.Path, params)

	// Attach the operation's declared query parameters
	targetURL = b.addQueryParams(targetURL, params)

	// Create request body
	body, contentType, err := b.createRequestBody(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range b.routeConfig.Headers {
		headers[k] = v
	}
	// Declared header parameters come from the tool call itself
	for _, name := range b.routeConfig.MethodConfig.HeaderParams {
		if value, ok := params[name]; ok {
			headers[name] = fmt.Sprintf("%v", value)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, b.routeConfig.Method, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Apply the endpoint augmentation last so auth headers and the query
	// injection see the final request shape
	if err := b.auth.Apply(httpReq); err != nil {
		return nil, fmt.Errorf("failed to apply authentication: %w", err)
	}

	return &Request{
		URL:         httpReq.URL.String(),
		Method:      b.routeConfig.Method,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
		HttpRequest: httpReq,
	}, nil
}

func (b *HTTPRequestBuilder) buildURL(path string, params map[string]interface{}) string {
	target := b.serviceCfg.BaseURL + path

	// Replace path parameters
	for key, value := range params {
		placeholder := fmt.Sprintf("{%s}", key)
		target = strings.ReplaceAll(target, placeholder, url.PathEscape(fmt.Sprintf("%v", value)))
	}

	return target
}

func (b *HTTPRequestBuilder) addQueryParams(baseURL string, params map[string]interface{}) string {
	if len(b.routeConfig.MethodConfig.QueryParams) == 0 {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	q := u.Query()
	for _, name := range b.routeConfig.MethodConfig.QueryParams {
		if value, ok := params[name]; ok {
			q.Set(name, fmt.Sprintf("%v", value))
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func (b *HTTPRequestBuilder) createRequestBody(params map[string]interface{}) (io.Reader, string, error) {
	switch b.routeConfig.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodDelete:
		return nil, "", nil
	default:
		if body, ok := params["body"]; ok {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
			}
			return bytes.NewBuffer(jsonData), "application/json", nil
		}
		return nil, "", nil
	}
}
