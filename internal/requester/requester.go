package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apifold/openapi-bridge/internal/config"

	"github.com/apifold/openapi-bridge/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// requestTimeout is the fixed per-call ceiling enforced by the HTTP client,
// independent of other concurrent calls.
const requestTimeout = 30 * time.Second

// HTTPRequester handles both request building and execution
type HTTPRequester struct {
	client     *http.Client
	serviceCfg *config.EndpointConfig
	auth       Authenticator
}

type HTTPRequesterParams struct {
	fx.In

	ServiceConfig *config.EndpointConfig
	Authenticator Authenticator
}

// NewHTTPRequester creates a new HTTPRequester with default configuration
func NewHTTPRequester(params HTTPRequesterParams) *HTTPRequester {
	return &HTTPRequester{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		serviceCfg: params.ServiceConfig,
		auth:       params.Authenticator,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// BuildRouteExecutor creates a function that can execute requests for a
// specific route. Executors share no mutable state, so concurrent tool
// invocations are independent; cancelling one call's context does not affect
// others.
func (r *HTTPRequester) BuildRouteExecutor(config *RouteConfig) (RouteExecutor, error) {
	if config == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	builder := &HTTPRequestBuilder{
		serviceCfg:  r.serviceCfg,
		auth:        r.auth,
		routeConfig: config,
	}

	return func(ctx context.Context, params map[string]interface{}) (*Response, error) {
		req, err := builder.BuildRequest(ctx, params)
		if err != nil {
			return nil, err
		}
		logger.Debug("Executing tool request",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
		)

		resp, err := r.execute(req)
		if err != nil {
			logger.Error("Failed to execute request", zap.Error(err))
			return nil, err
		}

		return resp, nil
	}, nil
}

// execute performs the actual HTTP request execution
func (r *HTTPRequester) execute(req *Request) (*Response, error) {
	resp, err := r.client.Do(req.HttpRequest)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}
