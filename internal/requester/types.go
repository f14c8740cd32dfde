package requester

// RouteConfig is the materialized call template for one tool: everything
// needed to turn tool arguments into an HTTP request against the endpoint.
type RouteConfig struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Headers     map[string]string `json:"headers"`
	// Method specific configurations
	MethodConfig MethodConfig `json:"method_config"`
}

// MethodConfig holds method-specific configurations
type MethodConfig struct {
	// Declared query parameter names for this operation
	QueryParams []string `json:"query_params,omitempty"`

	// Declared header parameter names for this operation
	HeaderParams []string `json:"header_params,omitempty"`

	// Whether the operation declares a request body
	HasBody bool `json:"has_body,omitempty"`
}
