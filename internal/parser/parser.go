// Package parser implements OpenAPI specification parsing and converts the
// document's operations into MCP tools, applying the configured operation
// filters along the way.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/logger"
	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// NewSpecParser creates a new SpecParser instance
func NewSpecParser(cfg *config.Config) *SpecParser {
	return &SpecParser{
		filter:   cfg.Filter,
		bindings: make([]*ToolBinding, 0),
	}
}

// GetToolBindings returns the bindings for operations classified as tools
func (p *SpecParser) GetToolBindings() []*ToolBinding {
	return p.bindings
}

// GetDecisions returns every operation's classification decision
func (p *SpecParser) GetDecisions() []routemap.Decision {
	return p.decisions
}

// DefaultBaseURL returns the first server URL declared in the document, used
// when the endpoint configuration does not override the base URL.
func (p *SpecParser) DefaultBaseURL() string {
	if p.doc == nil || len(p.doc.Servers) == 0 {
		return ""
	}
	return p.doc.Servers[0].URL
}

// Init loads and parses an OpenAPI document from a file path or URL
func (p *SpecParser) Init(specSource string) error {
	data, err := LoadSpecSource(specSource)
	if err != nil {
		return err
	}

	if err := p.detectAndParseOpenAPI(data); err != nil {
		return err
	}

	return p.processOperations()
}

// ParseReader parses an OpenAPI document from a reader
func (p *SpecParser) ParseReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}

	if err := p.detectAndParseOpenAPI(data); err != nil {
		return err
	}

	return p.processOperations()
}

// detectAndParseOpenAPI attempts to parse data as either OpenAPI 2.0 or 3.x,
// accepting JSON or YAML documents.
func (p *SpecParser) detectAndParseOpenAPI(data []byte) error {
	// Decode generically first to find the version field; JSON is tried
	// before YAML since most documents in the wild are JSON
	var jsonObj map[string]interface{}
	if err := json.Unmarshal(data, &jsonObj); err != nil {
		if yamlErr := yaml.Unmarshal(data, &jsonObj); yamlErr != nil {
			return fmt.Errorf("spec is neither valid JSON nor valid YAML: %w", yamlErr)
		}
	}

	swaggerVersion, hasSwagger := jsonObj["swagger"]
	openapiVersion, hasOpenAPI := jsonObj["openapi"]

	if !hasSwagger && !hasOpenAPI {
		return fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	if hasSwagger {
		convertedDoc, err := p.convertOpenAPI2to3(jsonObj, swaggerVersion)
		if err != nil {
			return err
		}
		p.doc = convertedDoc
		return nil
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	// The loader accepts both JSON and YAML for 3.x documents
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3.x spec", zap.Error(err))
		return fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}

	if doc == nil {
		return fmt.Errorf("failed to parse OpenAPI spec: document is empty")
	}

	p.doc = doc
	return nil
}

// convertOpenAPI2to3 converts an OpenAPI 2.0 specification to OpenAPI 3.0.
// The generic document is re-marshaled through JSON so YAML sources take the
// same conversion path.
func (p *SpecParser) convertOpenAPI2to3(jsonObj map[string]interface{}, swaggerVersion interface{}) (*openapi3.T, error) {
	data, err := json.Marshal(jsonObj)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize OpenAPI 2.0 spec: %w", err)
	}

	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %s", swaggerVersion)
	}

	logger.Info("Detected OpenAPI 2.0 spec, converting to OpenAPI 3.0")
	convertedDoc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		logger.Error("Failed to convert OpenAPI 2.0 to 3.0", zap.Error(err))
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}

	return convertedDoc, nil
}

// extractOperations lifts every operation out of the document in a
// deterministic order (paths sorted, methods in their fixed order).
func (p *SpecParser) extractOperations() []OperationDescriptor {
	pathMap := p.doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var descriptors []OperationDescriptor
	for _, path := range paths {
		pathItem := pathMap[path]
		for _, entry := range []struct {
			Method    string
			Operation *openapi3.Operation
		}{
			{"GET", pathItem.Get},
			{"POST", pathItem.Post},
			{"PUT", pathItem.Put},
			{"PATCH", pathItem.Patch},
			{"DELETE", pathItem.Delete},
			{"HEAD", pathItem.Head},
			{"OPTIONS", pathItem.Options},
		} {
			if entry.Operation == nil {
				continue
			}
			descriptors = append(descriptors, OperationDescriptor{
				Method:    entry.Method,
				Path:      path,
				Tags:      entry.Operation.Tags,
				Summary:   entry.Operation.Summary,
				Operation: entry.Operation,
			})
		}
	}
	return descriptors
}

// processOperations classifies the operation set against the filter options
// and generates a tool binding for every included operation.
func (p *SpecParser) processOperations() error {
	descriptors := p.extractOperations()

	var rules []routemap.RoutingRule
	if !p.filter.Empty() {
		built, err := routemap.Build(p.filter)
		if err != nil {
			return fmt.Errorf("failed to build route map: %w", err)
		}
		rules = built
	}

	ops := make([]routemap.Operation, len(descriptors))
	for i, d := range descriptors {
		ops[i] = routemap.Operation{Method: d.Method, Path: d.Path, Tags: d.Tags}
	}

	decisions, err := routemap.Classify(ops, rules)
	if err != nil {
		return err
	}
	p.decisions = decisions

	for i, decision := range decisions {
		if decision.Outcome != routemap.OutcomeTool {
			logger.Debug("Operation excluded",
				zap.String("operation", decision.Operation.String()),
				zap.Int("rule", decision.RuleIndex),
			)
			continue
		}
		routeConfig := p.createRouteConfig(descriptors[i])
		p.bindings = append(p.bindings, &ToolBinding{
			Name:        decision.ToolName,
			RouteConfig: routeConfig,
			Tool:        p.generateTool(decision.ToolName, descriptors[i], routeConfig),
		})
	}

	logger.Info("Classified operations",
		zap.Int("total", len(descriptors)),
		zap.Int("tools", len(p.bindings)),
		zap.Int("excluded", len(descriptors)-len(p.bindings)),
	)
	return nil
}

// createRouteConfig builds the call template for one operation
func (p *SpecParser) createRouteConfig(descriptor OperationDescriptor) *requester.RouteConfig {
	operation := descriptor.Operation
	routeConfig := &requester.RouteConfig{
		Path:   descriptor.Path,
		Method: descriptor.Method,
		Tags:   descriptor.Tags,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}

	var desc string
	if operation.Description != "" {
		desc = operation.Description
	} else if operation.Summary != "" {
		// Fallback to summary if description is not available
		desc = operation.Summary
	}
	routeConfig.Description = desc

	// Accept the first response's content type when one is declared
	if operation.Responses != nil {
		for _, response := range operation.Responses.Map() {
			if response.Value != nil && response.Value.Content != nil {
				for contentType := range response.Value.Content {
					routeConfig.Headers["Accept"] = contentType
					break
				}
				break
			}
		}
	}

	routeConfig.MethodConfig = requester.MethodConfig{
		QueryParams: make([]string, 0),
	}
	for _, param := range operation.Parameters {
		if param.Value == nil {
			continue
		}
		switch param.Value.In {
		case "query":
			routeConfig.MethodConfig.QueryParams = append(routeConfig.MethodConfig.QueryParams, param.Value.Name)
		case "header":
			routeConfig.MethodConfig.HeaderParams = append(routeConfig.MethodConfig.HeaderParams, param.Value.Name)
		}
	}
	routeConfig.MethodConfig.HasBody = operation.RequestBody != nil

	return routeConfig
}
