package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("openapi-bridge version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server         ServerConfig   `mapstructure:"server"`
	Logging        LoggingConfig  `mapstructure:"logging"`
	EndpointConfig EndpointConfig `mapstructure:"endpoint"`
	Filter         FilterConfig   `mapstructure:"filter"`
	SpecSource     string         `mapstructure:"spec_source"`
}

// AuthType selects which authentication variant is active for the endpoint
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
)

// APIKeyLocation controls where an API key is injected on outgoing requests
type APIKeyLocation string

const (
	APIKeyInHeader APIKeyLocation = "header"
	APIKeyInQuery  APIKeyLocation = "query"
)

// APIKeyAuth configures the api_key variant. When Location is "query" the key
// is injected into the outgoing query string instead of a header.
type APIKeyAuth struct {
	Key       string         `json:"key" mapstructure:"key"`
	Header    string         `json:"header" mapstructure:"header"`
	Location  APIKeyLocation `json:"location" mapstructure:"location"`
	ParamName string         `json:"param_name" mapstructure:"param_name"`
}

type BearerAuth struct {
	Token string `json:"token" mapstructure:"token"`
}

type BasicAuth struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// EndpointConfig describes the upstream API every generated tool calls.
// Exactly one auth variant is active, selected by AuthType; Headers are raw
// "Name: Value" strings applied to every request in addition to the variant's
// contribution.
type EndpointConfig struct {
	BaseURL  string     `json:"base_url" mapstructure:"base_url"`
	AuthType AuthType   `json:"auth_type" mapstructure:"auth_type"`
	APIKey   APIKeyAuth `json:"api_key" mapstructure:"api_key"`
	Bearer   BearerAuth `json:"bearer" mapstructure:"bearer"`
	Basic    BasicAuth  `json:"basic" mapstructure:"basic"`
	Headers  []string   `json:"headers" mapstructure:"headers"`
}

// FilterConfig holds the raw operation filter options. Each field is a
// comma-separated list; an empty string leaves that dimension unconstrained.
// When all five fields are empty no route map is built and every operation
// becomes a tool.
type FilterConfig struct {
	Methods      string `json:"methods" mapstructure:"methods"`
	IncludePaths string `json:"include_paths" mapstructure:"include_paths"`
	ExcludePaths string `json:"exclude_paths" mapstructure:"exclude_paths"`
	IncludeTags  string `json:"include_tags" mapstructure:"include_tags"`
	ExcludeTags  string `json:"exclude_tags" mapstructure:"exclude_tags"`
}

// Empty reports whether no filtering was requested at all.
func (f FilterConfig) Empty() bool {
	return f.Methods == "" && f.IncludePaths == "" && f.ExcludePaths == "" &&
		f.IncludeTags == "" && f.ExcludeTags == ""
}

type ServerMode string

const (
	ServerModeSSE   ServerMode = "sse"
	ServerModeSTDIO ServerMode = "stdio"
	ServerModeHTTP  ServerMode = "http"
)

type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	Host    string     `mapstructure:"host"`
	Mode    ServerMode `mapstructure:"mode"`
	Name    string     `mapstructure:"name"`
	Version string     `mapstructure:"version"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("mode", string(ServerModeSTDIO), "Server mode (stdio|sse|http)")
	pflag.String("spec-source", "", "Path or URL of the OpenAPI document")
	pflag.String("base-url", "", "Override base URL for API requests")
	pflag.String("auth-type", "", "Authentication type (none|api_key|bearer|basic)")
	pflag.String("methods", "", "Comma-separated HTTP methods to include")
	pflag.String("include-paths", "", "Comma-separated path patterns to include")
	pflag.String("exclude-paths", "", "Comma-separated path patterns to exclude")
	pflag.String("include-tags", "", "Comma-separated tags to include")
	pflag.String("exclude-tags", "", "Comma-separated tags to exclude")
	// Note: no pflag.Parse() here as it's called in main.go
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("OPENAPI_BRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	// Load ./config.yaml first
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AddConfigPath("/etc/openapi-bridge")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional when everything comes from flags/env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Set server mode from flag
	if mode := viper.GetString("mode"); mode != "" {
		switch ServerMode(mode) {
		case ServerModeSSE, ServerModeSTDIO, ServerModeHTTP:
			config.Server.Mode = ServerMode(mode)
		}
	}

	// Flags and environment override the file for the operation-level options
	if src := viper.GetString("spec-source"); src != "" {
		config.SpecSource = src
	}
	if baseURL := viper.GetString("base-url"); baseURL != "" {
		config.EndpointConfig.BaseURL = baseURL
	}
	if authType := viper.GetString("auth-type"); authType != "" {
		config.EndpointConfig.AuthType = AuthType(authType)
	}
	overrideFilter(&config.Filter)

	if config.SpecSource == "" {
		return nil, fmt.Errorf("spec source is required, please adjust the config or pass --spec-source or OPENAPI_BRIDGE_SPEC_SOURCE environment variable")
	}

	applyDefaults(&config)

	return &config, nil
}

func overrideFilter(f *FilterConfig) {
	if v := viper.GetString("methods"); v != "" {
		f.Methods = v
	}
	if v := viper.GetString("include-paths"); v != "" {
		f.IncludePaths = v
	}
	if v := viper.GetString("exclude-paths"); v != "" {
		f.ExcludePaths = v
	}
	if v := viper.GetString("include-tags"); v != "" {
		f.IncludeTags = v
	}
	if v := viper.GetString("exclude-tags"); v != "" {
		f.ExcludeTags = v
	}
}

func applyDefaults(config *Config) {
	if config.Server.Name == "" {
		config.Server.Name = "OpenAPI Bridge"
	}
	if config.Server.Version == "" {
		config.Server.Version = version
	}
	if config.EndpointConfig.AuthType == "" {
		config.EndpointConfig.AuthType = AuthTypeNone
	}
	if config.EndpointConfig.APIKey.Header == "" {
		config.EndpointConfig.APIKey.Header = "X-API-Key"
	}
	if config.EndpointConfig.APIKey.Location == "" {
		config.EndpointConfig.APIKey.Location = APIKeyInHeader
	}
	if config.EndpointConfig.APIKey.ParamName == "" {
		config.EndpointConfig.APIKey.ParamName = "key"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	// STDIO reserves stdout for the protocol; keep logs off the console there
	if config.Server.Mode == ServerModeSTDIO && config.Logging.OutputPath == "" {
		config.Logging.DisableConsole = true
	}
}
