// Package appconfig loads the compiler service's process configuration
// from environment variables, in the shape this codebase's neo4j-mcp
// sibling loads its own: a typed Config struct, a Validate method, and
// small Get*/Parse* helpers rather than a third-party env-binding library.
package appconfig

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
)

// TransportMode selects how the MCP server exposes its tools.
type TransportMode string

const (
	TransportModeStdio TransportMode = "stdio"
	TransportModeHTTP  TransportMode = "http"
)

// ValidTransportModes lists the accepted TransportMode values.
var ValidTransportModes = []TransportMode{TransportModeStdio, TransportModeHTTP}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds the compiler service's process configuration.
type Config struct {
	SchemaPath    string        // path to the schema YAML file (OS-filesystem fallback)
	Neo4jURI      string        // required by the run subcommand; when set, serve's tools also execute statements
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string
	Telemetry     bool // if false, disables analytics event emission
	LogLevel      string
	TransportMode TransportMode
	HTTPPort      string
	HTTPHost      string
	TenantScoped  bool // if true, compile-to-cypher-tenant is the only tool registered
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}
	if c.SchemaPath == "" {
		return fmt.Errorf("schema path is required but was empty")
	}
	if c.TransportMode == "" {
		c.TransportMode = TransportModeStdio
	}
	if !slices.Contains(ValidTransportModes, c.TransportMode) {
		return fmt.Errorf("invalid transport mode %q, must be one of %v", c.TransportMode, ValidTransportModes)
	}
	if c.TransportMode == TransportModeHTTP && c.HTTPPort == "" {
		return fmt.Errorf("HTTP port is required for http transport mode")
	}
	return nil
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	logLevel := getEnvWithDefault("CYPHER_COMPILER_LOG_LEVEL", "info")
	if !slices.Contains(validLogLevels, logLevel) {
		fmt.Fprintf(os.Stderr, "Warning: invalid CYPHER_COMPILER_LOG_LEVEL %q, using default 'info'. Valid values: %v\n", logLevel, validLogLevels)
		logLevel = "info"
	}

	cfg := &Config{
		SchemaPath:    getEnvWithDefault("CYPHER_COMPILER_SCHEMA_PATH", "schema.yaml"),
		Neo4jURI:      os.Getenv("NEO4J_URI"),
		Neo4jUsername: os.Getenv("NEO4J_USERNAME"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase: getEnvWithDefault("NEO4J_DATABASE", "neo4j"),
		Telemetry:     ParseBool(os.Getenv("CYPHER_COMPILER_TELEMETRY"), true),
		LogLevel:      logLevel,
		TransportMode: TransportMode(getEnvWithDefault("CYPHER_COMPILER_TRANSPORT_MODE", string(TransportModeStdio))),
		HTTPPort:      getEnvWithDefault("CYPHER_COMPILER_HTTP_PORT", "8080"),
		HTTPHost:      getEnvWithDefault("CYPHER_COMPILER_HTTP_HOST", "127.0.0.1"),
		TenantScoped:  ParseBool(os.Getenv("CYPHER_COMPILER_TENANT_SCOPED"), false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// ParseBool parses value as a bool, falling back to defaultValue when value
// is empty or unparseable (logging a warning in the latter case).
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean config value, using default", "value", value, "default", defaultValue)
		return defaultValue
	}
	return parsed
}
