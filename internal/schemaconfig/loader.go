package schemaconfig

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// EmbeddedFS holds a compiled-in schema YAML file, set by a binary's
// embed directive. Load prefers it over the OS filesystem, falling back
// to fallbackPath when it's unset or empty — the same
// embedded-first, OS-fallback order this codebase's dynamic tool loader
// uses.
var EmbeddedFS embed.FS

const embeddedSchemaPath = "schema.yaml"

// LoadFile reads and parses a single schema YAML file from the OS
// filesystem into a *schema.Schema and its *schema.DirectiveIndex.
func LoadFile(path string) (*schema.Schema, *schema.DirectiveIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("schemaconfig: read %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses raw schema YAML into a *schema.Schema and its
// *schema.DirectiveIndex.
func LoadBytes(data []byte) (*schema.Schema, *schema.DirectiveIndex, error) {
	var cfg SchemaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("schemaconfig: parse YAML: %w", err)
	}
	sch, err := BuildSchema(&cfg)
	if err != nil {
		return nil, nil, err
	}
	return sch, schema.BuildDirectiveIndex(sch), nil
}

// Load resolves the schema from the embedded filesystem first, falling
// back to a file at fallbackPath on the OS filesystem.
func Load(fallbackPath string) (*schema.Schema, *schema.DirectiveIndex, error) {
	if data, err := fs.ReadFile(EmbeddedFS, embeddedSchemaPath); err == nil {
		slog.Info("loaded schema from embedded filesystem", "path", embeddedSchemaPath)
		return LoadBytes(data)
	}
	slog.Info("loading schema from filesystem", "path", fallbackPath)
	return LoadFile(fallbackPath)
}
