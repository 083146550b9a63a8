package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/analytics"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/appconfig"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/compiler"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/graphdb"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/mcpserver"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schemaconfig"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/tenant"
)

const version = "0.1.0"

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	configureLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cyphercompile <compile|run|serve> [flags]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(cfg, os.Args[2:])
	case "run":
		runCompileAndExecute(cfg, os.Args[2:])
	case "serve":
		runServe(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(1)
	}
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func runCompile(cfg *appconfig.Config, args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	documentPath := fs.String("document", "", "path to a JSON-encoded query document")
	rootField := fs.String("root-field", "", "name of the root field to compile")
	tenantScoped := fs.Bool("tenant", cfg.TenantScoped, "inject tenant scoping predicates")
	_ = fs.Parse(args)

	if *documentPath == "" || *rootField == "" {
		fmt.Fprintln(os.Stderr, "compile requires -document and -root-field")
		os.Exit(1)
	}

	sch, directives, err := schemaconfig.Load(cfg.SchemaPath)
	if err != nil {
		slog.Error("failed to load schema", "error", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*documentPath)
	if err != nil {
		slog.Error("failed to read document", "path", *documentPath, "error", err)
		os.Exit(1)
	}
	doc, err := queryast.DecodeDocument(raw)
	if err != nil {
		slog.Error("failed to decode document", "error", err)
		os.Exit(1)
	}

	var c *compiler.Compiler
	if *tenantScoped {
		c = tenant.NewCompiler(sch, directives, doc, nil)
	} else {
		c = compiler.New(sch, directives, doc, nil)
	}

	cypher, err := c.Compile(*rootField)
	if err != nil {
		slog.Error("compilation failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(cypher)
}

func runServe(cfg *appconfig.Config) {
	sch, directives, err := schemaconfig.Load(cfg.SchemaPath)
	if err != nil {
		slog.Error("failed to load schema", "error", err)
		os.Exit(1)
	}

	anService := analytics.NewService(http.DefaultClient, "")
	if !cfg.Telemetry {
		anService.Disable()
	}
	anService.EmitEvent(anService.NewStartupEvent(analytics.StartupEventInfo{
		Version:       version,
		TransportMode: string(cfg.TransportMode),
	}))

	deps := &mcpserver.Dependencies{
		Schema:           sch,
		Directives:       directives,
		AnalyticsService: anService,
	}

	if cfg.Neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
		if err != nil {
			slog.Error("failed to construct Neo4j driver", "error", err)
			os.Exit(1)
		}
		deps.GraphDB = graphdb.NewService(driver, cfg.Neo4jDatabase)
	}

	mcpServer := mcpserver.NewServer(version, cfg, deps)
	if err := mcpserver.Serve(mcpServer, cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// runCompileAndExecute compiles a document's root field and runs the
// resulting Cypher against a live Neo4j instance, printing the records as
// JSON. Unlike runServe's MCP tools, this subcommand always requires
// NEO4J_URI and always executes; it never returns compile-only output.
func runCompileAndExecute(cfg *appconfig.Config, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	documentPath := fs.String("document", "", "path to a JSON-encoded query document")
	rootField := fs.String("root-field", "", "name of the root field to compile")
	tenantScoped := fs.Bool("tenant", cfg.TenantScoped, "inject tenant scoping predicates")
	tenantID := fs.String("tenant-id", "", "tenant ID bound to $cypherParams.tenantId")
	_ = fs.Parse(args)

	if *documentPath == "" || *rootField == "" || cfg.Neo4jURI == "" {
		fmt.Fprintln(os.Stderr, "run requires -document, -root-field, and NEO4J_URI to be configured")
		os.Exit(1)
	}

	sch, directives, err := schemaconfig.Load(cfg.SchemaPath)
	if err != nil {
		slog.Error("failed to load schema", "error", err)
		os.Exit(1)
	}
	raw, err := os.ReadFile(*documentPath)
	if err != nil {
		slog.Error("failed to read document", "path", *documentPath, "error", err)
		os.Exit(1)
	}
	doc, err := queryast.DecodeDocument(raw)
	if err != nil {
		slog.Error("failed to decode document", "error", err)
		os.Exit(1)
	}

	var c *compiler.Compiler
	if *tenantScoped {
		c = tenant.NewCompiler(sch, directives, doc, nil)
	} else {
		c = compiler.New(sch, directives, doc, nil)
	}
	cypher, err := c.Compile(*rootField)
	if err != nil {
		slog.Error("compilation failed", "error", err)
		os.Exit(1)
	}

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		slog.Error("failed to construct Neo4j driver", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer driver.Close(ctx)

	dbService := graphdb.NewService(driver, cfg.Neo4jDatabase)
	defer dbService.Close(ctx)

	records, err := dbService.ExecuteReadQuery(ctx, cypher, map[string]any{
		"cypherParams": map[string]any{"tenantId": *tenantID},
	})
	if err != nil {
		slog.Error("query execution failed", "error", err)
		os.Exit(1)
	}
	out, err := graphdb.RecordsToJSON(records)
	if err != nil {
		slog.Error("failed to marshal records", "error", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
