// Package graphdb defines the driver/session surface the compiler's MCP
// tools execute compiled Cypher against. It wraps neo4j-go-driver/v5
// rather than redefining it, so callers can hand in a real driver or a
// generated mock interchangeably.
package graphdb

//go:generate mockgen -destination=graphdbmocks/mock_graphdb.go -package=graphdbmocks -typed github.com/mkd-neo4j/graph-cypher-compiler/internal/graphdb Service

import (
	"context"
	"encoding/json"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Service is the narrow surface the MCP tool handlers depend on: run a
// compiled Cypher string with parameters and get back JSON-ready records.
// Mirrors the shape of the database service the fraud-tooling handlers in
// this codebase's ancestry consumed (ExecuteReadQuery/ExecuteWriteQuery),
// narrowed to the read-only operations this compiler's Non-goals allow.
type Service interface {
	ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	Close(ctx context.Context) error
}

type driverService struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewService wraps a neo4j-go-driver/v5 driver as a Service scoped to one
// database.
func NewService(driver neo4j.DriverWithContext, database string) Service {
	return &driverService{driver: driver, database: database}
}

func (s *driverService) ExecuteReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *driverService) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// RecordsToJSON flattens query records into a JSON array of plain objects,
// one per record, keyed by return alias.
func RecordsToJSON(records []*neo4j.Record) (string, error) {
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(rec.Keys))
		for i, key := range rec.Keys {
			row[key] = unwrapValue(rec.Values[i])
		}
		rows = append(rows, row)
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// unwrapValue converts neo4j-go-driver value types into plain Go values
// suitable for JSON marshaling.
func unwrapValue(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		props := make(map[string]any, len(val.Props)+1)
		for k, p := range val.Props {
			props[k] = p
		}
		props["_labels"] = val.Labels
		return props
	case neo4j.Relationship:
		props := make(map[string]any, len(val.Props)+1)
		for k, p := range val.Props {
			props[k] = p
		}
		props["_type"] = val.Type
		return props
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = unwrapValue(item)
		}
		return out
	default:
		return val
	}
}
