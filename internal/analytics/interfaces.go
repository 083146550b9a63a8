// Package analytics emits lightweight usage telemetry for the compiler's
// MCP tools. It is an external collaborator the core compiler never calls
// directly — only the MCP tool handlers depend on it.
package analytics

//go:generate mockgen -destination=mocks/mock_analytics.go -package=analytics_mocks -typed github.com/mkd-neo4j/graph-cypher-compiler/internal/analytics Service,HTTPClient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// Service emits TrackEvents for the compiler's tool calls. Disable/Enable
// let a caller honor an operator's telemetry opt-out without threading a
// conditional through every call site.
type Service interface {
	Disable()
	Enable()
	EmitEvent(event TrackEvent)
	NewStartupEvent(info StartupEventInfo) TrackEvent
	NewCompileEvent(rootField string, tenantScoped bool) TrackEvent
}

// HTTPClient is the minimal surface EmitEvent's transport needs, narrowed
// so tests can substitute a mock without pulling in a real HTTP client.
type HTTPClient interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
}

// TrackEvent is one emitted analytics record.
type TrackEvent struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// StartupEventInfo carries process-startup context for the one-time
// startup event.
type StartupEventInfo struct {
	Version       string
	TransportMode string
}

type service struct {
	client   HTTPClient
	endpoint string
	enabled  bool
}

// NewService builds a Service that POSTs events to endpoint via client.
// Telemetry starts enabled.
func NewService(client HTTPClient, endpoint string) Service {
	return &service{client: client, endpoint: endpoint, enabled: true}
}

func (s *service) Disable() { s.enabled = false }
func (s *service) Enable()  { s.enabled = true }

func (s *service) EmitEvent(event TrackEvent) {
	if !s.enabled || s.client == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
}

func (s *service) NewStartupEvent(info StartupEventInfo) TrackEvent {
	return TrackEvent{
		ID:   uuid.NewString(),
		Name: "startup",
		Properties: map[string]any{
			"version":       info.Version,
			"transportMode": info.TransportMode,
		},
	}
}

func (s *service) NewCompileEvent(rootField string, tenantScoped bool) TrackEvent {
	return TrackEvent{
		ID:   uuid.NewString(),
		Name: "cypherCompiled",
		Properties: map[string]any{
			"rootField":    rootField,
			"tenantScoped": tenantScoped,
		},
	}
}
