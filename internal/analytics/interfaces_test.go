package analytics

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeHTTPClient struct {
	calls int
}

func (f *fakeHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	f.calls++
	return &http.Response{StatusCode: http.StatusOK}, nil
}

func TestEmitEventRespectsEnableDisable(t *testing.T) {
	client := &fakeHTTPClient{}
	svc := NewService(client, "https://example.invalid/events")

	svc.EmitEvent(TrackEvent{Name: "x"})
	assert.Equal(t, 1, client.calls)

	svc.Disable()
	svc.EmitEvent(TrackEvent{Name: "x"})
	assert.Equal(t, 1, client.calls)

	svc.Enable()
	svc.EmitEvent(TrackEvent{Name: "x"})
	assert.Equal(t, 2, client.calls)
}

func TestEmitEventNoopWithNilClient(t *testing.T) {
	svc := NewService(nil, "https://example.invalid/events")
	assert.NotPanics(t, func() {
		svc.EmitEvent(TrackEvent{Name: "x"})
	})
}

func TestNewCompileEvent(t *testing.T) {
	svc := NewService(nil, "")
	event := svc.NewCompileEvent("baseAgreements", true)

	assert.Equal(t, "cypherCompiled", event.Name)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "baseAgreements", event.Properties["rootField"])
	assert.Equal(t, true, event.Properties["tenantScoped"])
}

func TestNewStartupEvent(t *testing.T) {
	svc := NewService(nil, "")
	event := svc.NewStartupEvent(StartupEventInfo{Version: "0.1.0", TransportMode: "stdio"})

	assert.Equal(t, "startup", event.Name)
	assert.Equal(t, "0.1.0", event.Properties["version"])
	assert.Equal(t, "stdio", event.Properties["transportMode"])
}
