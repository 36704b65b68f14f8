package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relline/pkg/buildinfo"
	"github.com/matzehuels/relline/pkg/cache"
	"github.com/matzehuels/relline/pkg/observability"
	"github.com/matzehuels/relline/pkg/pipeline"
)

const sceneJSON = `{
  "width": 400,
  "height": 300,
  "bound": "frame",
  "elements": [
    {"id": "frame", "x": 0, "y": 0, "width": 400, "height": 300, "fixed": true},
    {"id": "a", "x": 20, "y": 40, "width": 80, "height": 40},
    {"id": "b", "x": 200, "y": 60, "width": 80, "height": 60},
    {"id": "c", "x": 300, "y": 280, "width": 80, "height": 60}
  ],
  "relations": [
    {"start": "a", "end": "b", "color": "#ff0000"},
    {"start": "a", "end": "c"},
    {"start": "a", "end": "missing"}
  ]
}`

const sceneTOML = `
width = 400
height = 300
bound = "frame"

[[elements]]
id = "frame"
width = 400
height = 300
fixed = true

[[elements]]
id = "a"
x = 20
y = 40
width = 80
height = 40

[[elements]]
id = "b"
x = 200
y = 60
width = 80
height = 60

[[relations]]
start = "a"
end = "b"
`

func newTestServer(opts ...Option) *Server {
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(16), logger)
	return New(runner, logger, opts...)
}

func post(t *testing.T, h http.Handler, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResp {
	t.Helper()
	var resp errorResp
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	h := newTestServer().Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp healthResp
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Service != serviceName {
		t.Errorf("health = %+v, want ok from %s", resp, serviceName)
	}
	if resp.Build != buildinfo.Get() {
		t.Errorf("build = %+v, want %+v", resp.Build, buildinfo.Get())
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantType    string
		wantPrefix  string
		wantDrawn   string
		wantSkipped string
	}{
		{"svg default", "/render", "application/json", sceneJSON, "image/svg+xml", "<svg", "1", "2"},
		{"png", "/render?format=png&scale=1", "application/json", sceneJSON, "image/png", "\x89PNG", "1", "2"},
		{"json", "/render?format=json", "application/json", sceneJSON, "application/json", "{", "1", "2"},
		{"dot skips the pass", "/render?format=dot", "application/json", sceneJSON, "text/vnd.graphviz; charset=utf-8", "digraph", "0", "0"},
		{"toml scene", "/render?format=json", "application/toml", sceneTOML, "application/json", "{", "1", "0"},
		{"scrolled out of scope", "/render?scroll=0,500", "application/json", sceneJSON, "image/svg+xml", "<svg", "0", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer().Handler(), tt.target, tt.contentType, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.wantPrefix)) {
				t.Errorf("body starts %q, want prefix %q", firstBytes(rec.Body.Bytes()), tt.wantPrefix)
			}
			if got := rec.Header().Get(HeaderDrawn); got != tt.wantDrawn {
				t.Errorf("%s = %s, want %s", HeaderDrawn, got, tt.wantDrawn)
			}
			if got := rec.Header().Get(HeaderSkipped); got != tt.wantSkipped {
				t.Errorf("%s = %s, want %s", HeaderSkipped, got, tt.wantSkipped)
			}
		})
	}
}

func firstBytes(b []byte) string {
	if len(b) > 16 {
		b = b[:16]
	}
	return string(b)
}

func TestRenderCache(t *testing.T) {
	h := newTestServer().Handler()

	first := post(t, h, "/render?format=json", "application/json", sceneJSON)
	if got := first.Header().Get(HeaderCache); got != "MISS" {
		t.Errorf("first %s = %s, want MISS", HeaderCache, got)
	}
	second := post(t, h, "/render?format=json", "application/json", sceneJSON)
	if got := second.Header().Get(HeaderCache); got != "HIT" {
		t.Errorf("second %s = %s, want HIT", HeaderCache, got)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached artifact differs from the rendered one")
	}

	other := post(t, h, "/render?format=json&scroll=0,10", "application/json", sceneJSON)
	if got := other.Header().Get(HeaderCache); got != "MISS" {
		t.Errorf("scrolled %s = %s, want MISS", HeaderCache, got)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown format", "/render?format=pdf", sceneJSON, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad boolean", "/render?elements=maybe", sceneJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad scale", "/render?scale=-1", sceneJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad scroll", "/render?scroll=12", sceneJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed json", "/render", `{"width":`, http.StatusBadRequest, "INVALID_SCENE"},
		{"unknown field", "/render", `{"width":1,"height":1,"bound":"x","colour":"red"}`, http.StatusBadRequest, "INVALID_SCENE"},
		{"missing bound", "/render", strings.Replace(sceneJSON, `"bound": "frame"`, `"bound": "nope"`, 1), http.StatusUnprocessableEntity, "BOUND_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer().Handler(), tt.target, "application/json", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := decodeError(t, rec); got.Error != tt.wantCode || got.Message == "" {
				t.Errorf("error = %+v, want code %s with a message", got, tt.wantCode)
			}
		})
	}
}

func TestRenderBodyTooLarge(t *testing.T) {
	h := newTestServer(WithMaxBodyBytes(64)).Handler()
	rec := post(t, h, "/render", "application/json", sceneJSON)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if got := decodeError(t, rec); got.Error != "BODY_TOO_LARGE" {
		t.Errorf("error code = %s, want BODY_TOO_LARGE", got.Error)
	}
}

func TestRenderDefaults(t *testing.T) {
	h := newTestServer(WithDefaults(pipeline.Options{DefaultColor: "#123456"})).Handler()
	rec := post(t, h, "/render?format=json", "application/toml", sceneTOML)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var export struct {
		Connectors []struct {
			Fill string `json:"fill"`
		} `json:"connectors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&export); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(export.Connectors) != 1 || export.Connectors[0].Fill != "#123456" {
		t.Errorf("connectors = %+v, want one connector in the default color", export.Connectors)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); len(got) != 36 {
		t.Errorf("generated %s = %q, want a UUID", HeaderRequestID, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "client-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "client-42" {
		t.Errorf("%s = %q, want the client's id", HeaderRequestID, got)
	}
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer().Handler()
	post(t, h, "/render?format=pdf", "application/json", sceneJSON)

	if len(hooks.requests) != 1 || hooks.requests[0] != "POST /render" {
		t.Errorf("requests = %v, want [POST /render]", hooks.requests)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != http.StatusBadRequest {
		t.Errorf("responses = %v, want [400]", hooks.responses)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
