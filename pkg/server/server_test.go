package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/kgraph/pkg/cache"
	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/graphgen"
	"github.com/matzehuels/kgraph/pkg/pipeline"
	"github.com/matzehuels/kgraph/pkg/store"
)

type fakeGenerator struct {
	g     graph.Graph
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ []graphgen.Document) (graph.Graph, error) {
	f.calls++
	return f.g, f.err
}

func newTestServer(t *testing.T, gen Generator) (*Server, store.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	st := store.NewMemoryStore()
	reg := prometheus.NewRegistry()
	s := New(Config{
		Store:      st,
		Runner:     pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), logger),
		Generator:  gen,
		Gatherer:   reg,
		Registerer: reg,
		Logger:     logger,
		Version:    "v0.0.0-test",
	})
	return s, st
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decodeBody[errorBody](t, rec)
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
	if body.Message == "" {
		t.Error("error message is empty")
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" || body["version"] != "v0.0.0-test" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodOptions, "/api/layout", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestSampleGraph(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/graph", nil)
	g := decodeBody[graph.Graph](t, rec)
	if len(g.Nodes) != 6 || len(g.Edges) != 5 {
		t.Errorf("sample has %d nodes and %d edges, want 6 and 5", len(g.Nodes), len(g.Edges))
	}
}

func TestGraphLifecycle(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/graphs", graph.Sample())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", rec.Code, rec.Body.String())
	}
	id := decodeBody[map[string]string](t, rec)["id"]
	if id == "" {
		t.Fatal("create returned no id")
	}

	rec = do(t, s, http.MethodGet, "/api/graphs", nil)
	list := decodeBody[[]store.Summary](t, rec)
	if len(list) != 1 || list[0].ID != id || list[0].Nodes != 6 {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, s, http.MethodGet, "/api/graphs/"+id, nil)
	got := decodeBody[store.Record](t, rec)
	if len(got.Graph.Nodes) != 6 {
		t.Errorf("get returned %d nodes", len(got.Graph.Nodes))
	}

	rec = do(t, s, http.MethodDelete, "/api/graphs/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	wantError(t, do(t, s, http.MethodGet, "/api/graphs/"+id, nil), http.StatusNotFound, errors.ErrCodeGraphNotFound)
	wantError(t, do(t, s, http.MethodDelete, "/api/graphs/"+id, nil), http.StatusNotFound, errors.ErrCodeGraphNotFound)
}

func TestCreateGraphWithName(t *testing.T) {
	s, _ := newTestServer(t, nil)
	body := `{"name":"privacy","nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"}]}`
	rec := do(t, s, http.MethodPost, "/api/graphs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	list := decodeBody[[]store.Summary](t, do(t, s, http.MethodGet, "/api/graphs", nil))
	if len(list) != 1 || list[0].Name != "privacy" {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateGraphErrors(t *testing.T) {
	s, _ := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"empty body", "", errors.ErrCodeInvalidInput},
		{"malformed", "{", errors.ErrCodeInvalidInput},
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}]}`, errors.ErrCodeInvalidGraph},
		{"empty endpoint", `{"nodes":[{"id":"a"}],"edges":[{"source":"a"}]}`, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, s, http.MethodPost, "/api/graphs", tt.body), http.StatusBadRequest, tt.code)
		})
	}
}

func TestLayout(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed := uint64(7)
	rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
		Options: pipeline.Options{Focus: "n1", Seed: &seed},
		Graph:   graph.Sample(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	l := decodeBody[graph.Layout](t, rec)
	if l.Focus != "n1" || l.Seed != 7 {
		t.Errorf("focus = %q seed = %d", l.Focus, l.Seed)
	}
	if len(l.Nodes) != 6 {
		t.Fatalf("got %d nodes, want 6", len(l.Nodes))
	}
	focus := l.Nodes[0]
	if !focus.Selected || focus.Position != (graph.Position{}) {
		t.Errorf("focus node = %+v, want selected at origin", focus)
	}
	if l.Stats.VisibleNodes != 6 {
		t.Errorf("visible = %d, want 6", l.Stats.VisibleNodes)
	}
}

func TestLayoutFocus(t *testing.T) {
	s, _ := newTestServer(t, nil)
	tests := []struct {
		name   string
		focus  string
		strict bool
		status int
	}{
		{"unknown tolerated", "zz", false, http.StatusOK},
		{"unknown strict", "zz", true, http.StatusNotFound},
		{"missing", "", false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
				Options: pipeline.Options{Focus: tt.focus, Strict: tt.strict},
				Graph:   graph.Sample(),
			})
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestLayoutUnknownFocusHidesAll(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/api/layout", layoutRequest{
		Options: pipeline.Options{Focus: "zz"},
		Graph:   graph.Sample(),
	})
	l := decodeBody[graph.Layout](t, rec)
	if l.Stats.VisibleNodes != 0 || l.Stats.HiddenNodes != 6 {
		t.Errorf("stats = %+v, want every node hidden", l.Stats)
	}
}

func TestStoredLayout(t *testing.T) {
	s, st := newTestServer(t, nil)
	rec, err := st.Create(context.Background(), "sample", graph.Sample())
	if err != nil {
		t.Fatal(err)
	}

	resp := do(t, s, http.MethodGet, "/api/graphs/"+rec.ID+"/layout?focus=n6&seed=3", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", resp.Code, resp.Body.String())
	}
	l := decodeBody[graph.Layout](t, resp)
	if len(l.Rings) != 4 {
		t.Fatalf("got %d rings, want 4", len(l.Rings))
	}
	if got := l.Rings[3].NodeIDs; len(got) != 3 {
		t.Errorf("ring 3 = %v, want three nodes", got)
	}

	dot := do(t, s, http.MethodGet, "/api/graphs/"+rec.ID+"/layout?focus=n1&format=dot", nil)
	if dot.Code != http.StatusOK {
		t.Fatalf("dot status = %d (body %s)", dot.Code, dot.Body.String())
	}
	if !strings.HasPrefix(dot.Header().Get("Content-Type"), "text/vnd.graphviz") {
		t.Errorf("content type = %q", dot.Header().Get("Content-Type"))
	}
	if !strings.Contains(dot.Body.String(), "digraph") {
		t.Errorf("dot output missing digraph header: %q", dot.Body.String())
	}
}

func TestStoredLayoutErrors(t *testing.T) {
	s, st := newTestServer(t, nil)
	rec, err := st.Create(context.Background(), "", graph.Sample())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"bad seed", "/api/graphs/" + rec.ID + "/layout?focus=n1&seed=-1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad bool", "/api/graphs/" + rec.ID + "/layout?focus=n1&strict=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/api/graphs/" + rec.ID + "/layout?focus=n1&format=pdf", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown graph", "/api/graphs/nope/layout?focus=n1", http.StatusNotFound, errors.ErrCodeGraphNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, s, http.MethodGet, tt.path, nil), tt.status, tt.code)
		})
	}
}

func TestGraphgen(t *testing.T) {
	gen := &fakeGenerator{g: graph.Sample()}
	s, st := newTestServer(t, gen)

	req := graphgenRequest{Documents: graphgen.SampleDocuments(), Store: true, Name: "extracted"}
	rec := do(t, s, http.MethodPost, "/api/graphgen", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[graphgenResponse](t, rec)
	if resp.ID == "" {
		t.Fatal("stored graph has no id")
	}
	if len(resp.Graph.Nodes) != 6 {
		t.Errorf("got %d nodes", len(resp.Graph.Nodes))
	}
	if _, err := st.Get(context.Background(), resp.ID); err != nil {
		t.Errorf("graph was not stored: %v", err)
	}
}

func TestGraphgenErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		req := graphgenRequest{Documents: graphgen.SampleDocuments()}
		wantError(t, do(t, s, http.MethodPost, "/api/graphgen", req), http.StatusNotImplemented, errors.ErrCodeUnsupported)
	})

	t.Run("no documents", func(t *testing.T) {
		gen := &fakeGenerator{}
		s, _ := newTestServer(t, gen)
		wantError(t, do(t, s, http.MethodPost, "/api/graphgen", graphgenRequest{}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
		if gen.calls != 0 {
			t.Errorf("generator called %d times", gen.calls)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New(errors.ErrCodeLLMResponse, "model returned no JSON")}
		s, _ := newTestServer(t, gen)
		req := graphgenRequest{Documents: graphgen.SampleDocuments()}
		wantError(t, do(t, s, http.MethodPost, "/api/graphgen", req), http.StatusBadGateway, errors.ErrCodeLLMResponse)
	})
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/healthz", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kgraph_http_request_duration_seconds") {
		t.Error("metrics missing request duration histogram")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
