package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/utitree/pkg/pipeline"
	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
)

type staticSource struct{ rel relation.Relation }

func (staticSource) Name() string { return "static" }

func (s staticSource) Fetch(context.Context) (relation.Relation, error) { return s.rel, nil }

var _ source.Source = staticSource{}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	rel := relation.New()
	rel.Add("public.data", "public.item")
	rel.Add("public.image", "public.data")
	rel.Add("public.jpeg", "public.image")

	quiet := log.NewWithOptions(io.Discard, log.Options{})
	res, err := pipeline.NewRunner(nil, nil, quiet).Run(context.Background(), staticSource{rel})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	ts := httptest.NewServer(New(res, quiet).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		want   any
	}{
		{"/roots", http.StatusOK, []any{"public.item"}},
		{"/children/public.data", http.StatusOK, map[string]any{
			"uti": "public.data", "descendants": []any{"public.image", "public.jpeg"},
		}},
		{"/children/public.jpeg", http.StatusOK, map[string]any{"uti": "public.jpeg", "descendants": []any{}}},
		{"/ancestors/public.jpeg", http.StatusOK, map[string]any{"uti": "public.jpeg", "ancestors": []any{"public.item"}}},
		{"/tree/public.image", http.StatusOK, map[string]any{"public.image": []any{"public.jpeg"}}},
		{"/tree", http.StatusOK, []any{
			map[string]any{"public.item": []any{
				map[string]any{"public.data": []any{
					map[string]any{"public.image": []any{"public.jpeg"}},
				}},
			}},
		}},
		{"/children/com.example.none", http.StatusNotFound, map[string]any{"error": `unknown uti "com.example.none"`}},
		{"/ancestors/com.example.none", http.StatusNotFound, map[string]any{"error": `unknown uti "com.example.none"`}},
		{"/tree/com.example.none", http.StatusNotFound, map[string]any{"error": `unknown uti "com.example.none"`}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, ctype, body := get(t, ts.URL+tt.path)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if ctype != "application/json" {
				t.Errorf("Content-Type = %q", ctype)
			}
			var got any
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("decode %q: %v", body, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, _, body := get(t, ts.URL+"/healthz")
	if status != http.StatusOK || !strings.Contains(body, `"utis": 4`) {
		t.Errorf("GET /healthz = %d %s", status, body)
	}
}

func TestYAMLFormat(t *testing.T) {
	ts := newTestServer(t)
	status, ctype, body := get(t, ts.URL+"/roots?format=yaml")
	if status != http.StatusOK || ctype != "application/yaml" {
		t.Fatalf("GET /roots?format=yaml = %d %q", status, ctype)
	}
	if body != "- public.item\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSwap(t *testing.T) {
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, quiet)

	first := relation.New()
	first.Add("a", "root")
	res1, _ := runner.Run(context.Background(), staticSource{first})
	srv := New(res1, quiet)

	second := relation.New()
	second.Add("b", "other")
	res2, _ := runner.Run(context.Background(), staticSource{second})
	srv.Swap(res2)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roots", nil))
	if !strings.Contains(rec.Body.String(), "other") {
		t.Errorf("Swap() not applied: %s", rec.Body.String())
	}
}
