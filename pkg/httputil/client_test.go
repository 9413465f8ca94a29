package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/utitree/pkg/cache"
)

func TestClientFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != "utitree-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	fc, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(fc, time.Hour,
		WithHTTPClient(server.Client()),
		WithHeaders(map[string]string{"User-Agent": "utitree-test"}))

	ctx := context.Background()
	body, cached, err := client.Fetch(ctx, server.URL, false)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if cached || string(body) != "<table></table>" {
		t.Errorf("Fetch() = %q, cached=%v", body, cached)
	}

	body, cached, err = client.Fetch(ctx, server.URL, false)
	if err != nil || !cached || string(body) != "<table></table>" {
		t.Errorf("second Fetch() = %q, cached=%v, err=%v; want cached body", body, cached, err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	if _, cached, _ = client.Fetch(ctx, server.URL, true); cached {
		t.Error("refresh should bypass the cache")
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after refresh, want 2", hits.Load())
	}
}

func TestClientFetch_Status(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int32
	}{
		{"not found", http.StatusNotFound, ErrNotFound, 1},
		{"server error retried", http.StatusBadGateway, ErrNetwork, 3},
		{"client error not retried", http.StatusForbidden, ErrNetwork, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(nil, 0, WithHTTPClient(server.Client()), WithRetry(3, time.Millisecond))
			_, _, err := client.Fetch(context.Background(), server.URL, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("server called %d times, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}
