package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/utitree/pkg/source"
)

var want = map[string][]string{
	"public.item":    {},
	"public.data":    {"public.item"},
	"public.content": {},
	"public.text":    {"public.content", "public.data"},
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"rel.yml", "public.item: []\npublic.data: [public.item]\npublic.content:\npublic.text:\n  - public.data\n  - public.content\n"},
		{"rel.json", `{"public.item": [], "public.data": ["public.item"], "public.content": null, "public.text": ["public.data", "public.content"]}`},
		{"rel.toml", "\"public.item\" = []\n\"public.data\" = [\"public.item\"]\n\"public.content\" = []\n\"public.text\" = [\"public.data\", \"public.content\"]\n"},
		{"dump.txt", "uti: public.item\n----------\nuti: public.data\nconforms to: public.item\n----------\nuti: public.content\n----------\nuti: public.text\nconforms to: public.data, public.content\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			rel, err := New(path).Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch() error: %v", err)
			}
			if diff := cmp.Diff(want, rel.Plain()); diff != "" {
				t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetch_Missing(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yml")).Fetch(context.Background())
	if !errors.Is(err, source.ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Fetch() error = %v, should keep os.ErrNotExist", err)
	}
}

func TestFetch_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"public.data": "public.item"`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path).Fetch(context.Background())
	var perr *source.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Fetch() error = %v, want *source.ParseError", err)
	}
}

func TestKind(t *testing.T) {
	tests := map[string]string{
		"a.yml":          "yaml",
		"a.YAML":         "yaml",
		"a.json":         "json",
		"a.toml":         "toml",
		"lsregister.txt": "dump",
		"dump":           "dump",
	}
	for in, want := range tests {
		if got := Kind(in); got != want {
			t.Errorf("Kind(%q) = %q, want %q", in, got, want)
		}
	}
}
