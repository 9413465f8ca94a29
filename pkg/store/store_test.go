package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleRecords() []Record {
	children := map[string][]string{
		"public.data":    {"public.content", "public.text"},
		"public.content": {"public.text"},
		"public.text":    {},
	}
	ancestors := map[string][]string{
		"public.content": {"public.data"},
		"public.text":    {"public.data"},
	}
	return Records("run-1", children, ancestors, []string{"public.data"})
}

func TestRecords(t *testing.T) {
	got := sampleRecords()
	want := []Record{
		{UTI: "public.content", Ancestors: []string{"public.data"}, Descendants: []string{"public.text"}, RunID: "run-1"},
		{UTI: "public.data", Ancestors: []string{}, Descendants: []string{"public.content", "public.text"}, Root: true, RunID: "run-1"},
		{UTI: "public.text", Ancestors: []string{"public.data"}, Descendants: []string{}, RunID: "run-1"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Record{}, "SavedAt")); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "public.data"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, sampleRecords()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	rec, err := s.Get(ctx, "public.data")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !rec.Root || len(rec.Descendants) != 2 {
		t.Errorf("Get() = %+v", rec)
	}
	if _, err := s.Get(ctx, "public.jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}

	// A second save replaces the snapshot.
	if err := s.Save(ctx, Records("run-2", map[string][]string{"x": {}}, nil, nil)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := s.Get(ctx, "public.data"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale record still present: %v", err)
	}
}

func TestNewMongoStore_BadURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), "postgres://localhost"); err == nil {
		t.Error("NewMongoStore() should reject a non-mongodb URI")
	}
}
