package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/utitree/pkg/cache"
	"github.com/matzehuels/utitree/pkg/document"
	"github.com/matzehuels/utitree/pkg/errors"
	"github.com/matzehuels/utitree/pkg/pipeline"
	"github.com/matzehuels/utitree/pkg/server"
	"github.com/matzehuels/utitree/pkg/store"
)

const testRelation = `public.item: []
public.data: [public.item]
public.image: [public.data]
public.jpeg: [public.image]
`

// isolate points every XDG directory at a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	return base
}

func writeRelation(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "relation.yml")
	if err := os.WriteFile(path, []byte(testRelation), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "lookup", "serve", "cache", "completion"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q (have %v)", want, names)
		}
	}
}

func TestGenerateAndLookup(t *testing.T) {
	base := isolate(t)
	rel := writeRelation(t, base)
	treePath := filepath.Join(base, "out", "UTI-tree.yml")
	childrenPath := filepath.Join(base, "out", "UTI-children.json")
	dotPath := filepath.Join(base, "out", "UTI-tree.dot")

	_, err := run(t, "generate",
		"--source", "file", "--file", rel,
		"--tree-path", treePath, "--children-path", childrenPath,
		"--dot", dotPath, "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tree, err := document.ReadTree(treePath)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	wantTree := []any{
		map[string]any{"public.item": []any{
			map[string]any{"public.data": []any{
				map[string]any{"public.image": []any{"public.jpeg"}},
			}},
		}},
	}
	if diff := cmp.Diff(wantTree, tree); diff != "" {
		t.Errorf("tree document mismatch (-want +got):\n%s", diff)
	}

	children, err := document.ReadChildren(childrenPath)
	if err != nil {
		t.Fatalf("ReadChildren: %v", err)
	}
	wantChildren := map[string][]string{
		"public.item":  {"public.data", "public.image", "public.jpeg"},
		"public.data":  {"public.image", "public.jpeg"},
		"public.image": {"public.jpeg"},
		"public.jpeg":  {},
	}
	if diff := cmp.Diff(wantChildren, children); diff != "" {
		t.Errorf("children document mismatch (-want +got):\n%s", diff)
	}

	if data, err := os.ReadFile(dotPath); err != nil || !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("DOT diagram = %q, %v", data, err)
	}

	out, err := run(t, "lookup", "public.jpeg", "--format", "json")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var rec store.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("lookup output is not a JSON record: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"public.item"}, rec.Ancestors); diff != "" {
		t.Errorf("ancestors mismatch (-want +got):\n%s", diff)
	}
	if len(rec.Descendants) != 0 || rec.RunID == "" {
		t.Errorf("unexpected record: %+v", rec)
	}

	out, err = run(t, "lookup", "public.item")
	if err != nil {
		t.Fatalf("lookup text: %v", err)
	}
	if !strings.Contains(out, "(top-level)") || !strings.Contains(out, "public.jpeg") {
		t.Errorf("lookup text output = %q", out)
	}
}

func TestGenerateFromEnvironment(t *testing.T) {
	base := isolate(t)
	t.Setenv("UTITREE_SOURCE", "file")
	t.Setenv("UTITREE_FILE", writeRelation(t, base))
	t.Setenv("UTITREE_NO_CACHE", "true")
	t.Setenv("UTITREE_NO_SAVE", "true")
	treePath := filepath.Join(base, "tree.json")

	if _, err := run(t, "generate", "--tree-path", treePath, "--children-path", filepath.Join(base, "children.yml")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(treePath); err != nil {
		t.Errorf("tree document not written: %v", err)
	}

	_, err := run(t, "lookup", "public.jpeg")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("lookup after --no-save: err = %v, want NOT_FOUND", err)
	}
}

func TestGenerateFromConfigFile(t *testing.T) {
	base := isolate(t)
	rel := writeRelation(t, base)
	treePath := filepath.Join(base, "cfg-tree.yml")
	cfg := filepath.Join(base, "utitree.toml")
	content := "source = \"file\"\n" +
		"file = " + quote(rel) + "\n" +
		"tree-path = " + quote(treePath) + "\n" +
		"children-path = " + quote(filepath.Join(base, "cfg-children.yml")) + "\n" +
		"no-cache = true\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "generate", "--config", cfg); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(treePath); err != nil {
		t.Errorf("tree document not written at configured path: %v", err)
	}
}

func TestDefaultConfigFileIsOptional(t *testing.T) {
	isolate(t)
	if _, err := run(t, "cache", "path"); err != nil {
		t.Errorf("missing default config should be ignored: %v", err)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	base := isolate(t)
	_, err := run(t, "cache", "path", "--config", filepath.Join(base, "missing.toml"))
	if err == nil {
		t.Error("a missing --config file should fail")
	}
}

func TestGenerateErrors(t *testing.T) {
	base := isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
		exit int
	}{
		{"unknown source", []string{"--source", "ftp"}, errors.ErrCodeInvalidSource, 64},
		{"file source without file", []string{"--source", "file"}, errors.ErrCodeInvalidInput, 64},
		{"bad format", []string{"--source", "file", "--file", "x.yml", "--format", "xml"}, errors.ErrCodeInvalidFormat, 64},
		{"missing file", []string{"--source", "file", "--file", filepath.Join(base, "nope.yml"), "--no-cache"}, errors.ErrCodeSourceUnavailable, 69},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"generate"}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if got := errors.ExitCode(err); got != tt.exit {
				t.Errorf("ExitCode = %d, want %d", got, tt.exit)
			}
		})
	}
}

func TestGenerateParseErrorWritesNothing(t *testing.T) {
	base := isolate(t)
	bad := filepath.Join(base, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	treePath := filepath.Join(base, "tree.yml")

	_, err := run(t, "generate", "--source", "file", "--file", bad, "--tree-path", treePath, "--no-cache")
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("err = %v, want PARSE_ERROR", err)
	}
	if _, statErr := os.Stat(treePath); !os.IsNotExist(statErr) {
		t.Error("no document should be written when a source fails")
	}
}

func TestLookupRejectsInvalidIdentifier(t *testing.T) {
	isolate(t)
	_, err := run(t, "lookup", "public\tjpeg")
	if !errors.Is(err, errors.ErrCodeInvalidIdentifier) {
		t.Errorf("err = %v, want INVALID_IDENTIFIER", err)
	}
}

const testDump = `--------------------------------------------------------------------------------
uti:                        public.source-code
conforms to:                public.plain-text
--------------------------------------------------------------------------------
uti:                        com.example.c++source
conforms to:                public.source-code
--------------------------------------------------------------------------------
uti:                        public.plain-text
`

func TestLookupIdentifierFromDump(t *testing.T) {
	base := isolate(t)
	dump := filepath.Join(base, "dump.txt")
	if err := os.WriteFile(dump, []byte(testDump), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "generate", "--source", "file", "--file", dump,
		"--tree-path", filepath.Join(base, "tree.yml"),
		"--children-path", filepath.Join(base, "children.yml"), "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := run(t, "lookup", "com.example.c++source", "--format", "json")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var rec store.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("lookup output is not a JSON record: %v\n%s", err, out)
	}
	if rec.UTI != "com.example.c++source" {
		t.Errorf("UTI = %q", rec.UTI)
	}
	if diff := cmp.Diff([]string{"public.plain-text"}, rec.Ancestors); diff != "" {
		t.Errorf("ancestors mismatch (-want +got):\n%s", diff)
	}
}

func TestCachePath(t *testing.T) {
	base := isolate(t)
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(base, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
}

func TestGenerateDiagramFlags(t *testing.T) {
	base := isolate(t)
	dotPath := filepath.Join(base, "images.dot")

	_, err := run(t, "generate", "--source", "file", "--file", writeRelation(t, base),
		"--tree-path", filepath.Join(base, "tree.yml"),
		"--children-path", filepath.Join(base, "children.yml"),
		"--dot", dotPath, "--dot-root", "public.image", "--dot-detailed", "--no-cache", "--no-save")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	src := string(data)
	if !strings.Contains(src, `"public.image" -> "public.jpeg";`) {
		t.Errorf("diagram should keep the public.image subtree:\n%s", src)
	}
	if !strings.Contains(src, `label="public.image\n1 descendants"`) {
		t.Errorf("diagram should use detailed labels:\n%s", src)
	}
	if strings.Contains(src, `"public.data"`) {
		t.Errorf("diagram should not contain public.data:\n%s", src)
	}
}

func TestNewRunnerCachePrefix(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	c.v.Set("no-cache", true)
	c.v.Set("cache-prefix", "ci:")

	runner, err := c.newRunner(context.Background())
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	want := "ci:" + cache.NewDefaultKeyer().PageKey("https://example.com")
	if got := runner.Keyer.PageKey("https://example.com"); got != want {
		t.Errorf("PageKey = %q, want %q", got, want)
	}
}

func TestServeFromDocuments(t *testing.T) {
	base := isolate(t)
	treePath := filepath.Join(base, "tree.json")
	childrenPath := filepath.Join(base, "children.yml")
	_, err := run(t, "generate", "--source", "file", "--file", writeRelation(t, base),
		"--tree-path", treePath, "--children-path", childrenPath, "--no-cache", "--no-save")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	c := New(io.Discard, LogInfo)
	c.v.Set("from-documents", true)
	c.v.Set("tree-path", treePath)
	c.v.Set("children-path", childrenPath)
	res, err := c.build(context.Background(), pipeline.NewRunner(nil, nil, c.Logger), c.pipelineOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ts := httptest.NewServer(server.New(res, c.Logger).Handler())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/ancestors/public.jpeg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		UTI       string   `json:"uti"`
		Ancestors []string `json:"ancestors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"public.item"}, body.Ancestors); diff != "" {
		t.Errorf("ancestors mismatch (-want +got):\n%s", diff)
	}

	c.v.Set("children-path", filepath.Join(base, "missing.yml"))
	_, err = c.build(context.Background(), pipeline.NewRunner(nil, nil, c.Logger), c.pipelineOptions())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing document: err = %v, want FILE_NOT_FOUND", err)
	}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
