// Package file reads a UTI relation from a local file.
//
// The extension selects the decoder. YAML, JSON and TOML files hold a
// relation document mapping each identifier to its parents:
//
//	public.data: [public.item]
//	public.item: []
//
// Any other file is treated as a saved "lsregister -dump" output.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
	"github.com/matzehuels/utitree/pkg/source/lsregister"
)

// Source reads one file.
type Source struct {
	path string
}

// New creates a file source for path.
func New(path string) *Source { return &Source{path: path} }

// Name returns "file".
func (s *Source) Name() string { return "file" }

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// Fetch reads and decodes the file. A missing or unreadable file is
// reported as [source.ErrUnavailable].
func (s *Source) Fetch(ctx context.Context) (relation.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, source.Unavailable(s.Name(), err)
	}
	return Decode(data, Kind(s.path))
}

// Kind returns the decoder name for path: "yaml", "json", "toml" or "dump".
func Kind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "dump"
	}
}

// Decode parses data with the named decoder.
func Decode(data []byte, kind string) (relation.Relation, error) {
	if kind == "dump" {
		return lsregister.Parse(bytes.NewReader(data))
	}

	var doc map[string][]string
	var err error
	switch kind {
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	case "json":
		err = json.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unknown decoder %q", kind)
	}
	if err != nil {
		return nil, &source.ParseError{Source: "file", Err: err}
	}
	return relation.FromMap(doc), nil
}

var _ source.Source = (*Source)(nil)
