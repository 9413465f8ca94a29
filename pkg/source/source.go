// Package source defines the adapters that produce a raw UTI relation.
//
// Each adapter turns one external representation into a
// [relation.Relation] mapping identifiers to their declared parents:
//
//   - web: the first table of Apple's published UTI reference page
//   - lsregister: the Launch Services registry dump of the local machine
//   - file: a relation document (YAML, JSON, TOML) or a saved dump
//
// Adapters never build graphs. The pipeline merges their relations and
// hands the result to the hierarchy package.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/utitree/pkg/relation"
)

// ErrUnavailable is returned when a source cannot be reached at all: the
// page fails to download, or the registry tool is missing.
var ErrUnavailable = errors.New("source unavailable")

// Source produces a relation from one external representation.
type Source interface {
	// Name is the short identifier used in logs and cache keys.
	Name() string
	// Fetch retrieves and parses the relation.
	Fetch(ctx context.Context) (relation.Relation, error)
}

// ParseError reports a record that does not have the expected shape.
// Row is 1-based; zero means the whole input failed to decode.
type ParseError struct {
	Source string
	Row    int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Source
	if e.Row > 0 {
		msg = fmt.Sprintf("%s: row %d", msg, e.Row)
	}
	if e.Text != "" {
		msg = fmt.Sprintf("%s: cannot parse %q", msg, e.Text)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Unavailable wraps err so that it matches [ErrUnavailable] while keeping
// the original cause in the chain.
func Unavailable(name string, err error) error {
	return fmt.Errorf("%s: %w: %w", name, ErrUnavailable, err)
}
