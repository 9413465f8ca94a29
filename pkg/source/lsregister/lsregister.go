// Package lsregister reads the UTI relation from the Launch Services
// registry of the local machine.
//
// The registry is dumped with "lsregister -dump", which prints one record
// per registered bundle, claim and type, separated by lines of dashes.
// Type records carry the fields this package uses:
//
//	uti:                        public.jpeg
//	conforms to:                public.image, public.data
//
// The tool only exists on macOS; elsewhere [Source.Fetch] reports
// [source.ErrUnavailable]. [Parse] works on any platform and also backs
// the file source for saved dumps.
package lsregister

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
)

// DefaultPath is where macOS ships the lsregister tool.
const DefaultPath = "/System/Library/Frameworks/CoreServices.framework/Frameworks/LaunchServices.framework/Support/lsregister"

const (
	keyUTI        = "uti"
	keyConformsTo = "conforms to"

	// separatorDashes is the shortest dash run treated as a record boundary.
	separatorDashes = 10
	maxLineBytes    = 1 << 20
)

// Source runs lsregister and parses its dump.
type Source struct {
	path   string
	goos   string
	logger *log.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithPath overrides [DefaultPath].
func WithPath(path string) Option { return func(s *Source) { s.path = path } }

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a registry source.
func New(opts ...Option) *Source {
	s := &Source{path: DefaultPath, goos: runtime.GOOS, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "system".
func (s *Source) Name() string { return "system" }

// Fetch runs the dump and parses it.
func (s *Source) Fetch(ctx context.Context) (relation.Relation, error) {
	if s.goos != "darwin" {
		return nil, source.Unavailable(s.Name(), fmt.Errorf("lsregister requires macOS, running on %s", s.goos))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.path, "-dump")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, source.Unavailable(s.Name(), err)
	}
	s.logger.Debug("dumped registry", "path", s.path, "bytes", len(out))

	rel, err := Parse(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	s.logger.Info("parsed registry", "utis", len(rel))
	return rel, nil
}

// Parse reads a registry dump. Records without a uti field are ignored;
// parents come from the comma separated "conforms to" field. Lines without
// a colon are continuation lines and are skipped.
func Parse(r io.Reader) (relation.Relation, error) {
	rel := relation.New()
	record := make(map[string]string)

	flush := func() {
		if name := record[keyUTI]; name != "" {
			rel.Add(name, splitList(record[keyConformsTo])...)
		}
		clear(record)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if isSeparator(line) {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := record[key]; seen {
			continue
		}
		record[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, &source.ParseError{Source: "system", Err: err}
	}
	flush()
	return rel, nil
}

func isSeparator(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= separatorDashes && strings.Trim(line, "-") == ""
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var _ source.Source = (*Source)(nil)
