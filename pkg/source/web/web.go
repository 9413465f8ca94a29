package web

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/utitree/pkg/cache"
	"github.com/matzehuels/utitree/pkg/httputil"
	"github.com/matzehuels/utitree/pkg/observability"
	"github.com/matzehuels/utitree/pkg/relation"
	"github.com/matzehuels/utitree/pkg/source"
)

// DefaultURL is Apple's "System-Declared Uniform Type Identifiers" page.
const DefaultURL = "https://developer.apple.com/library/archive/documentation/Miscellaneous/Reference/UTIRef/Articles/System-DeclaredUniformTypeIdentifiers.html"

const relationTTL = 30 * 24 * time.Hour

// Source fetches and parses the published UTI table.
type Source struct {
	url     string
	client  *httputil.Client
	cache   cache.Cache
	keyer   cache.Keyer
	refresh bool
	logger  *log.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithURL overrides [DefaultURL].
func WithURL(url string) Option { return func(s *Source) { s.url = url } }

// WithRefresh bypasses cached copies of the page.
func WithRefresh(refresh bool) Option { return func(s *Source) { s.refresh = refresh } }

// WithCache stores parsed relations keyed by the page content, so an
// unchanged page is not parsed twice.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(s *Source) {
		s.cache = c
		if k != nil {
			s.keyer = k
		}
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a web source downloading through client.
func New(client *httputil.Client, opts ...Option) *Source {
	s := &Source{
		url:    DefaultURL,
		client: client,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "web".
func (s *Source) Name() string { return "web" }

// URL returns the page the source reads.
func (s *Source) URL() string { return s.url }

// Fetch downloads the page and parses its first table.
func (s *Source) Fetch(ctx context.Context) (relation.Relation, error) {
	body, cached, err := s.client.Fetch(ctx, s.url, s.refresh)
	if err != nil {
		return nil, source.Unavailable(s.Name(), err)
	}
	s.logger.Debug("fetched page", "url", s.url, "bytes", len(body), "cached", cached)

	key := s.keyer.RelationKey(s.Name(), cache.Hash(body))
	if data, ok, _ := s.cache.Get(ctx, key); ok {
		var plain map[string][]string
		if json.Unmarshal(data, &plain) == nil {
			observability.Cache().OnCacheHit(ctx, "relation")
			return relation.FromMap(plain), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "relation")

	rel, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	s.logger.Info("parsed table", "url", s.url, "utis", len(rel))

	if data, err := json.Marshal(rel.Plain()); err == nil {
		if s.cache.Set(ctx, key, data, relationTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "relation", len(data))
		}
	}
	return rel, nil
}

var _ source.Source = (*Source)(nil)
