package cache

// Keyer derives cache keys for the payloads a run stores.
type Keyer interface {
	// PageKey is the key for a fetched document, e.g. the UTI table HTML.
	PageKey(url string) string

	// RelationKey is the key for a parsed relation from a named source.
	RelationKey(source, contentHash string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PageKey hashes the URL so keys stay filesystem and Redis safe.
func (DefaultKeyer) PageKey(url string) string {
	return hashKey("page", url)
}

// RelationKey combines the source name with the content hash.
func (DefaultKeyer) RelationKey(source, contentHash string) string {
	return hashKey("relation", source, contentHash)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating several tools or
// environments that share one Redis instance.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "utitree:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(url string) string {
	return k.prefix + k.inner.PageKey(url)
}

// RelationKey generates a prefixed relation key.
func (k *ScopedKeyer) RelationKey(source, contentHash string) string {
	return k.prefix + k.inner.RelationKey(source, contentHash)
}
