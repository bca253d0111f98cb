package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server uses this to keep per-deployment cache namespaces apart
// when several instances share one Redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "site:north:")
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

// ModelKey generates a prefixed key for model snapshot caching.
func (k *ScopedKeyer) ModelKey(source, name string) string {
	return k.prefix + k.inner.ModelKey(source, name)
}

// ReportKey generates a prefixed key for report caching.
func (k *ScopedKeyer) ReportKey(modelHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(modelHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
