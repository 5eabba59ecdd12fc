package cache

// ScopedKeyer wraps a Keyer with a prefix so that several projects can
// share one backend (typically Redis) without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "breeding-2024:")
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

// MapKey generates a prefixed key for informative maps.
func (k *ScopedKeyer) MapKey(assayHash, pairsHash string, opts MapKeyOpts) string {
	return k.prefix + k.inner.MapKey(assayHash, pairsHash, opts)
}

// SelectionKey generates a prefixed key for selection reports.
func (k *ScopedKeyer) SelectionKey(mapHash string, opts SelectionKeyOpts) string {
	return k.prefix + k.inner.SelectionKey(mapHash, opts)
}

// ArtifactKey generates a prefixed key for artifacts.
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
