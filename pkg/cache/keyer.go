package cache

// Keyer builds cache keys. Implementations must be deterministic: the same
// inputs always give the same key.
type Keyer interface {
	MapKey(assayHash, pairsHash string, opts MapKeyOpts) string
	SelectionKey(mapHash string, opts SelectionKeyOpts) string
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// MapKeyOpts are the assay parse options that change the informative map.
type MapKeyOpts struct {
	TrailingColumns int    `json:"trailing_columns"`
	SampleSuffix    string `json:"sample_suffix"`
	HomA            string `json:"hom_a"`
	HomB            string `json:"hom_b"`
	Het             string `json:"het"`
}

// SelectionKeyOpts are the optimizer options that change a selection.
type SelectionKeyOpts struct {
	Strategy string `json:"strategy"`
	MaxK     int    `json:"max_k"`
	Loci     bool   `json:"loci"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Detailed bool    `json:"detailed"`
}

// DefaultKeyer hashes key components into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MapKey keys an informative map.
func (DefaultKeyer) MapKey(assayHash, pairsHash string, opts MapKeyOpts) string {
	return hashKey("map", assayHash, pairsHash, opts)
}

// SelectionKey keys a selection report.
func (DefaultKeyer) SelectionKey(mapHash string, opts SelectionKeyOpts) string {
	return hashKey("selection", mapHash, opts)
}

// ArtifactKey keys a rendered artifact.
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}
